package gdocai

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/gardar/ocrlayout/pkg/analysis"
)

// PageSeparator joins the content of merged page results
const PageSeparator = "\n\n"

// BatchOptions bounds how page requests are sent to the processor
type BatchOptions struct {
	// Concurrency is the number of requests in flight. Values below 1 mean 1.
	Concurrency int64
	// Every is the minimum interval between requests. Zero disables rate limiting.
	Every time.Duration
	// Burst is the number of requests allowed at once by the rate limiter
	Burst int
}

// DefaultBatchOptions returns conservative settings for the online processing quota
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{Concurrency: 4, Every: 250 * time.Millisecond, Burst: 1}
}

// ProcessPages sends single page PDFs to the processor and merges the
// converted results into one document, keeping page order. Each response
// must hold exactly one page.
func ProcessPages(ctx context.Context, p Processor, pages [][]byte, opts BatchOptions) (*analysis.Result, error) {
	if len(pages) == 0 {
		return nil, errors.New("no pages to process")
	}

	concurrency := max(opts.Concurrency, 1)
	sem := semaphore.NewWeighted(concurrency)

	var limiter *rate.Limiter
	if opts.Every > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Every), max(opts.Burst, 1))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*analysis.Result, len(pages))
	errs := make([]error, len(pages))
	var wg sync.WaitGroup

	for i, pageBytes := range pages {
		if err := sem.Acquire(ctx, 1); err != nil {
			errs[i] = fmt.Errorf("failed to schedule page %d: %w", i+1, err)
			break
		}

		wg.Add(1)
		go func(i int, pageBytes []byte) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := processPage(ctx, p, limiter, pageBytes)
			if err != nil {
				errs[i] = fmt.Errorf("failed to process page %d: %w", i+1, err)
				cancel()
				return
			}
			results[i] = res
		}(i, pageBytes)
	}
	wg.Wait()

	// Report the first page that failed for its own reason rather than
	// one cancelled because of it.
	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if first == nil {
			first = err
		}
		if !errors.Is(err, context.Canceled) {
			return nil, err
		}
	}
	if first != nil {
		return nil, first
	}

	return MergeResults(results...), nil
}

func processPage(ctx context.Context, p Processor, limiter *rate.Limiter, pageBytes []byte) (*analysis.Result, error) {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	doc, err := p.Process(ctx, pageBytes)
	if err != nil {
		return nil, err
	}
	if len(doc.GetPages()) != 1 {
		return nil, fmt.Errorf("expected 1 page in result, got %d", len(doc.GetPages()))
	}
	return ResultFromProto(doc), nil
}

// MergeResults concatenates analysis results into one document. Page
// numbers are renumbered in order and span offsets are shifted to address
// the joined content. Results that did not succeed are skipped.
func MergeResults(results ...*analysis.Result) *analysis.Result {
	merged := &analysis.AnalyzeResult{}
	offset := 0
	pageBase := 0

	for _, res := range results {
		if !res.Succeeded() {
			continue
		}
		ar := res.AnalyzeResult
		if merged.ModelID == "" {
			merged.ModelID = ar.ModelID
			merged.APIVersion = ar.APIVersion
		}
		if offset > 0 {
			merged.Content += PageSeparator
			offset += len([]rune(PageSeparator))
		}

		renumber := make(map[int]int, len(ar.Pages))
		for _, p := range ar.Pages {
			pageBase++
			renumber[p.PageNumber] = pageBase
			merged.Pages = append(merged.Pages, shiftPage(p, pageBase, offset))
		}

		for _, p := range ar.Paragraphs {
			p.Spans = shiftSpans(p.Spans, offset)
			p.BoundingRegions = shiftRegions(p.BoundingRegions, renumber)
			merged.Paragraphs = append(merged.Paragraphs, p)
		}

		for _, t := range ar.Tables {
			t.Spans = shiftSpans(t.Spans, offset)
			t.BoundingRegions = shiftRegions(t.BoundingRegions, renumber)
			cells := make([]analysis.TableCell, len(t.Cells))
			for i, c := range t.Cells {
				c.Spans = shiftSpans(c.Spans, offset)
				c.BoundingRegions = shiftRegions(c.BoundingRegions, renumber)
				cells[i] = c
			}
			t.Cells = cells
			merged.Tables = append(merged.Tables, t)
		}

		merged.Content += ar.Content
		offset += len([]rune(ar.Content))
	}

	return &analysis.Result{Status: analysis.StatusSucceeded, AnalyzeResult: merged}
}

func shiftPage(p analysis.Page, number, offset int) analysis.Page {
	p.PageNumber = number
	p.Spans = shiftSpans(p.Spans, offset)

	words := make([]analysis.Word, len(p.Words))
	for i, w := range p.Words {
		w.Span = shiftSpan(w.Span, offset)
		words[i] = w
	}
	p.Words = words

	marks := make([]analysis.SelectionMark, len(p.SelectionMarks))
	for i, m := range p.SelectionMarks {
		m.Span = shiftSpan(m.Span, offset)
		marks[i] = m
	}
	p.SelectionMarks = marks

	lines := make([]analysis.Line, len(p.Lines))
	for i, l := range p.Lines {
		l.Spans = shiftSpans(l.Spans, offset)
		lines[i] = l
	}
	p.Lines = lines
	return p
}

func shiftSpan(s *analysis.Span, offset int) *analysis.Span {
	if s == nil {
		return nil
	}
	out := analysis.Span{Offset: s.Offset + offset, Length: s.Length}
	return &out
}

func shiftSpans(spans []analysis.Span, offset int) []analysis.Span {
	if spans == nil {
		return nil
	}
	out := make([]analysis.Span, len(spans))
	for i, s := range spans {
		out[i] = analysis.Span{Offset: s.Offset + offset, Length: s.Length}
	}
	return out
}

func shiftRegions(regions []analysis.BoundingRegion, renumber map[int]int) []analysis.BoundingRegion {
	if regions == nil {
		return nil
	}
	out := make([]analysis.BoundingRegion, len(regions))
	for i, r := range regions {
		if n, ok := renumber[r.PageNumber]; ok {
			r.PageNumber = n
		}
		out[i] = r
	}
	return out
}
