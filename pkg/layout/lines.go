package layout

import (
	"io"
	"sort"

	"github.com/sirupsen/logrus"
)

// Order is the horizontal direction elements of a line are sorted in
type Order int

const (
	// RightToLeft sorts by descending center X. It is the default because
	// existing consumers of the rendered output depend on it.
	RightToLeft Order = iota
	// LeftToRight sorts by ascending center X
	LeftToRight
)

// String returns a string representation of the order
func (o Order) String() string {
	if o == LeftToRight {
		return "ltr"
	}
	return "rtl"
}

// ParseOrder maps "ltr"/"rtl" to an Order, defaulting to RightToLeft
func ParseOrder(s string) Order {
	switch s {
	case "ltr", "left-to-right", "LeftToRight":
		return LeftToRight
	default:
		return RightToLeft
	}
}

// DefaultLineOverlap is the fraction of vertical overlap that puts two
// elements on the same line
const DefaultLineOverlap = 0.7

// Options configures line grouping
type Options struct {
	// Order is the in-line sort direction (default RightToLeft)
	Order Order

	// LineOverlap is the vertical overlap fraction that joins an element
	// to a line (default 0.7)
	LineOverlap float64

	// Logger receives skipped element reports; nil discards them
	Logger logrus.FieldLogger
}

// DefaultOptions returns right-to-left ordering with a 0.7 line overlap
func DefaultOptions() Options {
	return Options{
		Order:       RightToLeft,
		LineOverlap: DefaultLineOverlap,
	}
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func (o Options) lineOverlap() float64 {
	if o.LineOverlap <= 0 {
		return DefaultLineOverlap
	}
	return o.LineOverlap
}

// Line is a group of elements judged to lie on the same visual line
type Line struct {
	// Key is the vertical midpoint of the element that started the line
	Key      float64   `json:"key"`
	Elements []Element `json:"elements"`
}

// Group clusters elements into lines and orders them.
//
// Each element joins the first existing line (in creation order) whose
// most recently added element overlaps it vertically by more than the
// configured fraction; otherwise it starts a new line. This is an
// incremental approximation: input order can change the grouping.
func Group(elements []Element, opts Options) []Line {
	threshold := opts.lineOverlap()

	var lines []Line
	for _, e := range elements {
		placed := false
		for i := range lines {
			last := lines[i].Elements[len(lines[i].Elements)-1]
			if last.Interval.OverlapsFraction(e.Interval, threshold) {
				lines[i].Elements = append(lines[i].Elements, e)
				placed = true
				break
			}
		}
		if !placed {
			lines = append(lines, Line{Key: e.Interval.Mid(), Elements: []Element{e}})
		}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Key < lines[j].Key
	})

	for i := range lines {
		sortLine(lines[i].Elements, opts.Order)
	}
	return lines
}

// sortKey is the center X, or the render weight for elements at X == 0
func sortKey(e Element) float64 {
	if e.Center.X != 0 {
		return e.Center.X
	}
	return e.Weight
}

func sortLine(elements []Element, order Order) {
	sort.SliceStable(elements, func(i, j int) bool {
		if order == LeftToRight {
			return sortKey(elements[i]) < sortKey(elements[j])
		}
		return sortKey(elements[i]) > sortKey(elements[j])
	})
}
