package gdocai

import (
	"context"
	"fmt"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

// Processor sends one PDF to a document processor
type Processor interface {
	Process(ctx context.Context, pdfBytes []byte) (*documentaipb.Document, error)
}

// Client is a Processor backed by a Document AI processor
type Client struct {
	cfg    Config
	client *documentai.DocumentProcessorClient
}

// NewClient creates a Document AI client for the configured processor
func NewClient(ctx context.Context, cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []option.ClientOption{option.WithEndpoint(cfg.Endpoint())}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	return &Client{cfg: *cfg, client: client}, nil
}

// Close releases the underlying connection
func (c *Client) Close() error {
	return c.client.Close()
}

// Process sends PDF bytes to the processor and returns the Document proto
func (c *Client) Process(ctx context.Context, pdfBytes []byte) (*documentaipb.Document, error) {
	req := &documentaipb.ProcessRequest{
		Name: c.cfg.ProcessorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdfBytes,
				MimeType: "application/pdf",
			},
		},
		SkipHumanReview: true,
	}

	resp, err := c.client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}
	return resp.Document, nil
}

// ProcessDocument sends PDF bytes to Google Document AI for processing
// and returns the raw Document proto response
func ProcessDocument(ctx context.Context, pdfBytes []byte, cfg *Config) (*documentaipb.Document, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return client.Process(ctx, pdfBytes)
}
