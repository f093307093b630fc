// Package config loads ocrlayout settings from an optional YAML file and
// OCRLAYOUT_* environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/gardar/ocrlayout/pkg/analysis"
	"github.com/gardar/ocrlayout/pkg/gdocai"
	"github.com/gardar/ocrlayout/pkg/hocr"
	"github.com/gardar/ocrlayout/pkg/layout"
	"github.com/gardar/ocrlayout/pkg/pdfout"
	"github.com/gardar/ocrlayout/pkg/render"
)

// Config is the complete ocrlayout configuration
type Config struct {
	DocumentAI gdocai.Config `yaml:"documentai"`
	Batch      BatchConfig   `yaml:"batch"`
	Render     RenderConfig  `yaml:"render"`
	HOCR       HOCRConfig    `yaml:"hocr"`
	PDF        PDFConfig     `yaml:"pdf"`
	Logging    LoggingConfig `yaml:"logging"`
}

// BatchConfig bounds page requests to Document AI
type BatchConfig struct {
	Concurrency int64         `yaml:"concurrency"`
	Every       time.Duration `yaml:"every"`
	Burst       int           `yaml:"burst"`
}

// RenderConfig mirrors render.Options in file form
type RenderConfig struct {
	Order              string   `yaml:"order"` // rtl or ltr
	LineOverlap        float64  `yaml:"line_overlap"`
	SelectionOverlap   float64  `yaml:"selection_overlap"`
	SelectionReference string   `yaml:"selection_reference"` // union or mark
	ExcludeRoles       []string `yaml:"exclude_roles"`
	Workers            int      `yaml:"workers"`
}

type HOCRConfig struct {
	Language string  `yaml:"language"`
	DPI      float64 `yaml:"dpi"`
}

type PDFConfig struct {
	LayerName string  `yaml:"layer_name"`
	Debug     bool    `yaml:"debug"`
	Force     bool    `yaml:"force"`
	Compress  bool    `yaml:"compress"`
	FontSize  float64 `yaml:"font_size"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns the built-in settings
func Default() Config {
	batch := gdocai.DefaultBatchOptions()
	return Config{
		DocumentAI: gdocai.Config{Location: "eu"},
		Batch: BatchConfig{
			Concurrency: batch.Concurrency,
			Every:       batch.Every,
			Burst:       batch.Burst,
		},
		Render: RenderConfig{
			Order:              "rtl",
			LineOverlap:        layout.DefaultLineOverlap,
			SelectionOverlap:   render.DefaultOptions().SelectionOverlap,
			SelectionReference: "union",
			Workers:            1,
		},
		HOCR: HOCRConfig{Language: "en", DPI: hocr.DefaultDPI},
		PDF: PDFConfig{
			LayerName: "OCR Text",
			Compress:  true,
			FontSize:  pdfout.DefaultFont.Size,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads the YAML file at path, if any, on top of the defaults and
// then applies environment overrides
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.DocumentAI.ProjectID = envStr("OCRLAYOUT_PROJECT_ID", c.DocumentAI.ProjectID)
	c.DocumentAI.Location = envStr("OCRLAYOUT_LOCATION", c.DocumentAI.Location)
	c.DocumentAI.ProcessorID = envStr("OCRLAYOUT_PROCESSOR_ID", c.DocumentAI.ProcessorID)
	c.DocumentAI.CredentialsFile = envStr("GOOGLE_APPLICATION_CREDENTIALS", c.DocumentAI.CredentialsFile)

	c.Batch.Concurrency = int64(envInt("OCRLAYOUT_CONCURRENCY", int(c.Batch.Concurrency)))
	c.Batch.Every = envDur("OCRLAYOUT_RATE_EVERY", c.Batch.Every)
	c.Batch.Burst = envInt("OCRLAYOUT_RATE_BURST", c.Batch.Burst)

	c.Render.Order = envStr("OCRLAYOUT_ORDER", c.Render.Order)
	c.Render.LineOverlap = envFloat("OCRLAYOUT_LINE_OVERLAP", c.Render.LineOverlap)
	c.Render.SelectionOverlap = envFloat("OCRLAYOUT_SELECTION_OVERLAP", c.Render.SelectionOverlap)
	c.Render.SelectionReference = envStr("OCRLAYOUT_SELECTION_REFERENCE", c.Render.SelectionReference)
	if roles := envStr("OCRLAYOUT_EXCLUDE_ROLES", ""); roles != "" {
		c.Render.ExcludeRoles = strings.Split(roles, ",")
	}
	c.Render.Workers = envInt("OCRLAYOUT_WORKERS", c.Render.Workers)

	c.Logging.Level = envStr("OCRLAYOUT_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = envStr("OCRLAYOUT_LOG_FORMAT", c.Logging.Format)
}

// Validate checks the values that cannot be defaulted. Document AI
// settings are checked when a processor is called.
func (c Config) Validate() error {
	var errs []error
	if o := strings.ToLower(c.Render.Order); o != "rtl" && o != "ltr" {
		errs = append(errs, fmt.Errorf("render.order must be rtl or ltr, got %q", c.Render.Order))
	}
	if r := strings.ToLower(c.Render.SelectionReference); r != "union" && r != "mark" {
		errs = append(errs, fmt.Errorf("render.selection_reference must be union or mark, got %q", c.Render.SelectionReference))
	}
	if c.Render.LineOverlap <= 0 || c.Render.LineOverlap > 1 {
		errs = append(errs, fmt.Errorf("render.line_overlap must be in (0, 1], got %v", c.Render.LineOverlap))
	}
	if c.Render.SelectionOverlap <= 0 || c.Render.SelectionOverlap > 100 {
		errs = append(errs, fmt.Errorf("render.selection_overlap must be in (0, 100], got %v", c.Render.SelectionOverlap))
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if f := c.Logging.Format; f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("logging.format must be text or json, got %q", f))
	}
	return errors.Join(errs...)
}

// Logger builds a logger from the logging section
func (c Config) Logger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(c.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	if c.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// RenderOptions converts the render section
func (c Config) RenderOptions(logger logrus.FieldLogger) render.Options {
	opts := render.DefaultOptions()
	opts.Layout.Order = layout.ParseOrder(strings.ToLower(c.Render.Order))
	opts.Layout.LineOverlap = c.Render.LineOverlap
	opts.SelectionOverlap = c.Render.SelectionOverlap
	opts.SelectionReference = render.ParseReference(strings.ToLower(c.Render.SelectionReference))
	for _, r := range c.Render.ExcludeRoles {
		if r = strings.TrimSpace(r); r != "" {
			opts.ExcludeRoles = append(opts.ExcludeRoles, analysis.Role(r))
		}
	}
	opts.Workers = c.Render.Workers
	opts.Logger = logger
	opts.Layout.Logger = logger
	return opts
}

// BatchOptions converts the batch section
func (c Config) BatchOptions() gdocai.BatchOptions {
	return gdocai.BatchOptions{
		Concurrency: c.Batch.Concurrency,
		Every:       c.Batch.Every,
		Burst:       c.Batch.Burst,
	}
}

// HOCROptions converts the hocr section
func (c Config) HOCROptions() hocr.Options {
	opts := hocr.DefaultOptions()
	if c.HOCR.Language != "" {
		opts.Language = c.HOCR.Language
	}
	if c.HOCR.DPI > 0 {
		opts.DPI = c.HOCR.DPI
	}
	return opts
}

// PDFOptions converts the pdf section
func (c Config) PDFOptions(logger logrus.FieldLogger) pdfout.Config {
	cfg := pdfout.DefaultConfig()
	if c.PDF.LayerName != "" {
		cfg.LayerName = c.PDF.LayerName
	}
	cfg.Debug = c.PDF.Debug
	cfg.Force = c.PDF.Force
	cfg.Compress = c.PDF.Compress
	if c.PDF.FontSize > 0 {
		cfg.Font.Size = c.PDF.FontSize
	}
	cfg.Logger = logger
	return cfg
}

func envStr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

func envDur(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
