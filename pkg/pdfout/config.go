package pdfout

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Config holds options for writing PDFs
type Config struct {
	Debug     bool   // Draw the text layer visibly with word boxes
	Force     bool   // Apply a text layer even if the input already has one
	LayerName string // Base name of the text layer (page number will be appended)
	StartPage int    // First input page the hOCR pages map to
	Compress  bool   // Compress content streams
	Font      FontConfig
	Logger    logrus.FieldLogger // nil discards warnings
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		LayerName: "OCR Text", // Will be formatted as "OCR Text (Page X)" in the final PDF
		StartPage: 1,
		Compress:  true,
		Font:      DefaultFont,
	}
}

func (c Config) withDefaults() Config {
	if c.LayerName == "" {
		c.LayerName = "OCR Text"
	}
	if c.StartPage < 1 {
		c.StartPage = 1
	}
	if c.Font.Name == "" {
		c.Font = DefaultFont
	}
	if c.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.Logger = l
	}
	return c
}

// FontConfig contains font settings for text rendering
type FontConfig struct {
	Name        string  // Font name (e.g., "Helvetica")
	Style       string  // Font style ("", "B", "I", "BI")
	Size        float64 // Default font size
	AscentRatio float64 // Vertical positioning ratio
}

// DefaultFont is Helvetica, one of the core fonts every PDF reader provides
var DefaultFont = FontConfig{
	Name:        "Helvetica",
	Style:       "",
	Size:        10,
	AscentRatio: 0.718,
}
