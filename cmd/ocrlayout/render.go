package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gardar/ocrlayout/pkg/analysis"
	"github.com/gardar/ocrlayout/pkg/gdocai"
	"github.com/gardar/ocrlayout/pkg/render"
)

// Input formats accepted by the render command
const (
	formatAuto       = "auto"
	formatAnalysis   = "analysis"
	formatDocumentAI = "documentai"
)

func newRenderCmd(a *app) *cobra.Command {
	var out outputs
	var format string

	cmd := &cobra.Command{
		Use:   "render <result.json>",
		Short: "Render a saved layout analysis or Document AI result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !out.any() {
				return errors.New("at least one output flag must be provided (--html, --hocr, --text, --pdf or --json)")
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			res, err := loadResult(data, format)
			if err != nil {
				return err
			}

			doc := render.Render(res, a.cfg.RenderOptions(a.log))
			a.log.WithFields(logrus.Fields{
				"input":  args[0],
				"status": doc.Status,
				"pages":  len(doc.Pages),
			}).Info("Document rendered")
			return out.write(a, doc)
		},
	}

	out.register(cmd)
	cmd.Flags().StringVar(&format, "format", formatAuto, "Input format (auto, analysis or documentai)")
	return cmd
}

// loadResult decodes input as a layout analysis result or a Document AI
// response. In auto mode a top level "status" or "analyzeResult" key
// selects the analysis format.
func loadResult(data []byte, format string) (*analysis.Result, error) {
	if format == formatAuto {
		format = detectFormat(data)
	}

	switch format {
	case formatAnalysis:
		return analysis.Parse(data)
	case formatDocumentAI:
		doc, err := gdocai.LoadJSON(data)
		if err != nil {
			return nil, err
		}
		return gdocai.ResultFromProto(doc), nil
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}

func detectFormat(data []byte) string {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return formatAnalysis
	}
	if _, ok := probe["analyzeResult"]; ok {
		return formatAnalysis
	}
	if _, ok := probe["status"]; ok {
		return formatAnalysis
	}
	return formatDocumentAI
}
