package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/agent-research/internal/agent"
	"github.com/sells-group/agent-research/internal/model"
	"github.com/sells-group/agent-research/internal/research"
	"github.com/sells-group/agent-research/internal/slides"
)

var (
	researchTarget       string
	researchFocus        string
	researchRequirements string
	researchFormat       string
	researchSlides       string
	researchProvider     string
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Research one company or person and print the record",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("research"); err != nil {
			return err
		}
		q := model.Query{Target: researchTarget, Focus: researchFocus, Requirements: researchRequirements}
		if err := research.ValidateQuery(q); err != nil {
			return err
		}
		if researchFormat != "json" && researchFormat != "yaml" {
			return eris.Errorf("unknown format %q", researchFormat)
		}

		a, err := agent.New(cfg, researchProvider)
		if err != nil {
			return eris.Wrap(err, "init agent")
		}

		rec := research.New(a).Run(cmd.Context(), q)
		if rec.Status() == model.StatusFallback {
			zap.L().Warn("research returned a fallback record", zap.String("reason", rec.ErrorReason()))
		}

		if researchSlides != "" {
			if err := writeDeck(rec, q, researchSlides); err != nil {
				return err
			}
		}
		return writeRecord(cmd.OutOrStdout(), rec, researchFormat)
	},
}

// writeRecord prints rec as indented JSON or YAML.
func writeRecord(w io.Writer, rec model.Record, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any(rec)); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return eris.Wrap(enc.Close(), "encode yaml")
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return eris.Wrap(enc.Encode(rec), "encode json")
	}
	return eris.Errorf("unknown format %q", format)
}

func writeDeck(rec model.Record, q model.Query, path string) error {
	deck, err := slides.Render(rec, q.Target, q.Focus)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(deck.HTML), 0o644); err != nil {
		return eris.Wrapf(err, "write slides to %s", path)
	}
	zap.L().Info("slides written", zap.String("path", path), zap.Int("slides", deck.SlideCount))
	return nil
}

func init() {
	researchCmd.Flags().StringVar(&researchTarget, "target", "", "company or person to research")
	researchCmd.Flags().StringVar(&researchFocus, "focus", "", "research angle, e.g. AI活用")
	researchCmd.Flags().StringVar(&researchRequirements, "requirements", "", "additional requirements for the agent")
	researchCmd.Flags().StringVar(&researchFormat, "format", "json", "output format: json or yaml")
	researchCmd.Flags().StringVar(&researchSlides, "slides", "", "also write the slide deck to this file")
	researchCmd.Flags().StringVar(&researchProvider, "provider", "", "agent provider (default from config)")
	_ = researchCmd.MarkFlagRequired("target")
	_ = researchCmd.MarkFlagRequired("focus")
	rootCmd.AddCommand(researchCmd)
}
