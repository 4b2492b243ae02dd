package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/agent-research/internal/access"
	"github.com/sells-group/agent-research/internal/model"
	"github.com/sells-group/agent-research/internal/slides"
)

var (
	slidesIn     string
	slidesOut    string
	slidesTarget string
	slidesFocus  string
)

var slidesCmd = &cobra.Command{
	Use:   "slides",
	Short: "Render a slide deck from a saved research record",
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := readRecord(cmd.InOrStdin(), slidesIn)
		if err != nil {
			return err
		}

		target := slidesTarget
		if target == "" {
			target = access.Text(rec, "company_profile.official_name", "")
		}
		if target == "" {
			return eris.New("--target is required when the record has no official_name")
		}

		return writeDeckTo(cmd.OutOrStdout(), rec, model.Query{Target: target, Focus: slidesFocus}, slidesOut)
	},
}

// readRecord decodes a JSON record from path, or from stdin when path is "-".
func readRecord(stdin io.Reader, path string) (model.Record, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "open %s", path)
		}
		defer f.Close() //nolint:errcheck
		r = f
	}

	var rec model.Record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, eris.Wrap(err, "decode record")
	}
	if rec == nil {
		return nil, eris.New("record is empty")
	}
	return rec, nil
}

func writeDeckTo(stdout io.Writer, rec model.Record, q model.Query, out string) error {
	if out != "-" && out != "" {
		return writeDeck(rec, q, out)
	}
	deck, err := slides.Render(rec, q.Target, q.Focus)
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, deck.HTML)
	return eris.Wrap(err, "write slides")
}

func init() {
	slidesCmd.Flags().StringVar(&slidesIn, "in", "-", "record JSON file, - for stdin")
	slidesCmd.Flags().StringVar(&slidesOut, "out", "-", "deck output file, - for stdout")
	slidesCmd.Flags().StringVar(&slidesTarget, "target", "", "target name (default: the record's official_name)")
	slidesCmd.Flags().StringVar(&slidesFocus, "focus", "", "research angle shown on the slides")
	rootCmd.AddCommand(slidesCmd)
}
