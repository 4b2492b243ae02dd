package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/agent-research/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "agent-research",
	Short: "Company and industry research through a hosted AI agent",
	Long:  "Sends a company or person plus a research angle to an AI agent, normalizes the reply into a complete research record, and renders it as a report and a 4-slide HTML deck.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
