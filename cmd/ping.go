package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/agent-research/internal/agent"
	"github.com/sells-group/agent-research/internal/config"
)

var (
	pingAllProviders bool
	pingProvider     string
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity to the configured agent provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		providers := []string{pingProvider}
		if pingProvider == "" {
			providers = []string{cfg.Agent.Provider}
		}
		if pingAllProviders {
			providers = configuredProviders(cfg)
			if len(providers) == 0 {
				return eris.New("no provider is configured")
			}
		}

		results := pingAll(cmd.Context(), providers, func(ctx context.Context, p string) agent.PingResult {
			return agent.PingProvider(ctx, cfg, p)
		})
		if err := printPingResults(cmd.OutOrStdout(), results); err != nil {
			return err
		}
		for _, r := range results {
			if !r.OK {
				return eris.Errorf("%s: connectivity test failed at stage %s", r.Provider, r.Stage)
			}
		}
		return nil
	},
}

func configuredProviders(c *config.Config) []string {
	var out []string
	for _, p := range config.Providers {
		if c.Configured(p) {
			out = append(out, p)
		}
	}
	return out
}

// pingAll pings every provider concurrently. Results keep the input order.
func pingAll(ctx context.Context, providers []string, ping func(context.Context, string) agent.PingResult) []agent.PingResult {
	results := make([]agent.PingResult, len(providers))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range providers {
		g.Go(func() error {
			results[i] = ping(gctx, p)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func printPingResults(w io.Writer, results []agent.PingResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tOK\tSTAGE\tDETAIL") //nolint:errcheck
	for _, r := range results {
		detail := r.Detail
		if r.OK {
			detail = r.Reply
		}
		fmt.Fprintf(tw, "%s\t%t\t%s\t%s\n", r.Provider, r.OK, r.Stage, detail) //nolint:errcheck
	}
	return eris.Wrap(tw.Flush(), "print results")
}

func init() {
	pingCmd.Flags().BoolVar(&pingAllProviders, "all", false, "ping every configured provider")
	pingCmd.Flags().StringVar(&pingProvider, "provider", "", "provider to ping (default from config)")
	rootCmd.AddCommand(pingCmd)
}
