package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/agent-research/internal/agent"
	"github.com/sells-group/agent-research/internal/config"
	"github.com/sells-group/agent-research/internal/model"
	"github.com/sells-group/agent-research/internal/research"
	"github.com/sells-group/agent-research/internal/slides"
	"github.com/sells-group/agent-research/internal/web"
)

const shutdownTimeout = 10 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the research web shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		a, err := agent.New(cfg, "")
		if err != nil {
			return eris.Wrap(err, "init agent")
		}

		srv := web.NewServer(
			model.NewSession(),
			research.New(a),
			slides.New(),
			func(ctx context.Context) agent.PingResult { return agent.PingProvider(ctx, cfg, "") },
			cfg.Server.AllowedOrigins,
		)

		httpSrv := &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      srv.Router(),
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
			WriteTimeout: writeTimeout(cfg),
		}
		return runServer(ctx, httpSrv)
	},
}

// renderSlack covers parsing and deck rendering after the agent answers.
const renderSlack = 30 * time.Second

// writeTimeout is the configured write timeout, raised when needed so that a
// POST /research whose agent call uses its full retry budget still gets its
// response written.
func writeTimeout(c *config.Config) time.Duration {
	configured := time.Duration(c.Server.WriteTimeoutSecs) * time.Second
	budget := agent.PolicyFrom(c.Agent).Budget()
	if budget == 0 || configured <= 0 {
		return 0
	}
	return max(configured, budget+renderSlack)
}

// runServer serves until ctx ends, then shuts down gracefully.
func runServer(ctx context.Context, srv *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.L().Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return eris.Wrap(srv.Shutdown(shutdownCtx), "server shutdown")
	})

	return g.Wait()
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
