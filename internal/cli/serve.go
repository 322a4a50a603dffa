package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/quiver/internal/server"
	"github.com/matzehuels/quiver/pkg/cache"
	"github.com/matzehuels/quiver/pkg/observability"
)

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.config()
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config or QUIVER_HTTP_ADDR)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	cfg := c.config()
	logger := loggerFromContext(ctx)

	prom := observability.NewPromHooks(prometheus.DefaultRegisterer)
	observability.SetRenderHooks(prom)
	observability.SetCacheHooks(prom)
	observability.SetServerHooks(prom)

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	defaults, err := cfg.RenderOptions()
	if err != nil {
		return err
	}

	opts := []server.Option{server.WithDefaults(defaults)}
	if rc, ok := runner.Cache.(*cache.RedisCache); ok {
		opts = append(opts, server.WithReadiness(rc.Ping))
	}
	srv := server.New(cfg.Server, runner, logger, opts...)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	printSuccess("Server stopped")
	return nil
}
