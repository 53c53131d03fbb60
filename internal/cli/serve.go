package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/hexit/internal/api"
	"github.com/jmylchreest/hexit/internal/config"
)

type serveOptions struct {
	addr   string
	policy string
}

func newServeCmd(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI and the colour endpoint",
		Long: `Start the HTTP server.

Routes:
  GET /           web UI
  GET /v2?url=    {"imageUrl": "...", "colors": ["#rrggbb", ...]}
  GET /healthz    liveness and build information

Examples:
  # Listen on the default address (:8080)
  hexit serve

  # Listen on another port and rank by dominance
  hexit serve --addr :9000 --policy dominance

  # Load settings from a file
  hexit serve --config hexit.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, global, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	addPolicyFlag(cmd.Flags(), &opts.policy)

	return cmd
}

func runServe(cmd *cobra.Command, global *globalOptions, opts *serveOptions) error {
	cfg, logger, err := global.setup(cmd, func(cfg *config.Config) {
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = opts.addr
		}
		applyPolicy(cmd.Flags(), opts.policy, cfg)
	})
	if err != nil {
		return err
	}

	svc, err := newColourService(cfg, logger)
	if err != nil {
		return err
	}

	handler := api.NewHandler(svc, logger.Named("api"))
	server := api.NewServer(api.ServerConfig{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, handler, logger.Named("server"))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}
