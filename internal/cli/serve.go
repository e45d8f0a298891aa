package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"wagesheet/internal/app/server"
	"wagesheet/internal/platform/config"
	"wagesheet/internal/platform/logging"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the wage sheet web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(".env")
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if root.policyFile != "" {
				cfg.PolicyFile = root.policyFile
			}
			if err := logging.Configure(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := server.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides APP_ADDR)")
	return cmd
}
