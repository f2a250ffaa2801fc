package command

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"authgate/internal/httpserver"
)

func serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the login, logout, status and protected endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			cfg, err := configFrom(cmd.Context())
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			logger := slog.Default()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			if err := a.seed(ctx, cfg.UsersPath, logger); err != nil {
				return err
			}

			handler := httpserver.NewRouter(logger, a.svc, httpserver.RouterConfig{
				CookieSecure:   cfg.CookieSecure,
				StaticDir:      cfg.StaticDir,
				AllowedOrigins: cfg.AllowedOrigins,
			})
			srv := httpserver.New(cfg.HTTPAddr, handler, logger)
			if cfg.TLS() {
				srv.WithTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			}
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "address to listen on (overrides configuration)")
	return cmd
}
