package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"expensetracker/internal/cli"
	apphttp "expensetracker/internal/http"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API server",
		Long:  `Serve the expense tracker API until interrupted. Data routes require a login.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			srv := apphttp.NewServer(":"+appConfig.Port, apphttp.Deps{
				Tracker:  app.Tracker,
				Auth:     app.Auth,
				Theme:    app.Repos.Theme,
				Currency: appConfig.Currency(),
				Logger:   app.Logger,
			})
			ctx, done := cli.GracefulShutdown(cmd.Context(), app.Logger, shutdownTimeout, srv.Shutdown)

			errCh := make(chan error, 1)
			go func() {
				app.Logger.Info("Starting expense tracker server", "port", appConfig.Port, "backend", appConfig.DataBackend)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server: %w", err)
				}
			case <-ctx.Done():
			}
			<-done

			requests, security := srv.Metrics()
			app.Logger.Info("Server stopped gracefully",
				"requests", requests.TotalRequests,
				"server_errors", requests.ServerErrors,
				"suspicious_requests", security.SuspiciousRequests)
			return nil
		},
	}

	cmd.Flags().String("port", "", "listen port (default 8081)")
	_ = viper.BindPFlag("PORT", cmd.Flags().Lookup("port"))
	return cmd
}
