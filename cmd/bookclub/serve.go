package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/readingroom/bookclub/internal/api"
	"github.com/readingroom/bookclub/internal/di/providers"
)

// shutdownGrace bounds how long in-flight requests may finish.
const shutdownGrace = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live preview that re-renders when the data changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := a.logger()

			preview := do.MustInvoke[*api.Preview](a.injector)
			if err := preview.Refresh(ctx); err != nil {
				return err
			}

			if _, err := do.Invoke[*providers.FileWatcherHandle](a.injector); err != nil {
				return err
			}

			srv, err := do.Invoke[*providers.HTTPServerHandle](a.injector)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("preview server starting", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down preview server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			return srv.Server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&a.flags.Listen, "listen", "", "address to listen on (default 127.0.0.1:8080)")
	return cmd
}
