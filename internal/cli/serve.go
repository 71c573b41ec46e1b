package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/savedobjects/internal/api"
)

func (a *app) newServeCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the saved objects API over HTTP",
		Long:  "Serve exposes the client under /api/saved_objects until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = a.settings.Listen
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return a.withSession(func(s *session) error {
				srv := api.New(api.Config{Listen: listen}, s.client, a.logger)
				err := srv.Start(ctx)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				if err != nil {
					return sysErrorf("%w", err)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default: config listen)")
	return cmd
}
