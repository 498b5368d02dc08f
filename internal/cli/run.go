package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Serve the host bridge and follow the session until interrupted",
		Long: `run keeps one session alive. The embedding shell pushes proof material and
lifecycle events to the loopback bridge; the session reacts to them, renews its
credential on schedule and prints notices as they happen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			srv, err := rt.app.BridgeServer(rt.cfg.Server())
			if err != nil {
				return err
			}
			if err := srv.Listen(); err != nil {
				return err
			}

			serveErr := make(chan error, 1)
			go func() {
				serveErr <- srv.Serve()
			}()
			defer func() {
				if err := srv.Shutdown(context.Background()); err != nil {
					rt.out.PrintError(fmt.Errorf("bridge shutdown: %w", err))
				}
			}()

			rt.out.PrintMessage(fmt.Sprintf("Host bridge listening on %s", srv.Addr()))

			if err := rt.login(ctx); err != nil {
				return err
			}
			rt.out.Print(rt.app.Session.Profile())

			runErr := make(chan error, 1)
			go func() {
				runErr <- rt.app.Session.Run(ctx)
			}()

			select {
			case err := <-serveErr:
				return err
			case err := <-runErr:
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			case <-ctx.Done():
				rt.out.PrintMessage("Shutting down")
				return nil
			}
		},
	}
}
