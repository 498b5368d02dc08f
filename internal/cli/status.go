package cli

import (
	"github.com/spf13/cobra"
)

func newStatusCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session and the player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// A failed login is still worth reporting
			loginErr := rt.login(cmd.Context())

			snap := rt.app.Session.Snapshot()
			report := StatusReport{
				State:         snap.State,
				Player:        snap.Profile,
				EstablishedAt: snap.EstablishedAt,
				ExpiresAt:     snap.ExpiresAt,
				Renewing:      rt.app.Session.RenewalRunning(),
				Ready:         rt.app.Cache.Ready(),
				Unclaimed:     rt.app.Cache.UnclaimedCount(),
			}
			if snap.Err != nil {
				report.Error = snap.Err.Error()
			}

			rt.out.Print(report)
			return loginErr
		},
	}
}

func newLogoutCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the remembered session and identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			rt.out.PrintMessage("Logged out")
			return nil
		},
	}
}
