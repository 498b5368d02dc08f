package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/mobboss/internal/cache"
	"github.com/mcoot/mobboss/internal/config"
	"github.com/mcoot/mobboss/internal/factory"
)

// runtime is what one invocation builds before its command runs
type runtime struct {
	flags  *Flags
	stdout io.Writer
	stderr io.Writer

	cfg config.Config
	out *Output
	app *factory.App
}

func newRuntime(stdout, stderr io.Writer) *runtime {
	return &runtime{
		flags:  DefaultFlags(),
		stdout: stdout,
		stderr: stderr,
		out:    NewOutput(FormatText, stdout, stderr),
	}
}

// setup reads the config and wires the application
func (rt *runtime) setup() error {
	if err := rt.flags.Validate(); err != nil {
		return err
	}
	rt.out = NewOutput(rt.flags.Output, rt.stdout, rt.stderr)

	cfg, err := config.Parse()
	if err != nil {
		return err
	}
	rt.flags.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	rt.cfg = cfg

	app, err := factory.New(cfg, factory.Options{
		Logger:   cfg.NewLogger(rt.stderr),
		Notifier: NewNoticePrinter(rt.out),
	})
	if err != nil {
		return err
	}
	rt.app = app
	return nil
}

func (rt *runtime) close() {
	if rt.app == nil {
		return
	}
	if err := rt.app.Close(); err != nil {
		rt.out.PrintError(err)
	}
	rt.app = nil
}

// login bootstraps the session. A new session is reconciled before this returns,
// so its notices are printed ahead of the command's own output.
func (rt *runtime) login(ctx context.Context) error {
	return rt.app.Session.Bootstrap(ctx)
}

// loaded logs in and makes sure cols are mirrored even if reconciliation could not
// load everything
func (rt *runtime) loaded(ctx context.Context, cols ...cache.Collection) error {
	if err := rt.login(ctx); err != nil {
		return err
	}
	if rt.app.Cache.Ready() {
		return nil
	}
	for _, col := range cols {
		if err := rt.app.Cache.Load(ctx, col); err != nil {
			return err
		}
	}
	return nil
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(newRuntime(os.Stdout, os.Stderr))
}

func newRootCmd(rt *runtime) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mobboss",
		Short: "Client for the mobboss game backend",
		Long: `mobboss drives a player's session against the mobboss backend.

It exchanges the identity host's proof material for a session, settles the
upkeep that accrued while away, mirrors the player's state and sends actions.
Use "run" to stay connected and serve the host bridge.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.setup()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&rt.flags.RPCURL, "rpc-url", "", "Backend URL (env: MOBBOSS_RPC_URL)")
	rootCmd.PersistentFlags().StringVar(&rt.flags.APIKey, "api-key", "", "Project API key (env: MOBBOSS_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&rt.flags.InitData, "init-data", "", "Host proof material (env: MOBBOSS_INIT_DATA)")
	rootCmd.PersistentFlags().StringVar(&rt.flags.Storage, "storage", "", "Storage backend: memory, redis (env: MOBBOSS_STORAGE)")
	rootCmd.PersistentFlags().StringVar(&rt.flags.RedisURL, "redis-url", "", "Redis URL (env: MOBBOSS_REDIS_URL)")
	rootCmd.PersistentFlags().StringVarP(&rt.flags.Output, "output", "o", rt.flags.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&rt.flags.Verbose, "verbose", "v", false, "Verbose logging")

	// Add subcommands
	rootCmd.AddCommand(newRunCmd(rt))
	rootCmd.AddCommand(newStatusCmd(rt))
	rootCmd.AddCommand(newLogoutCmd(rt))
	rootCmd.AddCommand(newInventoryCmd(rt))
	rootCmd.AddCommand(newCrewCmd(rt))
	rootCmd.AddCommand(newBusinessCmd(rt))
	rootCmd.AddCommand(newAchievementsCmd(rt))
	rootCmd.AddCommand(newTasksCmd(rt))
	rootCmd.AddCommand(newBankCmd(rt))
	rootCmd.AddCommand(newDailyCmd(rt))
	rootCmd.AddCommand(newJobCmd(rt))

	return rootCmd
}

// Run executes one invocation with args and releases what it opened
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rt := newRuntime(stdout, stderr)
	defer rt.close()

	cmd := newRootCmd(rt)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		rt.out.PrintError(err)
		return err
	}
	return nil
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}
