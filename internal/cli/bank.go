package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/mobboss/internal/cache"
	"github.com/mcoot/mobboss/internal/rpc"
)

func newBankCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Move cash in and out of the bank",
	}

	cmd.AddCommand(newBankMoveCmd(rt, "deposit", "Deposit cash into the bank", rt.deposit))
	cmd.AddCommand(newBankMoveCmd(rt, "withdraw", "Withdraw banked cash", rt.withdraw))

	return cmd
}

func (rt *runtime) deposit(ctx context.Context, amount int64) (*rpc.Outcome, error) {
	return rt.app.Cache.BankDeposit(ctx, amount)
}

func (rt *runtime) withdraw(ctx context.Context, amount int64) (*rpc.Outcome, error) {
	return rt.app.Cache.BankWithdraw(ctx, amount)
}

func newBankMoveCmd(rt *runtime, use, short string, move func(context.Context, int64) (*rpc.Outcome, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <amount>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[0])
			}

			ctx := cmd.Context()
			if err := rt.login(ctx); err != nil {
				return err
			}
			out, err := move(ctx, amount)
			if err != nil {
				return err
			}
			rt.out.Print(out)
			return nil
		},
	}
}

func newDailyCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "daily",
		Short: "Claim today's login reward",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.login(ctx); err != nil {
				return err
			}
			out, err := rt.app.Cache.ClaimDailyReward(ctx)
			if err != nil {
				return err
			}
			rt.out.Print(out)
			return nil
		},
	}
}

func newJobCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "job <job-id>",
		Short: "Run a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.loaded(ctx, cache.CollectionDefinitions); err != nil {
				return err
			}
			out, err := rt.app.Cache.DoJob(ctx, args[0])
			if err != nil {
				return err
			}
			rt.out.Print(out)
			return nil
		},
	}
}
