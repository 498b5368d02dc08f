package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/mobboss/internal/cache"
)

func newInventoryCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inventory and safe commands",
	}

	cmd.AddCommand(newInventoryListCmd(rt))
	cmd.AddCommand(newInventoryLimitsCmd(rt))
	cmd.AddCommand(newInventoryBuyCmd(rt))
	cmd.AddCommand(newInventorySellCmd(rt))
	cmd.AddCommand(newInventoryAssignCmd(rt))
	cmd.AddCommand(newInventorySafeCmd(rt))
	cmd.AddCommand(newInventoryReleaseCmd(rt))

	return cmd
}

func newInventoryListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List owned items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.loaded(cmd.Context(), cache.CollectionDefinitions, cache.CollectionInventory); err != nil {
				return err
			}
			rt.out.Print(rt.app.Cache.Inventory())
			return nil
		},
	}
}

func newInventoryLimitsCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "limits",
		Short: "Show how much gear the crew can carry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.loaded(cmd.Context(), cache.CollectionInventory, cache.CollectionCrew); err != nil {
				return err
			}

			limits := rt.app.Cache.Limits()
			report := LimitsReport{
				Weapon:        limits.Weapon,
				Equipment:     limits.Equipment,
				MaxAssignable: make(map[string]int),
			}
			for _, it := range rt.app.Cache.Inventory() {
				if !it.Category().Assignable() || it.InSafe() {
					continue
				}
				n, err := rt.app.Cache.MaxAssignable(it.ID)
				if err != nil {
					return err
				}
				report.MaxAssignable[it.ID] = n
			}

			rt.out.Print(report)
			return nil
		},
	}
}

func newInventoryBuyCmd(rt *runtime) *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "buy <item-id>",
		Short: "Buy an item from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.loaded(ctx, cache.CollectionDefinitions); err != nil {
				return err
			}
			out, err := rt.app.Cache.BuyItem(ctx, args[0], quantity)
			if err != nil {
				return err
			}
			rt.out.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "How many to buy")

	return cmd
}

func newInventorySellCmd(rt *runtime) *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "sell <inventory-id>",
		Short: "Sell unassigned units of a stack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.loaded(ctx, cache.CollectionInventory); err != nil {
				return err
			}
			out, err := rt.app.Cache.SellItem(ctx, args[0], quantity)
			if err != nil {
				return err
			}
			rt.out.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "How many to sell")

	return cmd
}

func newInventoryAssignCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <inventory-id> <quantity>",
		Short: "Set how many units of a stack arm the crew",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}

			ctx := cmd.Context()
			if err := rt.loaded(ctx, cache.CollectionInventory, cache.CollectionCrew); err != nil {
				return err
			}
			out, err := rt.app.Cache.AssignItem(ctx, args[0], quantity)
			if err != nil {
				return err
			}
			rt.out.Print(out)
			return nil
		},
	}
}

func newInventorySafeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "safe <inventory-id>",
		Short: "Lock a stack in the safe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.loaded(ctx, cache.CollectionInventory); err != nil {
				return err
			}
			out, err := rt.app.Cache.MoveToSafe(ctx, args[0])
			if err != nil {
				return err
			}
			rt.out.Print(out)
			return nil
		},
	}
}

func newInventoryReleaseCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "release <inventory-id>",
		Short: "Take a stack out of the safe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.loaded(ctx, cache.CollectionInventory); err != nil {
				return err
			}
			out, err := rt.app.Cache.ReleaseFromSafe(ctx, args[0])
			if err != nil {
				return err
			}
			rt.out.Print(out)
			return nil
		},
	}
}
