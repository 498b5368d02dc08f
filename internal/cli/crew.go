package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/mobboss/internal/cache"
)

func newCrewCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crew",
		Short: "Crew commands",
	}

	cmd.AddCommand(newCrewListCmd(rt))
	cmd.AddCommand(newCrewHireCmd(rt))
	cmd.AddCommand(newCrewFireCmd(rt))
	cmd.AddCommand(newCrewPowerCmd(rt))

	return cmd
}

func newCrewListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List hired crew",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.loaded(cmd.Context(), cache.CollectionCrew); err != nil {
				return err
			}
			rt.out.Print(rt.app.Cache.Crew())
			return nil
		},
	}
}

func newCrewHireCmd(rt *runtime) *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "hire <crew-id>",
		Short: "Hire crew of one type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.loaded(ctx, cache.CollectionDefinitions); err != nil {
				return err
			}
			out, err := rt.app.Cache.HireCrew(ctx, args[0], quantity)
			if err != nil {
				return err
			}
			rt.out.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "How many to hire")

	return cmd
}

func newCrewFireCmd(rt *runtime) *cobra.Command {
	var quantity int

	cmd := &cobra.Command{
		Use:   "fire <hired-id>",
		Short: "Let crew go; their gear returns to the inventory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.loaded(ctx, cache.CollectionCrew); err != nil {
				return err
			}
			out, err := rt.app.Cache.FireCrew(ctx, args[0], quantity)
			if err != nil {
				return err
			}
			rt.out.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&quantity, "quantity", "q", 1, "How many to fire")

	return cmd
}

func newCrewPowerCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "power",
		Short: "Show crew attack and defense including gear",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.loaded(cmd.Context(), cache.CollectionCrew, cache.CollectionInventory); err != nil {
				return err
			}
			rt.out.Print(rt.app.Cache.CrewPower())
			return nil
		},
	}
}
