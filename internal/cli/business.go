package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/mobboss/internal/cache"
)

func newBusinessCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "business",
		Aliases: []string{"businesses"},
		Short:   "Business commands",
	}

	cmd.AddCommand(newBusinessListCmd(rt))
	cmd.AddCommand(newBusinessBuyCmd(rt))
	cmd.AddCommand(newBusinessUpgradeCmd(rt))
	cmd.AddCommand(newBusinessCollectCmd(rt))
	cmd.AddCommand(newBusinessCollectAllCmd(rt))
	cmd.AddCommand(newBusinessIncomeCmd(rt))

	return cmd
}

func newBusinessListCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List owned businesses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.loaded(cmd.Context(), cache.CollectionDefinitions, cache.CollectionBusinesses); err != nil {
				return err
			}

			now := rt.app.Clock.Now()
			rows := []BusinessRow{}
			for _, b := range rt.app.Cache.ResolvedBusinesses() {
				rows = append(rows, BusinessRow{
					ID:          b.ID,
					Name:        nameOr(b.Business.Name, b.BusinessID),
					Level:       b.Level,
					MaxLevel:    b.Business.MaxLevel,
					Income:      rt.app.Cache.BusinessIncome(b),
					UpgradeCost: rt.app.Cache.UpgradeCost(b),
					ReadyAt:     b.ReadyAt(),
					Collectable: b.Collectable(now),
				})
			}

			rt.out.Print(rows)
			return nil
		},
	}
}

func newBusinessBuyCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <business-id>",
		Short: "Buy a business from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.loaded(ctx, cache.CollectionDefinitions); err != nil {
				return err
			}
			out, err := rt.app.Cache.BuyBusiness(ctx, args[0])
			if err != nil {
				return err
			}
			rt.out.Print(out)
			return nil
		},
	}
}

func newBusinessUpgradeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade <owned-id>",
		Short: "Raise a business one level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.loaded(ctx, cache.CollectionDefinitions, cache.CollectionBusinesses); err != nil {
				return err
			}
			out, err := rt.app.Cache.UpgradeBusiness(ctx, args[0])
			if err != nil {
				return err
			}
			rt.out.Print(out)
			return nil
		},
	}
}

func newBusinessCollectCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "collect <owned-id>",
		Short: "Collect the income of one business",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.loaded(ctx, cache.CollectionDefinitions, cache.CollectionBusinesses); err != nil {
				return err
			}
			out, err := rt.app.Cache.CollectBusiness(ctx, args[0])
			if err != nil {
				return err
			}
			rt.out.Print(out)
			return nil
		},
	}
}

func newBusinessCollectAllCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "collect-all",
		Short: "Collect every business that is ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.login(ctx); err != nil {
				return err
			}
			out, err := rt.app.Cache.CollectAllBusinesses(ctx)
			if err != nil {
				return err
			}
			rt.out.Print(out)
			return nil
		},
	}
}

func newBusinessIncomeCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "income",
		Short: "Show hourly income against crew upkeep",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.loaded(ctx, cache.CollectionDefinitions, cache.CollectionBusinesses, cache.CollectionCrew); err != nil {
				return err
			}

			report := IncomeReport{
				HourlyIncome: rt.app.Cache.HourlyIncome(),
				HourlyUpkeep: rt.app.Cache.HourlyUpkeep(),
				Collectable:  []string{},
			}
			report.Net = report.HourlyIncome - report.HourlyUpkeep
			for _, b := range rt.app.Cache.CollectableBusinesses(rt.app.Clock.Now()) {
				report.Collectable = append(report.Collectable, b.ID)
			}

			rt.out.Print(report)
			return nil
		},
	}
}
