package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/mobboss/internal/cache"
)

func newAchievementsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "Achievement commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List achievements and their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.loaded(cmd.Context(), cache.CollectionAchievements); err != nil {
				return err
			}
			rt.out.Print(rt.app.Cache.Achievements())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "claim <achievement-id>",
		Short: "Claim the reward of an unlocked achievement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.loaded(ctx, cache.CollectionAchievements); err != nil {
				return err
			}
			out, err := rt.app.Cache.ClaimAchievement(ctx, args[0])
			if err != nil {
				return err
			}
			rt.out.Print(out)
			return nil
		},
	})

	return cmd
}

func newTasksCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Daily and weekly task commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List tasks and their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.loaded(cmd.Context(), cache.CollectionTasks); err != nil {
				return err
			}
			rt.out.Print(rt.app.Cache.Tasks())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "claim <task-id>",
		Short: "Claim the reward of an unlocked task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := rt.loaded(ctx, cache.CollectionTasks); err != nil {
				return err
			}
			out, err := rt.app.Cache.ClaimTask(ctx, args[0])
			if err != nil {
				return err
			}
			rt.out.Print(out)
			return nil
		},
	})

	return cmd
}
