package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/streakd/streakd/pkg/streakd"
)

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Manage habits",
}

var habitAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(true)
		if err != nil {
			return err
		}

		var opts []streakd.CreateHabitOption
		if cmd.Flags().Changed("description") {
			desc, _ := cmd.Flags().GetString("description")
			opts = append(opts, streakd.WithDescription(desc))
		}
		if cmd.Flags().Changed("reminder") {
			reminder, _ := cmd.Flags().GetString("reminder")
			opts = append(opts, streakd.WithReminderTime(reminder))
		}
		if cmd.Flags().Changed("cadence") {
			cadence, _ := cmd.Flags().GetString("cadence")
			opts = append(opts, streakd.WithCadence(streakd.Cadence(cadence)))
		}

		return runHabitAdd(cmd.Context(), c, cmd.OutOrStdout(), args[0], opts...)
	},
}

var habitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your habits",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(true)
		if err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")
		return runHabitList(cmd.Context(), c, cmd.OutOrStdout(), page, perPage)
	},
}

var habitDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a habit done for the current period",
	Long: `Record a completion. Each habit can be completed once per period;
completing it on consecutive periods extends its streak and every completion
earns experience points.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(true)
		if err != nil {
			return err
		}

		var opts []streakd.CompleteOption
		if cmd.Flags().Changed("reflection") {
			reflection, _ := cmd.Flags().GetString("reflection")
			opts = append(opts, streakd.WithReflection(reflection))
		}
		return runHabitDone(cmd.Context(), c, cmd.OutOrStdout(), args[0], opts...)
	},
}

var habitShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(true)
		if err != nil {
			return err
		}
		habit, err := c.GetHabit(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printHabit(cmd.OutOrStdout(), habit, jsonOutput)
		return nil
	},
}

var habitDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a habit and its completions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(true)
		if err != nil {
			return err
		}
		if err := c.DeleteHabit(cmd.Context(), args[0]); err != nil {
			return err
		}
		printSuccess(cmd.OutOrStdout(), "Deleted habit "+args[0], jsonOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(habitCmd)
	habitCmd.AddCommand(habitAddCmd, habitListCmd, habitDoneCmd, habitShowCmd, habitDeleteCmd)

	habitAddCmd.Flags().StringP("description", "d", "", "Habit description")
	habitAddCmd.Flags().String("reminder", "", "Reminder time as HH:MM")
	habitAddCmd.Flags().String("cadence", "daily", "Habit cadence")

	habitListCmd.Flags().Int("page", 1, "Page number")
	habitListCmd.Flags().Int("per-page", 50, "Habits per page")

	habitDoneCmd.Flags().StringP("reflection", "r", "", "Note to attach to the completion")
}

func runHabitAdd(ctx context.Context, c *streakd.Client, w io.Writer, name string, opts ...streakd.CreateHabitOption) error {
	habit, err := c.CreateHabit(ctx, name, opts...)
	if err != nil {
		return err
	}
	printHabit(w, habit, jsonOutput)
	return nil
}

func runHabitList(ctx context.Context, c *streakd.Client, w io.Writer, page, perPage int) error {
	list, err := c.ListHabits(ctx, streakd.WithPage(page), streakd.WithPerPage(perPage))
	if err != nil {
		return err
	}
	printHabitList(w, list, jsonOutput)
	return nil
}

func runHabitDone(ctx context.Context, c *streakd.Client, w io.Writer, id string, opts ...streakd.CompleteOption) error {
	result, err := c.CompleteHabit(ctx, id, opts...)
	if err != nil {
		return err
	}
	printCompletionResult(w, result, jsonOutput)
	return nil
}
