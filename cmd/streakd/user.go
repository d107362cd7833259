package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/streakd/streakd/pkg/streakd"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage your account",
}

var userRegisterCmd = &cobra.Command{
	Use:   "register <username> <email>",
	Short: "Register a new user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(false)
		if err != nil {
			return err
		}
		return runUserRegister(cmd.Context(), c, cmd.OutOrStdout(), args[0], args[1])
	},
}

var userMeCmd = &cobra.Command{
	Use:   "me",
	Short: "Show your level and XP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(true)
		if err != nil {
			return err
		}
		me, err := c.Me(cmd.Context())
		if err != nil {
			return err
		}
		printProgress(cmd.OutOrStdout(), me, jsonOutput)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show habit statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getClient(true)
		if err != nil {
			return err
		}
		return runStats(cmd.Context(), c, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(userCmd, statsCmd)
	userCmd.AddCommand(userRegisterCmd, userMeCmd)
}

func runUserRegister(ctx context.Context, c *streakd.Client, w io.Writer, username, email string) error {
	user, err := c.RegisterUser(ctx, username, email)
	if err != nil {
		return err
	}
	printUser(w, user, jsonOutput)
	return nil
}

func runStats(ctx context.Context, c *streakd.Client, w io.Writer) error {
	stats, err := c.Stats(ctx)
	if err != nil {
		return err
	}
	printStats(w, stats, jsonOutput)
	return nil
}
