package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/streakd/streakd/internal/api"
	"github.com/streakd/streakd/internal/config"
	"github.com/streakd/streakd/internal/logger"
	"github.com/streakd/streakd/internal/server"
	"github.com/streakd/streakd/internal/service"
	"github.com/streakd/streakd/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the streakd server",
	Long:  `Run the HTTP API in the foreground until interrupted. SIGINT and SIGTERM trigger a graceful shutdown.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		bind, _ := cmd.Flags().GetString("bind")
		return runServe(bind)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Apply pending schema migrations to the configured database and exit.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)

	serveCmd.Flags().String("bind", "", "Address to bind the server to (overrides server.bind)")
}

// openStore opens and migrates the configured database.
func openStore(c *config.Config) (*storage.SQLStore, error) {
	store, err := storage.Open(c.Database.Driver, c.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", c.Database.Driver, err)
	}
	return store, nil
}

// buildRouter wires the services onto store according to c.
func buildRouter(c *config.Config, store *storage.SQLStore) (http.Handler, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	threshold, err := c.Threshold()
	if err != nil {
		return nil, err
	}

	return api.NewRouter(api.Services{
		Users:  service.NewUserService(store, c.Users.ArchiveCompletionsOnDelete),
		Habits: service.NewHabitService(store),
		Completions: service.NewCompletionService(store,
			service.WithLocation(loc),
			service.WithAward(c.Engine.XPPerCompletion),
			service.WithThreshold(threshold),
		),
		Stats: service.NewStatsService(store),
		DB:    store,
	}), nil
}

func runServe(bind string) error {
	if bind != "" {
		cfg.Server.Bind = bind
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	router, err := buildRouter(cfg, store)
	if err != nil {
		store.Close()
		return err
	}

	logger.Info("starting streakd",
		"bind", cfg.Server.Bind,
		"driver", store.Driver(),
		"timezone", cfg.Engine.Timezone,
		"level_curve", cfg.Engine.LevelCurve,
	)

	srv := server.New(cfg.Server.Bind, router, store)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		store.Close()
		return err
	}
	return nil
}
