package main

import (
	"fmt"
	"io"

	"github.com/streakd/streakd/internal/logger"
)

func runMigrate(w io.Writer) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	version, err := store.SchemaVersion()
	if err != nil {
		return err
	}
	logger.Debug("migrations applied", "driver", store.Driver(), "version", version)

	if jsonOutput {
		printJSON(w, map[string]interface{}{
			"driver":  store.Driver(),
			"version": version,
		})
		return nil
	}

	fmt.Fprintf(w, "Database (%s) at schema version %d\n", store.Driver(), version)
	return nil
}
