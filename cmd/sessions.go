package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotrec/internal/session"
	"github.com/desertthunder/spotrec/internal/shared"
	"github.com/urfave/cli/v3"
)

// SessionsPrune deletes expired sessions from the sqlite store.
//
// Memory sessions die with the process and redis expires keys itself, so only sqlite needs pruning.
func (r *Runner) SessionsPrune(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	if config.Session.Backend != shared.BackendSQLite {
		return r.writePlain("%s\n", styles.warn.Render(fmt.Sprintf("Nothing to prune for the %q session backend.", config.Session.Backend)))
	}

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := shared.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	n, err := session.NewSQLiteStore(db).Prune(ctx)
	if err != nil {
		return fmt.Errorf("failed to prune sessions: %w", err)
	}

	r.logger.Info("pruned sessions", "count", n)
	return r.writeOK("Pruned %d expired sessions", n)
}
