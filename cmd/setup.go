package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotrec/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to --config.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)
	if err := r.writeOK("Config written to %s", path); err != nil {
		return err
	}
	return r.writeHint("Set client_id, client_secret and secret_key (or CLIENT_ID, CLIENT_SECRET, SECRET_KEY) before running 'spotrec serve'.")
}

// SetupDatabase initializes the session database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	applied, err := shared.RunMigrations(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	if config.Session.Backend != shared.BackendSQLite {
		if err := r.writeHint("Set session.backend = \"sqlite\" to store sessions in this database."); err != nil {
			return err
		}
	}
	return r.writeOK("Database ready at %s (%d migrations applied)", config.Database.Path, applied)
}
