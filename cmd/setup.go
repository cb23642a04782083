package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/recon/internal/shared"
)

// SetupDatabase creates the config file when missing, initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if r.configPath != "" {
		if _, err := os.Stat(r.configPath); err != nil {
			r.logger.Info("config file not found, creating from template", "path", r.configPath)
			if err := shared.CreateConfigFile(r.configPath); err != nil {
				r.logger.Warn("failed to create config file, using defaults", "error", err)
			} else if config, err := shared.LoadConfig(r.configPath); err == nil {
				r.config = config
				r.logger.Info("config file created", "path", r.configPath)
			}
		}
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := r.database()
	if err != nil {
		return err
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return r.writePlain("✓ Database ready at %s\n", r.config.Database.Path)
}

// SetupRollback rolls back the most recently applied migration.
func (r *Runner) SetupRollback(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	if err := shared.RollbackMigration(ctx, db); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return r.writePlain("✓ Rolled back one migration\n")
}

// SetupStatus lists every migration and whether it has been applied.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return err
	}

	statuses, err := shared.Migrations(ctx, db)
	if err != nil {
		return err
	}

	r.writePlainHeader("Migrations: " + r.config.Database.Path)
	for _, s := range statuses {
		state := "pending"
		if s.Applied && s.AppliedAt != nil {
			state = "applied " + s.AppliedAt.Local().Format(time.DateTime)
		}
		r.writePlain("%04d %-30s %s\n", s.Version, s.Name, state)
	}
	return nil
}

// database returns the runner's database without running migrations.
func (r *Runner) database() (*sqlx.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	r.db = db
	r.ownsDB = true
	return db, nil
}
