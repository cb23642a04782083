package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/recon/internal/reconcile"
	"github.com/desertthunder/recon/internal/services"
	"github.com/desertthunder/recon/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	db         *sqlx.DB
	ownsDB     bool
	engine     *reconcile.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	DB         *sqlx.DB // Already-migrated database; opened from config when nil
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		db:         opts.DB,
	}
}

func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "recon",
		Usage:   "Reconcile contact identities into clusters",
		Version: "0.1.0",
		Writer:  r.output,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level (debug, info, warn, error)",
			},
		},
		Before:   r.before,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, identifyCommand, clusterCommand, importCommand, statusCommand, browseCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before loads the configuration file, when present, and applies the log level.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	}

	level := r.config.Log.Level
	if override := cmd.String("log-level"); override != "" {
		level = override
	}
	ll, err := shared.ParseLogLevel(level)
	if err != nil {
		return ctx, err
	}
	shared.SetLogLevel(r.logger, ll)

	return ctx, nil
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// openEngine returns the local reconciliation engine, opening and migrating the configured database on first use.
func (r *Runner) openEngine(ctx context.Context) (*reconcile.Engine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	db, err := r.database()
	if err != nil {
		return nil, err
	}
	if r.ownsDB {
		if err := shared.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	r.engine = reconcile.NewEngine(r.db, reconcile.WithLogger(r.logger))
	return r.engine, nil
}

// reconciler returns a client for the server at remote, or the local engine when remote is empty.
func (r *Runner) reconciler(ctx context.Context, remote string) (services.Reconciler, error) {
	if remote != "" {
		return services.NewAPIService(remote, r.httpClient), nil
	}

	engine, err := r.openEngine(ctx)
	if err != nil {
		return nil, err
	}
	return engine, nil
}

// Close releases the database if the runner opened it.
func (r *Runner) Close() error {
	if r.db == nil || !r.ownsDB {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.engine = nil
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
