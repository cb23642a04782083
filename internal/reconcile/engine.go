package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"

	"github.com/desertthunder/recon/internal/models"
	"github.com/desertthunder/recon/internal/repositories"
	"github.com/desertthunder/recon/internal/shared"
)

// Engine runs reconciliations against a SQLite database.
type Engine struct {
	db     *sqlx.DB
	logger *log.Logger
	now    func() time.Time
}

// Option configures an [Engine].
type Option func(*Engine)

// WithClock replaces the clock used for createdAt and updatedAt.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger merges and inserts are reported to.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an [Engine] over db, which must have migrations applied.
func NewEngine(db *sqlx.DB, opts ...Option) *Engine {
	e := &Engine{db: db, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = shared.NewLogger(nil)
	}
	e.logger = shared.WithLogger(e.logger, "component", "reconcile")
	return e
}

// Reconcile attaches identity to its cluster, creating or merging clusters as needed, and returns the
// resulting view.
//
// Returns [shared.ErrInvalidInput] without touching storage when neither identifier is usable.
// Storage failures are wrapped with [shared.ErrPersistence]; on any error nothing is committed.
func (e *Engine) Reconcile(ctx context.Context, identity models.Identity) (*models.ClusterView, error) {
	identity = identity.Compact()
	if identity.Empty() {
		return nil, fmt.Errorf("%w: email or phone number required", shared.ErrInvalidInput)
	}

	var view *models.ClusterView
	err := e.inTx(ctx, func(repo *repositories.ContactRepository) error {
		now := e.now().UTC()

		matches, err := match(ctx, repo, identity)
		if err != nil {
			return err
		}

		if len(matches) == 0 {
			created, err := e.createPrimary(ctx, repo, identity, now)
			if err != nil {
				return err
			}
			view, err = assemble([]models.Contact{*created})
			return err
		}

		primary, err := e.resolve(ctx, repo, matches, now)
		if err != nil {
			return err
		}

		members, err := repo.FindCluster(ctx, []int64{primary.ID})
		if err != nil {
			return err
		}

		if introducesNew(members, identity) {
			if _, err := e.createSecondary(ctx, repo, identity, primary.ID, now); err != nil {
				return err
			}
			if members, err = repo.FindCluster(ctx, []int64{primary.ID}); err != nil {
				return err
			}
		}

		view, err = assemble(members)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// inTx runs fn with a repository bound to a single transaction, committing only if fn succeeds.
func (e *Engine) inTx(ctx context.Context, fn func(repo *repositories.ContactRepository) error) error {
	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", shared.ErrPersistence, err)
	}
	defer tx.Rollback()

	if err := fn(repositories.NewContactRepository(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit transaction: %w", shared.ErrPersistence, err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	if err := e.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err)
	}
	return nil
}
