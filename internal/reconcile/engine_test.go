package reconcile

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/desertthunder/recon/internal/models"
	"github.com/desertthunder/recon/internal/shared"
)

// stepClock advances one second on every call so creation order is deterministic.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func newTestEngine(t *testing.T, db *sqlx.DB) *Engine {
	t.Helper()
	clock := &stepClock{t: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)}
	return NewEngine(db, WithClock(clock.Now), WithLogger(shared.NewLogger(io.Discard)))
}

func countRows(t *testing.T, db *sqlx.DB) int {
	t.Helper()
	var n int
	if err := db.Get(&n, "SELECT COUNT(*) FROM contacts"); err != nil {
		t.Fatalf("failed to count contacts: %v", err)
	}
	return n
}

func mustReconcile(t *testing.T, e *Engine, email, phone string) *models.ClusterView {
	t.Helper()
	view, err := e.Reconcile(context.Background(), models.NewIdentity(email, phone))
	if err != nil {
		t.Fatalf("Reconcile(%q, %q) failed: %v", email, phone, err)
	}
	return view
}

func assertView(t *testing.T, got *models.ClusterView, want models.ClusterView) {
	t.Helper()
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("unexpected view\n got: %+v\nwant: %+v", *got, want)
	}
}

func TestReconcile(t *testing.T) {
	t.Run("No Match Creates Primary", func(t *testing.T) {
		db := setupTestDB(t)
		e := newTestEngine(t, db)

		view := mustReconcile(t, e, "a@x.com", "111")
		assertView(t, view, models.ClusterView{
			PrimaryContactID:    1,
			Emails:              []string{"a@x.com"},
			PhoneNumbers:        []string{"111"},
			SecondaryContactIDs: []int64{},
		})

		if n := countRows(t, db); n != 1 {
			t.Errorf("expected 1 row, got %d", n)
		}
	})

	t.Run("Partial Match Creates Secondary", func(t *testing.T) {
		db := setupTestDB(t)
		e := newTestEngine(t, db)

		mustReconcile(t, e, "a@x.com", "111")
		view := mustReconcile(t, e, "a@x.com", "222")

		assertView(t, view, models.ClusterView{
			PrimaryContactID:    1,
			Emails:              []string{"a@x.com"},
			PhoneNumbers:        []string{"111", "222"},
			SecondaryContactIDs: []int64{2},
		})
	})

	t.Run("Fully Known Creates Nothing", func(t *testing.T) {
		db := setupTestDB(t)
		e := newTestEngine(t, db)

		mustReconcile(t, e, "a@x.com", "111")
		first := mustReconcile(t, e, "a@x.com", "222")
		before := countRows(t, db)

		second := mustReconcile(t, e, "a@x.com", "222")
		third := mustReconcile(t, e, "a@x.com", "111")

		if n := countRows(t, db); n != before {
			t.Errorf("expected %d rows, got %d", before, n)
		}
		assertView(t, second, *first)
		assertView(t, third, *first)
	})

	t.Run("Single Identifier Known", func(t *testing.T) {
		db := setupTestDB(t)
		e := newTestEngine(t, db)

		mustReconcile(t, e, "a@x.com", "111")
		view := mustReconcile(t, e, "", "111")

		if n := countRows(t, db); n != 1 {
			t.Errorf("phone-only lookup of known phone should not insert, got %d rows", n)
		}
		if view.PrimaryContactID != 1 || len(view.SecondaryContactIDs) != 0 {
			t.Errorf("unexpected view %+v", view)
		}
	})

	t.Run("Secondary Carries Both Values", func(t *testing.T) {
		db := setupTestDB(t)
		e := newTestEngine(t, db)

		mustReconcile(t, e, "a@x.com", "111")
		mustReconcile(t, e, "b@x.com", "111")

		var c models.Contact
		if err := db.Get(&c, "SELECT * FROM contacts WHERE id = 2"); err != nil {
			t.Fatalf("failed to load secondary: %v", err)
		}
		if !c.Email.Is("b@x.com") || !c.PhoneNumber.Is("111") {
			t.Errorf("secondary should store both supplied values, got %v / %v", c.Email, c.PhoneNumber)
		}
		if c.LinkPrecedence != models.Secondary || c.LinkedID.Int64 != 1 {
			t.Errorf("secondary should link to primary 1, got %+v", c)
		}
	})

	t.Run("Match Through Secondary", func(t *testing.T) {
		db := setupTestDB(t)
		e := newTestEngine(t, db)

		mustReconcile(t, e, "a@x.com", "111")
		mustReconcile(t, e, "b@x.com", "111")
		view := mustReconcile(t, e, "b@x.com", "333")

		assertView(t, view, models.ClusterView{
			PrimaryContactID:    1,
			Emails:              []string{"a@x.com", "b@x.com"},
			PhoneNumbers:        []string{"111", "333"},
			SecondaryContactIDs: []int64{2, 3},
		})
	})

	t.Run("Merge Picks Oldest As Primary", func(t *testing.T) {
		db := setupTestDB(t)
		e := newTestEngine(t, db)

		p1 := mustReconcile(t, e, "a@x.com", "111")
		p2 := mustReconcile(t, e, "b@x.com", "222")
		child := mustReconcile(t, e, "c@x.com", "222")
		if child.PrimaryContactID != p2.PrimaryContactID {
			t.Fatalf("setup: child should join p2's cluster")
		}
		before := countRows(t, db)

		view := mustReconcile(t, e, "a@x.com", "222")

		assertView(t, view, models.ClusterView{
			PrimaryContactID:    p1.PrimaryContactID,
			Emails:              []string{"a@x.com", "b@x.com", "c@x.com"},
			PhoneNumbers:        []string{"111", "222"},
			SecondaryContactIDs: []int64{2, 3},
		})

		if n := countRows(t, db); n != before {
			t.Errorf("bridging request with known values should not insert, got %d rows (was %d)", n, before)
		}

		var links []struct {
			ID             int64                 `db:"id"`
			LinkedID       *int64                `db:"linked_id"`
			LinkPrecedence models.LinkPrecedence `db:"link_precedence"`
		}
		if err := db.Select(&links, "SELECT id, linked_id, link_precedence FROM contacts ORDER BY id"); err != nil {
			t.Fatalf("failed to load links: %v", err)
		}
		for _, l := range links[1:] {
			if l.LinkPrecedence != models.Secondary || l.LinkedID == nil || *l.LinkedID != 1 {
				t.Errorf("contact %d should be a secondary of 1, got %+v", l.ID, l)
			}
		}
	})

	t.Run("Merge With New Information", func(t *testing.T) {
		db := setupTestDB(t)
		e := newTestEngine(t, db)

		mustReconcile(t, e, "a@x.com", "")
		mustReconcile(t, e, "", "222")

		view := mustReconcile(t, e, "a@x.com", "222")
		if n := countRows(t, db); n != 2 {
			t.Errorf("expected 2 rows after merge, got %d", n)
		}
		assertView(t, view, models.ClusterView{
			PrimaryContactID:    1,
			Emails:              []string{"a@x.com"},
			PhoneNumbers:        []string{"222"},
			SecondaryContactIDs: []int64{2},
		})
	})

	t.Run("Merge Newer Match First", func(t *testing.T) {
		db := setupTestDB(t)
		e := newTestEngine(t, db)

		mustReconcile(t, e, "old@x.com", "1")
		mustReconcile(t, e, "new@x.com", "2")

		view := mustReconcile(t, e, "new@x.com", "1")
		if view.PrimaryContactID != 1 {
			t.Errorf("oldest primary should win regardless of which identifier matched, got %d", view.PrimaryContactID)
		}
	})

	t.Run("Tie Broken By Smallest ID", func(t *testing.T) {
		db := setupTestDB(t)
		fixed := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
		e := NewEngine(db, WithClock(func() time.Time { return fixed }), WithLogger(shared.NewLogger(io.Discard)))

		mustReconcile(t, e, "a@x.com", "1")
		mustReconcile(t, e, "b@x.com", "2")
		view := mustReconcile(t, e, "b@x.com", "1")

		if view.PrimaryContactID != 1 {
			t.Errorf("expected primary 1 on createdAt tie, got %d", view.PrimaryContactID)
		}
		if !reflect.DeepEqual(view.SecondaryContactIDs, []int64{2}) {
			t.Errorf("expected secondaries [2], got %v", view.SecondaryContactIDs)
		}
	})

	t.Run("Dedup And Ordering", func(t *testing.T) {
		db := setupTestDB(t)
		e := newTestEngine(t, db)

		mustReconcile(t, e, "p@x.com", "100")
		mustReconcile(t, e, "s@x.com", "100")
		mustReconcile(t, e, "p@x.com", "200")
		view := mustReconcile(t, e, "s@x.com", "300")

		assertView(t, view, models.ClusterView{
			PrimaryContactID:    1,
			Emails:              []string{"p@x.com", "s@x.com"},
			PhoneNumbers:        []string{"100", "200", "300"},
			SecondaryContactIDs: []int64{2, 3, 4},
		})
	})

	t.Run("Matching Is Exact", func(t *testing.T) {
		db := setupTestDB(t)
		e := newTestEngine(t, db)

		mustReconcile(t, e, "a@x.com", "")
		view := mustReconcile(t, e, "A@X.COM", "")

		if view.PrimaryContactID != 2 {
			t.Errorf("differently cased email should start its own cluster, got primary %d", view.PrimaryContactID)
		}
	})
}

func TestReconcileValidation(t *testing.T) {
	db := setupTestDB(t)
	e := newTestEngine(t, db)
	db.Close()

	tc := []struct {
		name     string
		identity models.Identity
	}{
		{name: "both absent", identity: models.Identity{}},
		{name: "both empty", identity: models.Identity{Email: models.Some(""), PhoneNumber: models.Some("")}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Reconcile(context.Background(), tt.identity)
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput before any storage access, got %v", err)
			}
		})
	}

	t.Run("closed database", func(t *testing.T) {
		_, err := e.Reconcile(context.Background(), models.NewIdentity("a@x.com", ""))
		if !errors.Is(err, shared.ErrPersistence) {
			t.Errorf("expected ErrPersistence, got %v", err)
		}
	})
}

func TestReconcileInvariantViolation(t *testing.T) {
	db := setupTestDB(t)
	e := newTestEngine(t, db)

	mustReconcile(t, e, "a@x.com", "1")
	mustReconcile(t, e, "b@x.com", "1")

	// Break the cluster so it no longer has a root.
	if _, err := db.Exec("UPDATE contacts SET link_precedence = 'secondary', linked_id = 2 WHERE id = 1"); err != nil {
		t.Fatalf("failed to corrupt cluster: %v", err)
	}
	before := countRows(t, db)

	_, err := e.Reconcile(context.Background(), models.NewIdentity("a@x.com", "9"))
	if !errors.Is(err, shared.ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}

	if n := countRows(t, db); n != before {
		t.Errorf("failed reconcile should roll back, got %d rows (was %d)", n, before)
	}
}

func TestReconcileCanceled(t *testing.T) {
	db := setupTestDB(t)
	e := newTestEngine(t, db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Reconcile(ctx, models.NewIdentity("a@x.com", "1")); err == nil {
		t.Fatal("expected error for canceled context")
	}
	if n := countRows(t, db); n != 0 {
		t.Errorf("canceled reconcile should not write, got %d rows", n)
	}
}

func TestReconcileConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recon.db")
	db, err := shared.OpenDatabase(shared.DatabaseConfig{Path: path, MaxOpenConns: 8, BusyTimeoutMS: 10000})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := shared.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	e := NewEngine(db, WithLogger(shared.NewLogger(io.Discard)))

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	views := make(chan *models.ClusterView, workers)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			view, err := e.Reconcile(context.Background(), models.NewIdentity("race@x.com", "555"))
			if err != nil {
				errs <- err
				return
			}
			views <- view
		}()
	}
	wg.Wait()
	close(errs)
	close(views)

	for err := range errs {
		t.Errorf("concurrent reconcile failed: %v", err)
	}

	if n := countRows(t, db); n != 1 {
		t.Errorf("expected a single primary for concurrent first sightings, got %d rows", n)
	}

	for view := range views {
		if view.PrimaryContactID != 1 || len(view.SecondaryContactIDs) != 0 {
			t.Errorf("unexpected view %+v", view)
		}
	}
}

func TestLookups(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	e := newTestEngine(t, db)

	mustReconcile(t, e, "a@x.com", "1")
	mustReconcile(t, e, "b@x.com", "1")
	mustReconcile(t, e, "z@x.com", "9")

	t.Run("Cluster By Secondary", func(t *testing.T) {
		cluster, err := e.Cluster(ctx, 2)
		if err != nil {
			t.Fatalf("Cluster failed: %v", err)
		}
		if cluster.View.PrimaryContactID != 1 || len(cluster.Contacts) != 2 {
			t.Errorf("unexpected cluster %+v", cluster)
		}
		if p, ok := cluster.Primary(); !ok || p.ID != 1 {
			t.Errorf("expected primary 1, got %+v", p)
		}
	})

	t.Run("Cluster Missing", func(t *testing.T) {
		if _, err := e.Cluster(ctx, 99); !errors.Is(err, shared.ErrContactNotFound) {
			t.Errorf("expected ErrContactNotFound, got %v", err)
		}
	})

	t.Run("Clusters", func(t *testing.T) {
		clusters, err := e.Clusters(ctx, 0, 0)
		if err != nil {
			t.Fatalf("Clusters failed: %v", err)
		}
		if len(clusters) != 2 {
			t.Fatalf("expected 2 clusters, got %d", len(clusters))
		}
		if clusters[0].View.PrimaryContactID != 1 || clusters[1].View.PrimaryContactID != 3 {
			t.Errorf("clusters should be ordered by primary creation, got %d, %d",
				clusters[0].View.PrimaryContactID, clusters[1].View.PrimaryContactID)
		}

		page, err := e.Clusters(ctx, 1, 1)
		if err != nil {
			t.Fatalf("Clusters failed: %v", err)
		}
		if len(page) != 1 || page[0].View.PrimaryContactID != 3 {
			t.Errorf("unexpected page %+v", page)
		}

		count, err := e.Count(ctx)
		if err != nil || count != 2 {
			t.Errorf("expected 2 clusters, got %d (%v)", count, err)
		}
	})
}
