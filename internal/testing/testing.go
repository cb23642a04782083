// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/desertthunder/recon/internal/models"
	"github.com/desertthunder/recon/internal/shared"
)

// MockReconciler is a test double for the reconciliation engine.
//
// Each hook is optional; nil hooks return zero values. Calls are recorded for assertions.
type MockReconciler struct {
	ReconcileFunc func(ctx context.Context, identity models.Identity) (*models.ClusterView, error)
	ClusterFunc   func(ctx context.Context, id int64) (*models.Cluster, error)
	ClustersFunc  func(ctx context.Context, limit, offset int) ([]models.Cluster, error)
	PingFunc      func(ctx context.Context) error

	mu    sync.Mutex
	calls []models.Identity
}

func (m *MockReconciler) Reconcile(ctx context.Context, identity models.Identity) (*models.ClusterView, error) {
	m.mu.Lock()
	m.calls = append(m.calls, identity)
	m.mu.Unlock()

	if m.ReconcileFunc != nil {
		return m.ReconcileFunc(ctx, identity)
	}
	return &models.ClusterView{Emails: []string{}, PhoneNumbers: []string{}, SecondaryContactIDs: []int64{}}, nil
}

func (m *MockReconciler) Cluster(ctx context.Context, id int64) (*models.Cluster, error) {
	if m.ClusterFunc != nil {
		return m.ClusterFunc(ctx, id)
	}
	return nil, shared.ErrContactNotFound
}

func (m *MockReconciler) Clusters(ctx context.Context, limit, offset int) ([]models.Cluster, error) {
	if m.ClustersFunc != nil {
		return m.ClustersFunc(ctx, limit, offset)
	}
	return []models.Cluster{}, nil
}

func (m *MockReconciler) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// Calls returns the identities passed to Reconcile so far.
func (m *MockReconciler) Calls() []models.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Identity(nil), m.calls...)
}

// NewTestDB opens an in-memory database with migrations applied and closes it when the test ends.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
