package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/larissabakken/uncomplicated-scheduling/internal/persistence"
	"github.com/larissabakken/uncomplicated-scheduling/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Users       persistence.UserRepository
	Intervals   persistence.IntervalRepository
	Bookings    persistence.BookingRepository
	Sessions    persistence.SessionRepository
	Connections persistence.CalendarConnectionRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// also registers a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	dsn := "file:" + filepath.Join(dir, "bookings.db")

	pool, err := sqlite.Open(dsn)
	if err != nil {
		tb.Fatalf("failed to open database: %v", err)
	}

	if err := pool.Migrate(context.Background()); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate database: %v", err)
	}

	harness := &SQLiteHarness{
		Users:       sqlite.NewUserRepository(pool),
		Intervals:   sqlite.NewIntervalRepository(pool),
		Bookings:    sqlite.NewBookingRepository(pool),
		Sessions:    sqlite.NewSessionRepository(pool),
		Connections: sqlite.NewCalendarConnectionRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
