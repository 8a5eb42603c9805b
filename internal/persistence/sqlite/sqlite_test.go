package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/larissabakken/uncomplicated-scheduling/internal/persistence"
)

func newTestPool(t *testing.T) *Pool {
	t.Helper()

	dir := t.TempDir()
	dsn := filepath.Join(dir, "bookings.db")
	pool, err := Open(dsn)
	if err != nil {
		t.Fatalf("failed to open pool: %v", err)
	}

	t.Cleanup(func() {
		_ = pool.Close()
	})

	if err := pool.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return pool
}

func seedUser(t *testing.T, pool *Pool, id, username string) persistence.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Second)
	user := persistence.User{
		ID:        id,
		Username:  username,
		Name:      "Test Owner",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := NewUserRepository(pool).CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user %s: %v", id, err)
	}
	return user
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewUserRepository(pool)

	now := time.Now().UTC().Truncate(time.Second)
	user := persistence.User{
		ID:        "user-1",
		Username:  "Alice-Doe",
		Name:      "Alice Doe",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	fetched, err := repo.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if fetched.Username != "alice-doe" {
		t.Fatalf("expected lowercased username, got %q", fetched.Username)
	}
	if fetched.Email != nil || fetched.Bio != nil {
		t.Fatalf("expected empty profile fields, got %#v", fetched)
	}

	// Lookup normalizes case the same way the insert did.
	fetched, err = repo.GetUserByUsername(ctx, " ALICE-DOE ")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if fetched.ID != user.ID {
		t.Fatalf("expected ID %q, got %q", user.ID, fetched.ID)
	}

	email := "alice@example.com"
	bio := "I schedule things."
	user.Name = "Alice Updated"
	user.Email = &email
	user.Bio = &bio
	user.UpdatedAt = now.Add(time.Minute)
	if err := repo.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	fetched, err = repo.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser after update failed: %v", err)
	}
	if fetched.Name != "Alice Updated" || fetched.Email == nil || *fetched.Email != email {
		t.Fatalf("unexpected user after update: %#v", fetched)
	}
	if fetched.Bio == nil || *fetched.Bio != bio {
		t.Fatalf("expected bio to persist, got %#v", fetched.Bio)
	}

	missing := persistence.User{ID: "ghost", Username: "ghost", UpdatedAt: now}
	if err := repo.UpdateUser(ctx, missing); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating missing user, got %v", err)
	}
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewUserRepository(pool)

	now := time.Now().UTC().Truncate(time.Second)
	first := persistence.User{ID: "user-1", Username: "taken", Name: "First", CreatedAt: now, UpdatedAt: now}
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	// Same username with different case collides after normalization.
	second := persistence.User{ID: "user-2", Username: "TAKEN", Name: "Second", CreatedAt: now, UpdatedAt: now}
	if err := repo.CreateUser(ctx, second); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestIntervalRepository(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewIntervalRepository(pool)

	user := seedUser(t, pool, "user-1", "alice")
	now := time.Now().UTC().Truncate(time.Second)

	intervals := []persistence.TimeInterval{
		{ID: "int-wed", UserID: user.ID, Weekday: time.Wednesday, StartMinute: 600, EndMinute: 1080, CreatedAt: now, UpdatedAt: now},
		{ID: "int-mon", UserID: user.ID, Weekday: time.Monday, StartMinute: 480, EndMinute: 720, CreatedAt: now, UpdatedAt: now},
	}
	if err := repo.ReplaceIntervals(ctx, user.ID, intervals); err != nil {
		t.Fatalf("ReplaceIntervals failed: %v", err)
	}

	listed, err := repo.ListIntervals(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListIntervals failed: %v", err)
	}
	if len(listed) != 2 || listed[0].Weekday != time.Monday || listed[1].Weekday != time.Wednesday {
		t.Fatalf("expected intervals ordered by weekday, got %#v", listed)
	}

	window, err := repo.GetIntervalForWeekday(ctx, user.ID, time.Monday)
	if err != nil {
		t.Fatalf("GetIntervalForWeekday failed: %v", err)
	}
	if window.StartMinute != 480 || window.EndMinute != 720 {
		t.Fatalf("unexpected window: %#v", window)
	}

	if _, err := repo.GetIntervalForWeekday(ctx, user.ID, time.Sunday); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for weekday without window, got %v", err)
	}

	// Replacing swaps the stored set entirely.
	replacement := []persistence.TimeInterval{
		{ID: "int-fri", UserID: user.ID, Weekday: time.Friday, StartMinute: 540, EndMinute: 900, CreatedAt: now, UpdatedAt: now},
	}
	if err := repo.ReplaceIntervals(ctx, user.ID, replacement); err != nil {
		t.Fatalf("ReplaceIntervals replacement failed: %v", err)
	}

	listed, err = repo.ListIntervals(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListIntervals after replace failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Weekday != time.Friday {
		t.Fatalf("expected only the replacement window, got %#v", listed)
	}
}

func TestIntervalRepository_InvalidRange(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewIntervalRepository(pool)

	user := seedUser(t, pool, "user-1", "alice")
	now := time.Now().UTC().Truncate(time.Second)

	// end <= start violates the table CHECK constraint.
	bad := []persistence.TimeInterval{
		{ID: "int-bad", UserID: user.ID, Weekday: time.Monday, StartMinute: 720, EndMinute: 480, CreatedAt: now, UpdatedAt: now},
	}
	if err := repo.ReplaceIntervals(ctx, user.ID, bad); !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestBookingRepository(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewBookingRepository(pool)

	user := seedUser(t, pool, "user-1", "alice")
	now := time.Now().UTC().Truncate(time.Second)

	slot := time.Date(2026, time.April, 6, 9, 0, 0, 0, time.UTC)
	notes := "Looking forward to it"
	booking := persistence.Booking{
		ID:           "booking-1",
		UserID:       user.ID,
		Date:         slot,
		Name:         "Visitor One",
		Email:        "visitor@example.com",
		Observations: &notes,
		CreatedAt:    now,
	}
	if err := repo.CreateBooking(ctx, booking); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	later := persistence.Booking{
		ID:        "booking-2",
		UserID:    user.ID,
		Date:      slot.Add(2 * time.Hour),
		Name:      "Visitor Two",
		Email:     "second@example.com",
		CreatedAt: now,
	}
	if err := repo.CreateBooking(ctx, later); err != nil {
		t.Fatalf("CreateBooking second failed: %v", err)
	}

	// The same user and slot twice collides on the unique index.
	conflict := persistence.Booking{
		ID:        "booking-3",
		UserID:    user.ID,
		Date:      slot,
		Name:      "Visitor Three",
		Email:     "third@example.com",
		CreatedAt: now,
	}
	if err := repo.CreateBooking(ctx, conflict); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for taken slot, got %v", err)
	}

	dayStart := time.Date(2026, time.April, 6, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Second)
	bookings, err := repo.ListBookingsInRange(ctx, user.ID, dayStart, dayEnd)
	if err != nil {
		t.Fatalf("ListBookingsInRange failed: %v", err)
	}
	if len(bookings) != 2 || !bookings[0].Date.Equal(slot) || !bookings[1].Date.Equal(slot.Add(2*time.Hour)) {
		t.Fatalf("expected 2 bookings ordered by date, got %#v", bookings)
	}
	if bookings[0].Observations == nil || *bookings[0].Observations != notes {
		t.Fatalf("expected observations to persist, got %#v", bookings[0].Observations)
	}

	counts, err := repo.CountBookingsByDay(ctx, user.ID, 2026, time.April)
	if err != nil {
		t.Fatalf("CountBookingsByDay failed: %v", err)
	}
	if counts[6] != 2 {
		t.Fatalf("expected 2 bookings on day 6, got %#v", counts)
	}
	if _, ok := counts[7]; ok {
		t.Fatalf("expected no entry for day without bookings, got %#v", counts)
	}
}

func TestBookingRepository_ForeignKey(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewBookingRepository(pool)

	booking := persistence.Booking{
		ID:        "booking-1",
		UserID:    "nobody",
		Date:      time.Date(2026, time.April, 6, 9, 0, 0, 0, time.UTC),
		Name:      "Visitor",
		Email:     "visitor@example.com",
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.CreateBooking(ctx, booking); !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("expected ErrForeignKeyViolation, got %v", err)
	}
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewSessionRepository(pool)

	user := seedUser(t, pool, "user-1", "alice")
	now := time.Now().UTC().Truncate(time.Second)

	session := persistence.Session{
		ID:        "session-1",
		UserID:    user.ID,
		Token:     "token-abc",
		ExpiresAt: now.Add(24 * time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}

	stored, err := repo.CreateSession(ctx, session)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if stored.Token != session.Token || stored.RevokedAt != nil {
		t.Fatalf("unexpected stored session: %#v", stored)
	}

	fetched, err := repo.GetSession(ctx, session.Token)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if fetched.UserID != user.ID || !fetched.ExpiresAt.Equal(session.ExpiresAt) {
		t.Fatalf("unexpected session: %#v", fetched)
	}

	revokedAt := now.Add(time.Hour)
	revoked, err := repo.RevokeSession(ctx, session.Token, revokedAt)
	if err != nil {
		t.Fatalf("RevokeSession failed: %v", err)
	}
	if revoked.RevokedAt == nil || !revoked.RevokedAt.Equal(revokedAt) {
		t.Fatalf("expected revoked_at to be set: %#v", revoked)
	}

	if _, err := repo.RevokeSession(ctx, "missing-token", revokedAt); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound revoking missing session, got %v", err)
	}

	if err := repo.DeleteExpiredSessions(ctx, now.Add(48*time.Hour)); err != nil {
		t.Fatalf("DeleteExpiredSessions failed: %v", err)
	}
	if _, err := repo.GetSession(ctx, session.Token); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected session to be purged, got %v", err)
	}
}

func TestCalendarConnectionRepository(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	repo := NewCalendarConnectionRepository(pool)

	user := seedUser(t, pool, "user-1", "alice")
	now := time.Now().UTC().Truncate(time.Second)

	expiry := now.Add(time.Hour)
	connection := persistence.CalendarConnection{
		ID:           "conn-1",
		UserID:       user.ID,
		Provider:     "google",
		AccessToken:  "ciphertext-access",
		RefreshToken: "ciphertext-refresh",
		TokenExpiry:  &expiry,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.UpsertConnection(ctx, connection); err != nil {
		t.Fatalf("UpsertConnection failed: %v", err)
	}

	fetched, err := repo.GetConnection(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetConnection failed: %v", err)
	}
	if fetched.AccessToken != connection.AccessToken || fetched.Provider != "google" {
		t.Fatalf("unexpected connection: %#v", fetched)
	}
	if fetched.TokenExpiry == nil || !fetched.TokenExpiry.Equal(expiry) {
		t.Fatalf("expected token expiry to persist: %#v", fetched)
	}

	// A second connect replaces the stored tokens for the same user.
	connection.ID = "conn-2"
	connection.AccessToken = "ciphertext-access-2"
	connection.RefreshToken = "ciphertext-refresh-2"
	connection.UpdatedAt = now.Add(time.Minute)
	if err := repo.UpsertConnection(ctx, connection); err != nil {
		t.Fatalf("UpsertConnection replace failed: %v", err)
	}

	fetched, err = repo.GetConnection(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetConnection after replace failed: %v", err)
	}
	if fetched.ID != "conn-1" {
		t.Fatalf("expected original row ID to survive the upsert, got %q", fetched.ID)
	}
	if fetched.AccessToken != "ciphertext-access-2" {
		t.Fatalf("expected replaced tokens, got %#v", fetched)
	}

	if _, err := repo.GetConnection(ctx, "nobody"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unconnected user, got %v", err)
	}
}
