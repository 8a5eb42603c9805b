package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/larissabakken/uncomplicated-scheduling/internal/application"
	"github.com/larissabakken/uncomplicated-scheduling/internal/config"
	httptransport "github.com/larissabakken/uncomplicated-scheduling/internal/http"
	"github.com/larissabakken/uncomplicated-scheduling/internal/persistence"
	"github.com/larissabakken/uncomplicated-scheduling/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close database", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	stateGenerator := func() string { return randomHex(16) }
	now := time.Now

	cipher, err := application.NewTokenCipher(cfg.TokenKey)
	if err != nil {
		logger.Error("failed to initialise token cipher", "error", err)
		os.Exit(1)
	}

	userRepo := newUserRepositoryAdapter(sqlite.NewUserRepository(pool))
	intervalRepo := newIntervalRepositoryAdapter(sqlite.NewIntervalRepository(pool))
	bookingRepo := newBookingRepositoryAdapter(sqlite.NewBookingRepository(pool))
	sessionRepo := newSessionRepositoryAdapter(sqlite.NewSessionRepository(pool))
	connectionRepo := newConnectionRepositoryAdapter(sqlite.NewCalendarConnectionRepository(pool))

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.OAuthClientID,
		ClientSecret: cfg.OAuthClientSecret,
		RedirectURL:  cfg.OAuthRedirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"https://www.googleapis.com/auth/calendar.events"},
	}

	userService := application.NewUserService(userRepo, idGenerator, now)
	intervalService := application.NewIntervalService(intervalRepo, idGenerator, now)
	availabilityService := application.NewAvailabilityService(userRepo, intervalRepo, bookingRepo, now)
	bookingService := application.NewBookingServiceWithLogger(userRepo, bookingRepo, idGenerator, now, logger)
	authService := application.NewAuthServiceWithLogger(userRepo, sessionRepo, tokenGenerator, now, cfg.SessionTTL, logger)
	calendarService := application.NewCalendarService(connectionRepo, oauthConfig, cipher, "google", idGenerator, now, logger)

	userHandler := httptransport.NewUserHandler(userService, authService, intervalService, logger)
	availabilityHandler := httptransport.NewAvailabilityHandler(availabilityService, logger)
	bookingHandler := httptransport.NewBookingHandler(bookingService, logger)
	authHandler := httptransport.NewAuthHandler(authService, calendarService, stateGenerator, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Users:          userHandler,
		Availability:   availabilityHandler,
		Bookings:       bookingHandler,
		Auth:           authHandler,
		SessionGuard:   httptransport.RequireSession(authService, logger),
		Middleware:     []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
		AllowedOrigins: cfg.AllowedOrigins,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("booking API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

// mapStorageError translates persistence sentinels into the application's
// vocabulary. Foreign key violations surface as missing records because the
// only references bookings hold are user IDs.
func mapStorageError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return application.ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return application.ErrAlreadyExists
	case errors.Is(err, persistence.ErrForeignKeyViolation):
		return application.ErrNotFound
	default:
		return err
	}
}

type userRepositoryAdapter struct {
	repo persistence.UserRepository
}

func newUserRepositoryAdapter(repo persistence.UserRepository) *userRepositoryAdapter {
	return &userRepositoryAdapter{repo: repo}
}

func (a *userRepositoryAdapter) CreateUser(ctx context.Context, user application.User) error {
	return mapStorageError(a.repo.CreateUser(ctx, toPersistenceUser(user)))
}

func (a *userRepositoryAdapter) UpdateUser(ctx context.Context, user application.User) error {
	return mapStorageError(a.repo.UpdateUser(ctx, toPersistenceUser(user)))
}

func (a *userRepositoryAdapter) GetUser(ctx context.Context, id string) (application.User, error) {
	stored, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return application.User{}, mapStorageError(err)
	}
	return toApplicationUser(stored), nil
}

func (a *userRepositoryAdapter) GetUserByUsername(ctx context.Context, username string) (application.User, error) {
	stored, err := a.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return application.User{}, mapStorageError(err)
	}
	return toApplicationUser(stored), nil
}

type intervalRepositoryAdapter struct {
	repo persistence.IntervalRepository
}

func newIntervalRepositoryAdapter(repo persistence.IntervalRepository) *intervalRepositoryAdapter {
	return &intervalRepositoryAdapter{repo: repo}
}

func (a *intervalRepositoryAdapter) ReplaceIntervals(ctx context.Context, userID string, intervals []application.TimeInterval) error {
	models := make([]persistence.TimeInterval, 0, len(intervals))
	for _, interval := range intervals {
		models = append(models, toPersistenceInterval(interval))
	}
	return mapStorageError(a.repo.ReplaceIntervals(ctx, userID, models))
}

func (a *intervalRepositoryAdapter) GetIntervalForWeekday(ctx context.Context, userID string, weekday time.Weekday) (application.TimeInterval, error) {
	stored, err := a.repo.GetIntervalForWeekday(ctx, userID, weekday)
	if err != nil {
		return application.TimeInterval{}, mapStorageError(err)
	}
	return toApplicationInterval(stored), nil
}

func (a *intervalRepositoryAdapter) ListIntervals(ctx context.Context, userID string) ([]application.TimeInterval, error) {
	models, err := a.repo.ListIntervals(ctx, userID)
	if err != nil {
		return nil, mapStorageError(err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	intervals := make([]application.TimeInterval, 0, len(models))
	for _, model := range models {
		intervals = append(intervals, toApplicationInterval(model))
	}
	return intervals, nil
}

type bookingRepositoryAdapter struct {
	repo persistence.BookingRepository
}

func newBookingRepositoryAdapter(repo persistence.BookingRepository) *bookingRepositoryAdapter {
	return &bookingRepositoryAdapter{repo: repo}
}

func (a *bookingRepositoryAdapter) CreateBooking(ctx context.Context, booking application.Booking) error {
	return mapStorageError(a.repo.CreateBooking(ctx, toPersistenceBooking(booking)))
}

func (a *bookingRepositoryAdapter) ListBookingsInRange(ctx context.Context, userID string, from, to time.Time) ([]application.Booking, error) {
	models, err := a.repo.ListBookingsInRange(ctx, userID, from, to)
	if err != nil {
		return nil, mapStorageError(err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	bookings := make([]application.Booking, 0, len(models))
	for _, model := range models {
		bookings = append(bookings, toApplicationBooking(model))
	}
	return bookings, nil
}

func (a *bookingRepositoryAdapter) CountBookingsByDay(ctx context.Context, userID string, year int, month time.Month) (map[int]int, error) {
	counts, err := a.repo.CountBookingsByDay(ctx, userID, year, month)
	if err != nil {
		return nil, mapStorageError(err)
	}
	return counts, nil
}

type sessionRepositoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionRepositoryAdapter(repo persistence.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, mapStorageError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, mapStorageError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, mapStorageError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return mapStorageError(a.repo.DeleteExpiredSessions(ctx, reference))
}

type connectionRepositoryAdapter struct {
	repo persistence.CalendarConnectionRepository
}

func newConnectionRepositoryAdapter(repo persistence.CalendarConnectionRepository) *connectionRepositoryAdapter {
	return &connectionRepositoryAdapter{repo: repo}
}

func (a *connectionRepositoryAdapter) UpsertConnection(ctx context.Context, connection application.CalendarConnection) error {
	return mapStorageError(a.repo.UpsertConnection(ctx, toPersistenceConnection(connection)))
}

func (a *connectionRepositoryAdapter) GetConnection(ctx context.Context, userID string) (application.CalendarConnection, error) {
	stored, err := a.repo.GetConnection(ctx, userID)
	if err != nil {
		return application.CalendarConnection{}, mapStorageError(err)
	}
	return toApplicationConnection(stored), nil
}

func toApplicationUser(model persistence.User) application.User {
	return application.User{
		ID:        model.ID,
		Username:  model.Username,
		Name:      model.Name,
		Email:     cloneString(model.Email),
		Bio:       cloneString(model.Bio),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceUser(user application.User) persistence.User {
	return persistence.User{
		ID:        user.ID,
		Username:  user.Username,
		Name:      user.Name,
		Email:     cloneString(user.Email),
		Bio:       cloneString(user.Bio),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func toApplicationInterval(model persistence.TimeInterval) application.TimeInterval {
	return application.TimeInterval{
		ID:          model.ID,
		UserID:      model.UserID,
		Weekday:     model.Weekday,
		StartMinute: model.StartMinute,
		EndMinute:   model.EndMinute,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceInterval(interval application.TimeInterval) persistence.TimeInterval {
	return persistence.TimeInterval{
		ID:          interval.ID,
		UserID:      interval.UserID,
		Weekday:     interval.Weekday,
		StartMinute: interval.StartMinute,
		EndMinute:   interval.EndMinute,
		CreatedAt:   interval.CreatedAt,
		UpdatedAt:   interval.UpdatedAt,
	}
}

func toApplicationBooking(model persistence.Booking) application.Booking {
	return application.Booking{
		ID:           model.ID,
		UserID:       model.UserID,
		Date:         model.Date,
		Name:         model.Name,
		Email:        model.Email,
		Observations: cloneString(model.Observations),
		CreatedAt:    model.CreatedAt,
	}
}

func toPersistenceBooking(booking application.Booking) persistence.Booking {
	return persistence.Booking{
		ID:           booking.ID,
		UserID:       booking.UserID,
		Date:         booking.Date,
		Name:         booking.Name,
		Email:        booking.Email,
		Observations: cloneString(booking.Observations),
		CreatedAt:    booking.CreatedAt,
	}
}

func toApplicationSession(model persistence.Session) application.Session {
	return application.Session{
		ID:        model.ID,
		UserID:    model.UserID,
		Token:     model.Token,
		ExpiresAt: model.ExpiresAt,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
		RevokedAt: cloneTime(model.RevokedAt),
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:        session.ID,
		UserID:    session.UserID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		RevokedAt: cloneTime(session.RevokedAt),
	}
}

func toApplicationConnection(model persistence.CalendarConnection) application.CalendarConnection {
	return application.CalendarConnection{
		ID:           model.ID,
		UserID:       model.UserID,
		Provider:     model.Provider,
		AccessToken:  model.AccessToken,
		RefreshToken: model.RefreshToken,
		TokenExpiry:  cloneTime(model.TokenExpiry),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

func toPersistenceConnection(connection application.CalendarConnection) persistence.CalendarConnection {
	return persistence.CalendarConnection{
		ID:           connection.ID,
		UserID:       connection.UserID,
		Provider:     connection.Provider,
		AccessToken:  connection.AccessToken,
		RefreshToken: connection.RefreshToken,
		TokenExpiry:  cloneTime(connection.TokenExpiry),
		CreatedAt:    connection.CreatedAt,
		UpdatedAt:    connection.UpdatedAt,
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
