package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
)

// CalendarConnectionRepository captures the persistence operations for linked
// calendar accounts.
type CalendarConnectionRepository interface {
	UpsertConnection(ctx context.Context, connection CalendarConnection) error
	GetConnection(ctx context.Context, userID string) (CalendarConnection, error)
}

// CodeExchanger swaps an OAuth authorization code for a token.
type CodeExchanger func(ctx context.Context, code string) (*oauth2.Token, error)

// CalendarService links an owner's calendar account through the OAuth code
// flow and keeps the provider tokens encrypted at rest.
type CalendarService struct {
	connections CalendarConnectionRepository
	oauth       *oauth2.Config
	exchange    CodeExchanger
	cipher      *TokenCipher
	provider    string
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewCalendarService constructs a CalendarService with the provided dependencies.
func NewCalendarService(connections CalendarConnectionRepository, oauth *oauth2.Config, cipher *TokenCipher, provider string, idGenerator func() string, now func() time.Time, logger *slog.Logger) *CalendarService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if provider == "" {
		provider = "google"
	}
	service := &CalendarService{
		connections: connections,
		oauth:       oauth,
		cipher:      cipher,
		provider:    provider,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
	if oauth != nil {
		service.exchange = func(ctx context.Context, code string) (*oauth2.Token, error) {
			return oauth.Exchange(ctx, code)
		}
	}
	return service
}

// WithExchanger overrides how authorization codes are exchanged. Tests use it
// to avoid hitting a real provider.
func (s *CalendarService) WithExchanger(exchange CodeExchanger) *CalendarService {
	s.exchange = exchange
	return s
}

func (s *CalendarService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "CalendarService", operation, attrs...)
}

// AuthorizationURL returns the provider consent page URL carrying the given
// state value. Offline access is requested so a refresh token is issued.
func (s *CalendarService) AuthorizationURL(state string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("CalendarService is nil")
	}
	if s.oauth == nil {
		return "", fmt.Errorf("oauth config not configured")
	}
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// CompleteConnection exchanges the callback code and stores the encrypted
// tokens as the caller's calendar connection. Reconnecting replaces any
// previously stored tokens.
func (s *CalendarService) CompleteConnection(ctx context.Context, principal Principal, code string) (err error) {
	if s == nil {
		return fmt.Errorf("CalendarService is nil")
	}
	if principal.UserID == "" {
		return ErrUnauthorized
	}
	if s.connections == nil {
		return fmt.Errorf("connection repository not configured")
	}
	if s.exchange == nil {
		return fmt.Errorf("code exchanger not configured")
	}
	if s.cipher == nil {
		return fmt.Errorf("token cipher not configured")
	}

	logger := s.loggerWith(ctx, "CompleteConnection", "user_id", principal.UserID, "provider", s.provider)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "calendar connection failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "calendar connected")
	}()

	if code == "" {
		vErr := &ValidationError{}
		vErr.add("code", "authorization code is required")
		err = vErr
		return
	}

	token, err := s.exchange(ctx, code)
	if err != nil {
		err = fmt.Errorf("exchange authorization code: %w", err)
		return
	}

	accessToken, err := s.cipher.Encrypt(token.AccessToken)
	if err != nil {
		return
	}
	refreshToken, err := s.cipher.Encrypt(token.RefreshToken)
	if err != nil {
		return
	}

	now := s.now()
	connection := CalendarConnection{
		ID:           s.idGenerator(),
		UserID:       principal.UserID,
		Provider:     s.provider,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		connection.TokenExpiry = &expiry
	}

	err = s.connections.UpsertConnection(ctx, connection)
	return
}

// IsConnected reports whether the caller already linked a calendar account.
func (s *CalendarService) IsConnected(ctx context.Context, principal Principal) (bool, error) {
	if s == nil {
		return false, fmt.Errorf("CalendarService is nil")
	}
	if principal.UserID == "" {
		return false, ErrUnauthorized
	}
	if s.connections == nil {
		return false, nil
	}

	_, err := s.connections.GetConnection(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
