package testfixtures

import (
	"log/slog"
	"time"

	"golang.org/x/oauth2"

	"github.com/larissabakken/uncomplicated-scheduling/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// UserServiceDeps captures dependencies for constructing a user service.
type UserServiceDeps struct {
	Users       application.UserRepository
	IDGenerator func() string
	Now         func() time.Time
}

// NewUserService builds a user service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewUserService(deps UserServiceDeps) *application.UserService {
	return application.NewUserService(
		deps.Users,
		f.idGenerator(deps.IDGenerator),
		f.now(deps.Now),
	)
}

// IntervalServiceDeps captures dependencies for constructing an interval service.
type IntervalServiceDeps struct {
	Intervals   application.IntervalRepository
	IDGenerator func() string
	Now         func() time.Time
}

// NewIntervalService builds an interval service using the supplied dependencies.
func (f *ServiceFactory) NewIntervalService(deps IntervalServiceDeps) *application.IntervalService {
	return application.NewIntervalService(
		deps.Intervals,
		f.idGenerator(deps.IDGenerator),
		f.now(deps.Now),
	)
}

// AvailabilityServiceDeps captures dependencies for constructing an
// availability service.
type AvailabilityServiceDeps struct {
	Users     application.UserRepository
	Intervals application.IntervalRepository
	Bookings  application.BookingRepository
	Now       func() time.Time
}

// NewAvailabilityService builds an availability service using the supplied
// dependencies.
func (f *ServiceFactory) NewAvailabilityService(deps AvailabilityServiceDeps) *application.AvailabilityService {
	return application.NewAvailabilityService(
		deps.Users,
		deps.Intervals,
		deps.Bookings,
		f.now(deps.Now),
	)
}

// BookingServiceDeps captures dependencies for constructing a booking service.
type BookingServiceDeps struct {
	Users       application.UserRepository
	Bookings    application.BookingRepository
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewBookingService builds a booking service using the supplied dependencies.
func (f *ServiceFactory) NewBookingService(deps BookingServiceDeps) *application.BookingService {
	return application.NewBookingServiceWithLogger(
		deps.Users,
		deps.Bookings,
		f.idGenerator(deps.IDGenerator),
		f.now(deps.Now),
		deps.Logger,
	)
}

// AuthServiceDeps captures dependencies for constructing an auth service.
type AuthServiceDeps struct {
	Users          application.UserRepository
	Sessions       application.SessionRepository
	TokenGenerator func() string
	Now            func() time.Time
	SessionTTL     time.Duration
	Logger         *slog.Logger
}

// NewAuthService builds an auth service using the supplied dependencies. The
// session TTL defaults to one week when unset.
func (f *ServiceFactory) NewAuthService(deps AuthServiceDeps) *application.AuthService {
	ttl := deps.SessionTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return application.NewAuthServiceWithLogger(
		deps.Users,
		deps.Sessions,
		f.idGenerator(deps.TokenGenerator),
		f.now(deps.Now),
		ttl,
		deps.Logger,
	)
}

// CalendarServiceDeps captures dependencies for constructing a calendar service.
type CalendarServiceDeps struct {
	Connections application.CalendarConnectionRepository
	OAuth       *oauth2.Config
	Cipher      *application.TokenCipher
	Provider    string
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewCalendarService builds a calendar service using the supplied dependencies.
// The OAuth config, cipher and provider fall back to deterministic test values
// when unset.
func (f *ServiceFactory) NewCalendarService(deps CalendarServiceDeps) *application.CalendarService {
	oauthConfig := deps.OAuth
	if oauthConfig == nil {
		oauthConfig = &oauth2.Config{
			ClientID:     "test-client",
			ClientSecret: "test-secret",
			RedirectURL:  "http://localhost/auth/calendar/callback",
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://auth.example.com/authorize",
				TokenURL: "https://auth.example.com/token",
			},
		}
	}
	cipher := deps.Cipher
	if cipher == nil {
		cipher = NewTokenCipher()
	}
	provider := deps.Provider
	if provider == "" {
		provider = "google"
	}
	return application.NewCalendarService(
		deps.Connections,
		oauthConfig,
		cipher,
		provider,
		f.idGenerator(deps.IDGenerator),
		f.now(deps.Now),
		deps.Logger,
	)
}

// NewTokenCipher returns a cipher keyed with a fixed 32 byte test key.
func NewTokenCipher() *application.TokenCipher {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	cipher, err := application.NewTokenCipher(key)
	if err != nil {
		panic(err)
	}
	return cipher
}

func (f *ServiceFactory) idGenerator(override func() string) func() string {
	if override != nil {
		return override
	}
	return f.IDGenerator.NextFunc()
}

func (f *ServiceFactory) now(override func() time.Time) func() time.Time {
	if override != nil {
		return override
	}
	return f.Clock.NowFunc()
}
