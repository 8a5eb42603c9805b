package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// RouterConfig collects the handlers and middleware the router mounts.
type RouterConfig struct {
	Users          *UserHandler
	Availability   *AvailabilityHandler
	Bookings       *BookingHandler
	Auth           *AuthHandler
	SessionGuard   func(http.Handler) http.Handler
	Middleware     []func(http.Handler) http.Handler
	AllowedOrigins []string
}

// NewRouter assembles the HTTP API. Public endpoints serve visitors of a
// user's page; owner endpoints sit behind the session guard.
func NewRouter(cfg RouterConfig) http.Handler {
	router := chi.NewRouter()

	for _, middleware := range cfg.Middleware {
		if middleware != nil {
			router.Use(middleware)
		}
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	guard := cfg.SessionGuard
	if guard == nil {
		guard = func(next http.Handler) http.Handler { return next }
	}

	router.Route("/users", func(r chi.Router) {
		if cfg.Users != nil {
			r.Post("/", cfg.Users.Register)
			r.Group(func(r chi.Router) {
				r.Use(guard)
				r.Put("/profile", cfg.Users.UpdateProfile)
				r.Post("/time-intervals", cfg.Users.SetTimeIntervals)
			})
		}
		r.Route("/{username}", func(r chi.Router) {
			if cfg.Availability != nil {
				r.Get("/availability", cfg.Availability.Availability)
				r.Get("/blocked-dates", cfg.Availability.BlockedDates)
				r.Get("/calendar", cfg.Availability.Calendar)
			}
			if cfg.Bookings != nil {
				r.Post("/schedule", cfg.Bookings.Create)
			}
		})
	})

	if cfg.Auth != nil {
		router.Group(func(r chi.Router) {
			r.Use(guard)
			r.Delete("/sessions/current", cfg.Auth.DeleteCurrentSession)
			r.Get("/auth/calendar/connect", cfg.Auth.CalendarConnect)
			r.Get("/auth/calendar/callback", cfg.Auth.CalendarCallback)
			r.Get("/auth/calendar/status", cfg.Auth.CalendarStatus)
		})
	}

	return router
}

func pathParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}
