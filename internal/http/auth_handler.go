package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/larissabakken/uncomplicated-scheduling/internal/application"
)

type sessionRevoker interface {
	RevokeSession(ctx context.Context, token string) error
}

type calendarService interface {
	AuthorizationURL(state string) (string, error)
	CompleteConnection(ctx context.Context, principal application.Principal, code string) error
	IsConnected(ctx context.Context, principal application.Principal) (bool, error)
}

const oauthStateCookie = "oauth_state"

// AuthHandler serves session revocation and the OAuth calendar connection flow.
type AuthHandler struct {
	sessions       sessionRevoker
	calendar       calendarService
	stateGenerator func() string
	responder      responder
	logger         *slog.Logger
}

// NewAuthHandler wires the session and calendar connection endpoints.
func NewAuthHandler(sessions sessionRevoker, calendar calendarService, stateGenerator func() string, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	if stateGenerator == nil {
		stateGenerator = func() string { return "" }
	}
	return &AuthHandler{
		sessions:       sessions,
		calendar:       calendar,
		stateGenerator: stateGenerator,
		responder:      newResponder(base),
		logger:         base,
	}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

// DeleteCurrentSession revokes the token the caller authenticated with.
func (h *AuthHandler) DeleteCurrentSession(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.sessions == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	token := extractTokenFromRequest(r)
	if token == "" {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	logger := h.log(r.Context(), "DeleteCurrentSession")
	if err := h.sessions.RevokeSession(r.Context(), token); err != nil {
		logger.ErrorContext(r.Context(), "session revocation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	logger.InfoContext(r.Context(), "session revoked")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// CalendarConnect redirects the caller to the provider consent page, pinning
// the OAuth state in a short lived cookie.
func (h *AuthHandler) CalendarConnect(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.calendar == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "CalendarConnect", "principal_id", principal.UserID)

	state := h.stateGenerator()
	url, err := h.calendar.AuthorizationURL(state)
	if err != nil {
		logger.ErrorContext(r.Context(), "authorization url failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	logger.InfoContext(r.Context(), "redirecting to provider")
	http.Redirect(w, r, url, http.StatusFound)
}

// CalendarCallback finishes the OAuth flow: it verifies the state cookie and
// exchanges the code for tokens stored on the caller's account.
func (h *AuthHandler) CalendarCallback(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.calendar == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "CalendarCallback", "principal_id", principal.UserID)

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		logger.ErrorContext(r.Context(), "state verification failed", "error_kind", "bad_request")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errOAuthStateMismatch)
		return
	}

	if err := h.calendar.CompleteConnection(r.Context(), principal, r.URL.Query().Get("code")); err != nil {
		logger.ErrorContext(r.Context(), "calendar connection failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	logger.InfoContext(r.Context(), "calendar connected")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, calendarConnectedResponse{Connected: true})
}

// CalendarStatus reports whether the caller has a calendar account connected,
// so the frontend can decide between showing the connect button and the
// scheduling setup.
func (h *AuthHandler) CalendarStatus(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.calendar == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	connected, err := h.calendar.IsConnected(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "CalendarStatus", "principal_id", principal.UserID).
			ErrorContext(r.Context(), "calendar status lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, calendarConnectedResponse{Connected: connected})
}

type calendarConnectedResponse struct {
	Connected bool `json:"connected"`
}
