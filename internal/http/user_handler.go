package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/larissabakken/uncomplicated-scheduling/internal/application"
)

type userService interface {
	Register(ctx context.Context, params application.RegisterParams) (application.User, error)
	UpdateProfile(ctx context.Context, params application.UpdateProfileParams) (application.User, error)
}

type sessionIssuer interface {
	IssueSession(ctx context.Context, userID string) (application.Session, error)
}

type intervalService interface {
	SetWeeklyIntervals(ctx context.Context, params application.SetIntervalsParams) ([]application.TimeInterval, error)
}

// UserHandler serves registration, profile, and availability interval endpoints.
type UserHandler struct {
	users     userService
	sessions  sessionIssuer
	intervals intervalService
	responder responder
	logger    *slog.Logger
}

// NewUserHandler wires the user facing endpoints.
func NewUserHandler(users userService, sessions sessionIssuer, intervals intervalService, logger *slog.Logger) *UserHandler {
	base := defaultLogger(logger)
	return &UserHandler{
		users:     users,
		sessions:  sessions,
		intervals: intervals,
		responder: newResponder(base),
		logger:    base,
	}
}

func (h *UserHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "UserHandler", operation, attrs...)
}

// Register claims a username and issues the first session for the new account.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.users == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Register", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode register request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Register", "username", req.Username)

	user, err := h.users.Register(r.Context(), application.RegisterParams{
		Input: application.UserInput{Username: req.Username, Name: req.Name},
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "registration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	response := registerResponse{User: toUserDTO(user)}
	if h.sessions != nil {
		session, err := h.sessions.IssueSession(r.Context(), user.ID)
		if err != nil {
			logger.ErrorContext(r.Context(), "session issuance after registration failed", "error", err, "error_kind", application.ErrorKind(err))
			h.responder.handleServiceError(r.Context(), w, err)
			return
		}
		response.Token = session.Token
		response.ExpiresAt = session.ExpiresAt.UTC().Format(time.RFC3339Nano)
	}

	logger.With("user_id", user.ID).InfoContext(r.Context(), "user registered")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, response)
}

// UpdateProfile stores the caller's bio.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.users == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "UpdateProfile", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode profile update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "UpdateProfile", "principal_id", principal.UserID)

	user, err := h.users.UpdateProfile(r.Context(), application.UpdateProfileParams{
		Principal: principal,
		Bio:       req.Bio,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "profile update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "profile updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, userResponse{User: toUserDTO(user)})
}

// SetTimeIntervals replaces the caller's weekly availability windows.
func (h *UserHandler) SetTimeIntervals(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.intervals == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req timeIntervalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "SetTimeIntervals", "principal_id", principal.UserID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode intervals request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SetTimeIntervals", "principal_id", principal.UserID, "interval_count", len(req.Intervals))

	inputs := make([]application.IntervalInput, 0, len(req.Intervals))
	for _, interval := range req.Intervals {
		inputs = append(inputs, application.IntervalInput{
			Weekday:   interval.WeekDay,
			StartTime: interval.StartTime,
			EndTime:   interval.EndTime,
		})
	}

	stored, err := h.intervals.SetWeeklyIntervals(r.Context(), application.SetIntervalsParams{
		Principal: principal,
		Intervals: inputs,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "interval update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "intervals replaced")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, timeIntervalsResponse{Intervals: toIntervalDTOs(stored)})
}

type registerRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

type registerResponse struct {
	User      userDTO `json:"user"`
	Token     string  `json:"token,omitempty"`
	ExpiresAt string  `json:"expiresAt,omitempty"`
}

type updateProfileRequest struct {
	Bio string `json:"bio"`
}

type userResponse struct {
	User userDTO `json:"user"`
}

type userDTO struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Name      string  `json:"name"`
	Email     *string `json:"email,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func toUserDTO(user application.User) userDTO {
	return userDTO{
		ID:        user.ID,
		Username:  user.Username,
		Name:      user.Name,
		Email:     user.Email,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: user.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

type timeIntervalsRequest struct {
	Intervals []timeIntervalInput `json:"intervals"`
}

type timeIntervalInput struct {
	WeekDay   int    `json:"weekDay"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type timeIntervalsResponse struct {
	Intervals []timeIntervalDTO `json:"intervals"`
}

type timeIntervalDTO struct {
	ID                 string `json:"id"`
	WeekDay            int    `json:"weekDay"`
	TimeStartInMinutes int    `json:"timeStartInMinutes"`
	TimeEndInMinutes   int    `json:"timeEndInMinutes"`
}

func toIntervalDTOs(intervals []application.TimeInterval) []timeIntervalDTO {
	out := make([]timeIntervalDTO, 0, len(intervals))
	for _, interval := range intervals {
		out = append(out, timeIntervalDTO{
			ID:                 interval.ID,
			WeekDay:            int(interval.Weekday),
			TimeStartInMinutes: interval.StartMinute,
			TimeEndInMinutes:   interval.EndMinute,
		})
	}
	return out
}

func trimmedPathValue(r *http.Request, key string) string {
	return strings.TrimSpace(pathParam(r, key))
}
