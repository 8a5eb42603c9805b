package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// UserRepository captures the persistence operations needed by the user service.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
}

// UserService orchestrates validation and persistence for account owners.
type UserService struct {
	users       UserRepository
	idGenerator func() string
	now         func() time.Time
}

// NewUserService wires dependencies for the user service.
func NewUserService(users UserRepository, idGenerator func() string, now func() time.Time) *UserService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{users: users, idGenerator: idGenerator, now: now}
}

// Register claims a username and creates the account behind it.
func (s *UserService) Register(ctx context.Context, params RegisterParams) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	normalized := normalizeUserInput(params.Input)
	vErr := validateUserInput(normalized)
	if vErr.HasErrors() {
		return User{}, vErr
	}

	now := s.now()
	user := User{
		ID:        s.idGenerator(),
		Username:  normalized.Username,
		Name:      normalized.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			taken := &ValidationError{}
			taken.add("username", "username already taken")
			return User{}, taken
		}
		return User{}, err
	}

	return user, nil
}

// UpdateProfile updates the bio shown on the caller's public page.
func (s *UserService) UpdateProfile(ctx context.Context, params UpdateProfileParams) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if params.Principal.UserID == "" {
		return User{}, ErrUnauthorized
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	existing, err := s.users.GetUser(ctx, params.Principal.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrUnauthorized
		}
		return User{}, err
	}

	updated := existing
	bio := strings.TrimSpace(params.Bio)
	if bio == "" {
		updated.Bio = nil
	} else {
		updated.Bio = &bio
	}
	updated.UpdatedAt = s.now()

	if err := s.users.UpdateUser(ctx, updated); err != nil {
		return User{}, err
	}

	return updated, nil
}

// GetByUsername resolves the public profile behind a claimed username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func normalizeUserInput(input UserInput) UserInput {
	return UserInput{
		Username: strings.ToLower(strings.TrimSpace(input.Username)),
		Name:     strings.TrimSpace(input.Name),
	}
}

func validateUserInput(input UserInput) *ValidationError {
	vErr := &ValidationError{}

	switch {
	case input.Username == "":
		vErr.add("username", "username is required")
	case len(input.Username) < 3:
		vErr.add("username", "username needs at least 3 characters")
	case !validUsername(input.Username):
		vErr.add("username", "username may only contain letters, digits and hyphens")
	}

	if len(input.Name) < 3 {
		vErr.add("name", "name needs at least 3 characters")
	}

	return vErr
}

func validUsername(username string) bool {
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}
