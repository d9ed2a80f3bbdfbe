// Package authpw provides email/password authentication over the user store.
package authpw

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"kirokumd/api/internal/store"
	"kirokumd/api/internal/util"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrMissingFields      = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountRejected    = errors.New("account has been rejected")
)

// UserStore is the slice of the store this service needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (store.AppUser, error)
	CountUsers(ctx context.Context) (int, error)
	InsertUser(ctx context.Context, u store.AppUser) error
	GetUser(ctx context.Context, uid string) (store.AppUser, error)
}

type Service struct {
	store UserStore
}

func NewService(store UserStore) *Service {
	return &Service{store: store}
}

type SignUpRequest struct {
	Email           string
	Password        string
	ConfirmPassword string
	DisplayName     string
}

// NormalizeEmail trims and lower-cases an email for storage and comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates an account. The first account ever registered is bootstrapped
// as an approved admin; everyone after starts as a pending owner awaiting
// admin action. The existence check and the insert are not one atomic step; a
// concurrent cold-start double-signup could race, which is accepted since it
// can only happen once in a deployment's lifetime.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (store.AppUser, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return store.AppUser{}, ErrMissingFields
	}
	if req.Password != req.ConfirmPassword {
		return store.AppUser{}, ErrPasswordMismatch
	}
	if len(req.Password) < 8 {
		return store.AppUser{}, ErrPasswordTooShort
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return store.AppUser{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return store.AppUser{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return store.AppUser{}, fmt.Errorf("hash password: %w", err)
	}

	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return store.AppUser{}, fmt.Errorf("count users: %w", err)
	}
	isFirstUser := count == 0

	user := store.AppUser{
		UID:          util.NewID("usr"),
		Email:        email,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: string(hash),
		Role:         store.RoleOwner,
		Status:       store.StatusPending,
	}
	if isFirstUser {
		now := time.Now()
		user.Role = store.RoleAdmin
		user.Status = store.StatusApproved
		user.ApprovedBy = "system"
		// Non-nil ApprovedAt tells the backend to stamp approval at insert;
		// the server clock wins over this value.
		user.ApprovedAt = &now
	}

	if err := s.store.InsertUser(ctx, user); err != nil {
		return store.AppUser{}, fmt.Errorf("insert user: %w", err)
	}
	return s.reload(ctx, user)
}

// SignIn verifies credentials. Rejected accounts are refused outright;
// pending accounts may sign in but are gated from creating documents.
func (s *Service) SignIn(ctx context.Context, email, password string) (store.AppUser, error) {
	user, err := s.store.GetUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return store.AppUser{}, ErrInvalidCredentials
	}
	if err != nil {
		return store.AppUser{}, fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return store.AppUser{}, ErrInvalidCredentials
	}
	if user.Status == store.StatusRejected {
		return store.AppUser{}, ErrAccountRejected
	}
	return user, nil
}

func (s *Service) reload(ctx context.Context, user store.AppUser) (store.AppUser, error) {
	stored, err := s.store.GetUser(ctx, user.UID)
	if err != nil {
		// The insert succeeded; return what we wrote.
		return user, nil
	}
	return stored, nil
}
