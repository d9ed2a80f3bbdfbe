// Package app is the service layer: document lifecycle, bounded version
// history, collaborator management, and the user registry, orchestrated over
// a pluggable store backend.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kirokumd/api/internal/auth"
	"kirokumd/api/internal/authpw"
	"kirokumd/api/internal/config"
	"kirokumd/api/internal/store"
	"kirokumd/api/internal/util"
)

// sessionStore holds refresh tokens, keyed by token hash.
type sessionStore interface {
	Save(ctx context.Context, tokenHash string, user store.AppUser, expiresAt time.Time) error
	Lookup(ctx context.Context, tokenHash string) (store.AppUser, error)
	Revoke(ctx context.Context, tokenHash string) error
	Ping(ctx context.Context) error
}

type Service struct {
	cfg       config.Config
	store     store.Store
	sessions  sessionStore
	passwords *authpw.Service
}

func New(cfg config.Config, st store.Store, sessions sessionStore) *Service {
	return &Service{
		cfg:       cfg,
		store:     st,
		sessions:  sessions,
		passwords: authpw.NewService(st),
	}
}

// Session is a signed-in user's token pair plus the identity the UI needs.
type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	Email        string
	DisplayName  string
	Role         store.UserRole
	Status       store.ApprovalStatus
	ExpiresAt    time.Time
}

func (s *Service) SignUp(ctx context.Context, req authpw.SignUpRequest) (Session, error) {
	user, err := s.passwords.SignUp(ctx, req)
	if err != nil {
		return Session{}, mapAuthErr(err)
	}
	return s.issueSession(ctx, user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	user, err := s.passwords.SignIn(ctx, email, password)
	if err != nil {
		return Session{}, mapAuthErr(err)
	}
	return s.issueSession(ctx, user)
}

func mapAuthErr(err error) error {
	switch {
	case errors.Is(err, authpw.ErrInvalidCredentials):
		return errUnauthorized("Invalid email or password")
	case errors.Is(err, authpw.ErrAccountRejected):
		return errAccessDenied()
	case errors.Is(err, authpw.ErrEmailTaken),
		errors.Is(err, authpw.ErrPasswordMismatch),
		errors.Is(err, authpw.ErrPasswordTooShort),
		errors.Is(err, authpw.ErrMissingFields):
		return errValidation(err.Error())
	default:
		return errStore(err)
	}
}

func (s *Service) issueSession(ctx context.Context, user store.AppUser) (Session, error) {
	expiresAt := time.Now().Add(s.cfg.AccessTTL)
	token, err := auth.IssueToken([]byte(s.cfg.JWTSecret), auth.Claims{
		Sub:   user.UID,
		Email: user.Email,
		Role:  string(user.Role),
		JTI:   util.NewID(""),
		Exp:   expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}

	refreshToken := util.NewID("")
	refreshExpiry := time.Now().Add(s.cfg.RefreshTTL)
	if err := s.sessions.Save(ctx, auth.HashToken(refreshToken), user, refreshExpiry); err != nil {
		return Session{}, errStore(err)
	}

	return Session{
		Token:        token,
		RefreshToken: refreshToken,
		UserID:       user.UID,
		Email:        user.Email,
		DisplayName:  user.DisplayName,
		Role:         user.Role,
		Status:       user.Status,
		ExpiresAt:    expiresAt,
	}, nil
}

// SessionFromToken validates an access token and resolves the current account
// state. Role and status are re-read from the store so an approval or
// rejection takes effect without waiting for token expiry.
func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.JWTSecret), token)
	if err != nil {
		return Session{}, errUnauthorized("Invalid or expired token")
	}
	user, err := s.store.GetUser(ctx, claims.Sub)
	if err != nil {
		return Session{}, wrapStoreErr(err, "user")
	}
	if user.Status == store.StatusRejected {
		return Session{}, errAccessDenied()
	}
	return Session{
		Token:       token,
		UserID:      user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		Status:      user.Status,
		ExpiresAt:   time.Unix(claims.Exp, 0),
	}, nil
}

// Refresh rotates an access token from a refresh token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	cached, err := s.sessions.Lookup(ctx, auth.HashToken(refreshToken))
	if err != nil {
		return Session{}, errUnauthorized("Invalid refresh token")
	}
	user, err := s.store.GetUser(ctx, cached.UID)
	if err != nil {
		return Session{}, wrapStoreErr(err, "user")
	}
	if user.Status == store.StatusRejected {
		return Session{}, errAccessDenied()
	}
	session, err := s.issueSession(ctx, user)
	if err != nil {
		return Session{}, err
	}
	// Rotation: the old refresh token dies with the new issue.
	_ = s.sessions.Revoke(ctx, auth.HashToken(refreshToken))
	return session, nil
}

func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, auth.HashToken(refreshToken)); err != nil {
		return errStore(err)
	}
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) PingSessions(ctx context.Context) error {
	return s.sessions.Ping(ctx)
}
