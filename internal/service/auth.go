package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/watshodapay/watshodapay-go/internal/crypto"
	"github.com/watshodapay/watshodapay-go/internal/logger"
	"github.com/watshodapay/watshodapay-go/internal/model"
	"github.com/watshodapay/watshodapay-go/internal/repository"
)

// AuthService handles registration, authentication and token issuance.
type AuthService struct {
	users  repository.UserStore
	debts  *DebtService
	hasher *crypto.PasswordHasher
	tokens *crypto.TokenService

	absentOnce sync.Once
	absentHash string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserStore, debts *DebtService, hasher *crypto.PasswordHasher, tokens *crypto.TokenService) *AuthService {
	return &AuthService{users: users, debts: debts, hasher: hasher, tokens: tokens}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser stores a new user with a hashed password. A taken email fails
// with repository.ErrAlreadyExists.
func (s *AuthService) CreateUser(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	email := normalizeEmail(req.Email)
	switch {
	case email == "":
		return nil, ErrEmailRequired
	case req.Password == "":
		return nil, ErrPasswordRequired
	case strings.TrimSpace(req.Name) == "":
		return nil, ErrNameRequired
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, model.UserInput{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
	})
	if err != nil {
		return nil, err
	}
	logger.From(ctx).Info("user registered", logger.UserID(user.ID))
	return user, nil
}

// Register creates a user and returns a token for it.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	user, err := s.CreateUser(ctx, req)
	if err != nil {
		return model.AuthResponse{}, err
	}
	return s.issue(ctx, user)
}

// Authenticate returns the user owning email if password matches. Every
// failure, including storage errors, is reported as ErrAuthFailure.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetWhere(ctx, repository.Filter{"email": normalizeEmail(email)})
	if err != nil {
		logger.From(ctx).Error("user lookup failed during login", logger.Err(err))
		return nil, ErrAuthFailure
	}
	if user == nil {
		_, _ = s.hasher.Verify(password, s.absentUserHash())
		return nil, ErrAuthFailure
	}

	match, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		logger.From(ctx).Warn("stored password hash unreadable", logger.UserID(user.ID), logger.Err(err))
		return nil, ErrAuthFailure
	}
	if !match {
		return nil, ErrAuthFailure
	}
	return user, nil
}

// absentUserHash is the hash a password is checked against when no user
// owns the email, keeping that path as slow as a wrong password.
func (s *AuthService) absentUserHash() string {
	s.absentOnce.Do(func() {
		s.absentHash, _ = s.hasher.Hash(uuid.NewString())
	})
	return s.absentHash
}

// Login authenticates and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	user, err := s.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}
	return s.issue(ctx, user)
}

// GetUser returns the public view of userID, including the debt flags.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return model.UserResponse{}, err
	}
	return s.userResponse(ctx, user)
}

// Refresh re-issues a token for an already verified identity without
// touching storage.
func (s *AuthService) Refresh(id crypto.Identity) (string, time.Time, error) {
	return s.tokens.Issue(id, 0)
}

// Verify resolves a token to an identity; ok is false on any failure.
func (s *AuthService) Verify(token string) (crypto.Identity, bool) {
	return s.tokens.Verify(token)
}

func (s *AuthService) userResponse(ctx context.Context, user *model.User) (model.UserResponse, error) {
	summary, err := s.debts.Summary(ctx, user.ID)
	if err != nil {
		return model.UserResponse{}, err
	}
	return model.UserResponse{
		ID:               user.ID,
		Email:            user.Email,
		Name:             user.Name,
		HasExpiredDebts:  summary.HasExpired(),
		HasExpiringDebts: summary.HasExpiring(),
	}, nil
}

func (s *AuthService) issue(ctx context.Context, user *model.User) (model.AuthResponse, error) {
	resp, err := s.userResponse(ctx, user)
	if err != nil {
		return model.AuthResponse{}, err
	}

	token, expiresAt, err := s.tokens.Issue(crypto.Identity{
		ID:               user.ID,
		Email:            user.Email,
		Name:             user.Name,
		HasExpiredDebts:  resp.HasExpiredDebts,
		HasExpiringDebts: resp.HasExpiringDebts,
	}, 0)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{Token: token, ExpiresAt: expiresAt, User: resp}, nil
}

// IsAuthFailure reports whether err is ErrAuthFailure.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrAuthFailure)
}
