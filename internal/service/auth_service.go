package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/course-service/internal/auth"
	"github.com/spec-kit/course-service/internal/config"
	"github.com/spec-kit/course-service/internal/domain"
	"github.com/spec-kit/course-service/internal/repository"
	apperrors "github.com/spec-kit/course-service/pkg/util"
)

// ErrInvalidCredentials is the single failure every login miss maps to.
// Unknown email and wrong password are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService coordinates registration, login and token refresh for both
// identity kinds. Login resolves the email against the listener store first,
// then the specialist store; emails are unique across both, so the order
// only matters for determinism.
type AuthService struct {
	listeners   repository.ListenerRepository
	specialists repository.SpecialistRepository
	tokenMgr    *auth.TokenManager
	bcryptCost  int
}

// AuthDependencies encapsulates repo requirements for the auth service.
type AuthDependencies struct {
	ListenerRepo   repository.ListenerRepository
	SpecialistRepo repository.SpecialistRepository
}

// AuthResult bundles an authenticated identity with its minted tokens.
type AuthResult struct {
	SubjectID int64
	Role      domain.Role
	Name      string
	Email     string
	Tokens    *auth.TokenPair
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		listeners:   deps.ListenerRepo,
		specialists: deps.SpecialistRepo,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL()),
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// Register creates a new identity of the requested role. The email must be
// unique across both identity kinds.
func (s *AuthService) Register(ctx context.Context, role domain.Role, name, email, password string) (*AuthResult, error) {
	taken, err := s.emailTaken(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflict("email already registered", nil)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	var subjectID int64
	switch role {
	case domain.RoleListener:
		listener := &domain.Listener{Name: name, Email: email, PasswordHash: hash}
		if err := s.listeners.Create(ctx, listener); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, apperrors.NewConflict("email already registered", nil)
			}
			return nil, err
		}
		subjectID = listener.ID
	case domain.RoleSpecialist:
		specialist := &domain.Specialist{Name: name, Email: email, PasswordHash: hash}
		if err := s.specialists.Create(ctx, specialist); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, apperrors.NewConflict("email already registered", nil)
			}
			return nil, err
		}
		subjectID = specialist.ID
	default:
		return nil, apperrors.NewValidationError("unknown role", nil)
	}

	tokens, err := s.tokenMgr.GeneratePair(subjectID, role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{SubjectID: subjectID, Role: role, Name: name, Email: email, Tokens: tokens}, nil
}

// Login authenticates an email/password pair. Every miss, whether the email
// is unknown or the password wrong, returns ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if listener, err := s.listeners.GetByEmail(ctx, email); err == nil {
		if auth.ComparePassword(listener.PasswordHash, password) != nil {
			return nil, ErrInvalidCredentials
		}
		return s.mint(listener.ID, domain.RoleListener, listener.Name, listener.Email)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	specialist, err := s.specialists.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if auth.ComparePassword(specialist.PasswordHash, password) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.mint(specialist.ID, domain.RoleSpecialist, specialist.Name, specialist.Email)
}

// Refresh exchanges a valid refresh token for a fresh token pair. The
// identity is re-resolved so tokens for deleted accounts stop working at the
// next refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokenMgr.ParseToken(refreshToken)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}
	if claims.Kind != auth.TokenKindRefresh {
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}

	switch claims.Role {
	case domain.RoleListener:
		listener, err := s.listeners.GetByID(ctx, claims.SubjectID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewUnauthorized("invalid refresh token")
			}
			return nil, err
		}
		return s.mint(listener.ID, domain.RoleListener, listener.Name, listener.Email)
	case domain.RoleSpecialist:
		specialist, err := s.specialists.GetByID(ctx, claims.SubjectID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewUnauthorized("invalid refresh token")
			}
			return nil, err
		}
		return s.mint(specialist.ID, domain.RoleSpecialist, specialist.Name, specialist.Email)
	default:
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}
}

func (s *AuthService) mint(subjectID int64, role domain.Role, name, email string) (*AuthResult, error) {
	tokens, err := s.tokenMgr.GeneratePair(subjectID, role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{SubjectID: subjectID, Role: role, Name: name, Email: email, Tokens: tokens}, nil
}

func (s *AuthService) emailTaken(ctx context.Context, email string) (bool, error) {
	if _, err := s.listeners.GetByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}
	if _, err := s.specialists.GetByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}
	return false, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
