package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/task-gamification/internal"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	GetAccountByID(ctx context.Context, id int64) (*Account, error)
	CreateAccount(ctx context.Context, account *Account) error
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	SignUp(ctx context.Context, dto SignupDTO) (*Account, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Session, error)
}

// Service is the main auth service with dependencies
type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(repo RepositoryAPI, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return AuthTokens{}, appErr
	}

	account, err := s.repo.GetAccountByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return AuthTokens{}, internal.ErrInvalidCredentials
		}
		return AuthTokens{}, internal.NewInternalError("failed to load account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	s.logger.InfoContext(ctx, "user signed in", "user_id", account.ID, "role", account.Role)
	return s.issue(account.Session())
}

// SignUp registers a new employee account.
func (s *Service) SignUp(ctx context.Context, dto SignupDTO) (*Account, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	existing, err := s.repo.GetAccountByEmail(ctx, dto.Email)
	if err != nil && !errors.Is(err, internal.ErrUserNotFound) {
		return nil, internal.NewInternalError("failed to look up account", err)
	}
	if existing != nil {
		return nil, internal.ErrUserExists
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	account := &Account{
		Name:         dto.Name,
		Email:        dto.Email,
		Role:         RoleEmployee,
		PasswordHash: hash,
	}
	if err := s.repo.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, internal.ErrUserExists) {
			return nil, internal.ErrUserExists
		}
		return nil, internal.NewInternalError("failed to create account", err)
	}

	s.logger.InfoContext(ctx, "user signed up", "user_id", account.ID)
	return account, nil
}

// RefreshTokens validates refresh token and returns new tokens. Claims are
// rebuilt from storage so role and points changes reach the new token.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	account, err := s.repo.GetAccountByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return AuthTokens{}, internal.ErrInvalidToken
		}
		return AuthTokens{}, internal.NewInternalError("failed to load account", err)
	}

	return s.issue(account.Session())
}

// ValidateAccessToken validates access token and returns the session it carries
func (s *Service) ValidateAccessToken(tokenString string) (*Session, error) {
	if tokenString == "" {
		return nil, internal.ErrAuthenticationRequired
	}
	claims, err := s.tokenGenerator.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	return claims.Session(), nil
}

func (s *Service) issue(session *Session) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(session)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign access token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(session)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign refresh token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         session,
	}, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
