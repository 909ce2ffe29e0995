package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/cdms/clinic-system/internal/core/domain"
	"github.com/cdms/clinic-system/internal/core/ports"
)

// AuthService implements registration, login and the token lifecycle.
type AuthService struct {
	users     ports.UserRepository
	blacklist ports.TokenBlacklist
	tokens    *TokenIssuer
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAuthService(users ports.UserRepository, blacklist ports.TokenBlacklist, tokens *TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		blacklist: blacklist,
		tokens:    tokens,
		logger:    logger,
		now:       time.Now,
	}
}

// Register creates a solo doctor account. Role and clinic cannot be chosen by
// the registrant.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	user, err := s.newUser(in)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user registered")
	return user, nil
}

// CreateSuperuser creates an account that bypasses clinic scoping.
func (s *AuthService) CreateSuperuser(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	user, err := s.newUser(in)
	if err != nil {
		return nil, err
	}
	user.IsSuperuser = true
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("superuser created")
	return user, nil
}

func (s *AuthService) newUser(in ports.RegisterInput) (*domain.User, error) {
	if strings.TrimSpace(in.Username) == "" {
		return nil, domain.NewValidationError("username", "this field is required")
	}
	if in.Password == "" {
		return nil, domain.NewValidationError("password", "this field is required")
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Role:         domain.RoleDoctor,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}, nil
}

// Login verifies credentials and issues an access/refresh pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.TokenPair, *domain.User, error) {
	if username == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(user, TokenTypeAccess)
	if err != nil {
		return nil, nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.tokens.Issue(user, TokenTypeRefresh)
	if err != nil {
		return nil, nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &ports.TokenPair{Access: access, Refresh: refresh}, user, nil
}

// Refresh exchanges a live refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return "", domain.ErrInvalidToken
	}

	user, err := s.activeUser(ctx, claims)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(user, TokenTypeAccess)
}

// Logout blacklists a refresh token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return domain.ErrInvalidRefreshToken
	}
	claims, err := s.tokens.Parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return domain.ErrInvalidRefreshToken
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return domain.ErrInvalidRefreshToken
	}
	userID, _ := claims.UserID()
	if err := s.blacklist.Revoke(ctx, claims.ID, userID, s.tokens.remaining(claims)); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	s.logger.Info().Str("user_id", userID.String()).Str("jti", claims.ID).Msg("refresh token revoked")
	return nil
}

// Authenticate resolves an access token to the principal of its account. The
// account is reloaded so role and clinic changes apply immediately.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (domain.Principal, error) {
	claims, err := s.tokens.Parse(accessToken, TokenTypeAccess)
	if err != nil {
		return domain.Anonymous(), err
	}
	user, err := s.activeUser(ctx, claims)
	if err != nil {
		return domain.Anonymous(), err
	}
	return domain.PrincipalFor(user), nil
}

func (s *AuthService) activeUser(ctx context.Context, claims *TokenClaims) (*domain.User, error) {
	id, err := claims.UserID()
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.NewValidationError("password", "must be at most 72 bytes")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
