package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// TokenIssuer signs bearer tokens
type TokenIssuer interface {
	IssueToken(input auth.TokenInput) (*auth.Token, error)
}

// AuthService handles registration and authentication
type AuthService struct {
	userRepo  identity.UserRepository
	tokens    TokenIssuer
	blacklist auth.TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	tokens TokenIssuer,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		blacklist: blacklist,
		logger:    logger,
	}
}

// Register creates an unapproved member account
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserInfo, error) {
	user, err := identity.NewMember(input.Name, input.Email, input.Phone, input.Password, input.Referral)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, identity.ErrEmailTaken
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, identity.ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("Member registered, awaiting approval",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	info := ToUserInfo(user)
	return &info, nil
}

// Login authenticates a user and returns a bearer token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, identity.ErrUserNotFound) || errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email", zap.String("email", input.Email))
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, identity.ErrInvalidCredentials
	}

	if !user.CanLogin() {
		s.logger.Info("Login attempt for unapproved member", zap.String("user_id", user.ID.String()))
		return nil, identity.ErrAccountPendingApproval
	}

	token, err := s.tokens.IssueToken(auth.TokenInput{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		IsAdmin: user.IsAdmin,
	})
	if err != nil {
		s.logger.Error("Failed to issue token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.Bool("admin", user.IsAdmin))

	return &LoginResult{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		User:        ToUserInfo(user),
	}, nil
}

// Logout revokes the presented token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, jti string, remaining time.Duration) error {
	if jti == "" || remaining <= 0 {
		return nil
	}
	return s.blacklist.Revoke(ctx, jti, remaining)
}

// CurrentUser returns the signed-in user's profile
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

// EnsureAdmin creates the bootstrap administrator when the email is not yet registered
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	admin, err := identity.NewAdmin(name, email, password)
	if err != nil {
		return err
	}
	exists, err := s.userRepo.ExistsByEmail(ctx, admin.Email)
	if err != nil || exists {
		return err
	}
	if err := s.userRepo.Save(ctx, admin); err != nil {
		return err
	}
	s.logger.Info("Bootstrap administrator created", zap.String("email", admin.Email))
	return nil
}
