package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// MemberService lets operators review member registrations
type MemberService struct {
	userRepo  identity.UserRepository
	blacklist auth.TokenBlacklist
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewMemberService creates a new MemberService. tokenTTL bounds how long a
// rejected member's revocation must be remembered.
func NewMemberService(userRepo identity.UserRepository, blacklist auth.TokenBlacklist, tokenTTL time.Duration, logger *zap.Logger) *MemberService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemberService{userRepo: userRepo, blacklist: blacklist, tokenTTL: tokenTTL, logger: logger}
}

// List returns all members with their order statistics, newest first
func (s *MemberService) List(ctx context.Context) ([]MemberResponse, error) {
	members, err := s.userRepo.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MemberResponse, len(members))
	for i := range members {
		out[i] = toMemberResponse(&members[i])
	}
	return out, nil
}

// Approve lets a member sign in
func (s *MemberService) Approve(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Approved {
		info := ToUserInfo(user)
		return &info, nil
	}
	user.Approve()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("Member approved", zap.String("user_id", userID.String()), zap.String("email", user.Email))
	info := ToUserInfo(user)
	return &info, nil
}

// Reject deletes a member account. Admin accounts cannot be rejected.
func (s *MemberService) Reject(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		return identity.ErrCannotRemoveAdmin
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	if err := s.blacklist.RevokeUser(ctx, userID.String(), s.tokenTTL); err != nil {
		s.logger.Warn("Failed to revoke tokens of rejected member", zap.String("user_id", userID.String()), zap.Error(err))
	}
	s.logger.Info("Member rejected", zap.String("user_id", userID.String()), zap.String("email", user.Email))
	return nil
}
