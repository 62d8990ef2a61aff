package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
)

// RegisterInput contains the input for member registration
type RegisterInput struct {
	Name     string `json:"name" binding:"required,max=200"`
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Phone    string `json:"phone" binding:"required,max=50"`
	Referral string `json:"referral" binding:"required,max=200"`
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"`
	User        UserInfo  `json:"user"`
}

// UserInfo contains basic user information
type UserInfo struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	FirstName string    `json:"first_name"`
	Phone     string    `json:"phone"`
	IsAdmin   bool      `json:"is_admin"`
	Approved  bool      `json:"approved"`
}

// MemberResponse is a member with order statistics for the admin list
type MemberResponse struct {
	UserInfo
	Referral        string    `json:"referral"`
	CreatedAt       time.Time `json:"created_at"`
	OrderCount      int       `json:"order_count"`
	CompletedOrders int       `json:"completed_orders"`
	PendingOrders   int       `json:"pending_orders"`
	TotalSpent      string    `json:"total_spent"`
}

// ToUserInfo converts a user to its public view
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		FirstName: u.FirstName(),
		Phone:     u.Phone,
		IsAdmin:   u.IsAdmin,
		Approved:  u.Approved,
	}
}

func toMemberResponse(m *identity.MemberSummary) MemberResponse {
	return MemberResponse{
		UserInfo:        ToUserInfo(&m.User),
		Referral:        m.User.Referral,
		CreatedAt:       m.User.CreatedAt,
		OrderCount:      m.OrderCount,
		CompletedOrders: m.CompletedOrders,
		PendingOrders:   m.PendingOrders,
		TotalSpent:      m.TotalSpent,
	}
}
