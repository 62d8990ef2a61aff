package identity

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

const minPasswordLength = 6

// Identity errors
var (
	ErrUserNotFound           = shared.NewDomainError("USER_NOT_FOUND", "User not found")
	ErrEmailTaken             = shared.NewDomainError("EMAIL_TAKEN", "Email already registered")
	ErrInvalidCredentials     = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid credentials")
	ErrAccountPendingApproval = shared.NewDomainError("ACCOUNT_PENDING_APPROVAL", "Your account is pending approval. You'll receive an email once approved.")
	ErrReferralRequired       = shared.NewDomainError("REFERRAL_REQUIRED", "A referral is required to register")
	ErrCannotRemoveAdmin      = shared.NewDomainError("CANNOT_REMOVE_ADMIN", "Admin accounts cannot be rejected")
)

// User is a storefront account. Members need operator approval before they can
// sign in; admins can always sign in.
type User struct {
	shared.BaseEntity
	Email        string
	PasswordHash string
	Name         string
	Phone        string
	Referral     string
	IsAdmin      bool
	Approved     bool
}

// NewMember registers an unapproved member
func NewMember(name, email, phone, password, referral string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	referral = strings.TrimSpace(referral)
	if referral == "" {
		return nil, ErrReferralRequired
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Phone:        strings.TrimSpace(phone),
		Referral:     referral,
	}, nil
}

// NewAdmin creates an approved administrator
func NewAdmin(name, email, password string) (*User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		IsAdmin:      true,
		Approved:     true,
	}, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// CanLogin reports whether the account may sign in
func (u *User) CanLogin() bool {
	return u.IsAdmin || u.Approved
}

// Approve grants access to a member
func (u *User) Approve() {
	u.Approved = true
	u.Touch()
}

// FirstName returns the first word of the name
func (u *User) FirstName() string {
	if f := strings.Fields(u.Name); len(f) > 0 {
		return f[0]
	}
	return u.Name
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(email) > 200 {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return email, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 6 characters")
	}
	if len(password) > 72 {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return string(hash), nil
}

// MemberSummary is a member with order statistics for the admin list
type MemberSummary struct {
	User            User
	OrderCount      int
	CompletedOrders int
	PendingOrders   int
	TotalSpent      string
}

// UserRepository persists users
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ListMembers returns non-admin users with order statistics, newest first
	ListMembers(ctx context.Context) ([]MemberSummary, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
