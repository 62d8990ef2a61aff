package models

import (
	"github.com/storefront/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Name         string `gorm:"type:varchar(200);not null"`
	Phone        string `gorm:"type:varchar(50);not null;default:''"`
	Referral     string `gorm:"type:varchar(200);not null;default:''"`
	IsAdmin      bool   `gorm:"not null;default:false"`
	Approved     bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.BaseModel.ToDomain(),
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Name:         m.Name,
		Phone:        m.Phone,
		Referral:     m.Referral,
		IsAdmin:      m.IsAdmin,
		Approved:     m.Approved,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.Name = u.Name
	m.Phone = u.Phone
	m.Referral = u.Referral
	m.IsAdmin = u.IsAdmin
	m.Approved = u.Approved
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
