package identity

import (
	"context"
	"testing"
	"time"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMemberService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := NewMemberService(repo, auth.NewInMemoryTokenBlacklist(), time.Hour, nil)

	m := newMember(t, false)
	repo.On("ListMembers", ctx).Return([]identity.MemberSummary{
		{User: *m, OrderCount: 3, CompletedOrders: 1, PendingOrders: 2, TotalSpent: "1250"},
	}, nil)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "lerato@example.com", list[0].Email)
	assert.Equal(t, "Coach Sipho", list[0].Referral)
	assert.Equal(t, 3, list[0].OrderCount)
	assert.Equal(t, "1250", list[0].TotalSpent)
}

func TestMemberService_Approve(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := NewMemberService(repo, auth.NewInMemoryTokenBlacklist(), time.Hour, nil)

	m := newMember(t, false)
	repo.On("FindByID", ctx, m.ID).Return(m, nil)
	repo.On("Save", ctx, m).Return(nil)

	info, err := svc.Approve(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, info.Approved)
	assert.True(t, m.CanLogin())
}

func TestMemberService_Reject(t *testing.T) {
	ctx := context.Background()
	blacklist := auth.NewInMemoryTokenBlacklist()
	repo := new(MockUserRepository)
	svc := NewMemberService(repo, blacklist, time.Hour, nil)

	m := newMember(t, true)
	issuedBefore := time.Now().Add(-time.Minute)
	repo.On("FindByID", ctx, m.ID).Return(m, nil)
	repo.On("Delete", ctx, m.ID).Return(nil)

	require.NoError(t, svc.Reject(ctx, m.ID))

	revoked, err := blacklist.IsUserRevoked(ctx, m.ID.String(), issuedBefore)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemberService_RejectAdmin(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	svc := NewMemberService(repo, auth.NewInMemoryTokenBlacklist(), time.Hour, nil)

	admin, err := identity.NewAdmin("Owner", "owner@example.com", "adminpw")
	require.NoError(t, err)
	repo.On("FindByID", ctx, admin.ID).Return(admin, nil)

	assert.ErrorIs(t, svc.Reject(ctx, admin.ID), identity.ErrCannotRemoveAdmin)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
