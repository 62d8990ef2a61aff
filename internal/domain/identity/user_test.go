package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMember(t *testing.T) {
	t.Run("creates unapproved member", func(t *testing.T) {
		u, err := NewMember("Sipho Dlamini", " Sipho@Example.com ", "082", "secret1", "Coach Mike")
		require.NoError(t, err)

		assert.Equal(t, "sipho@example.com", u.Email)
		assert.False(t, u.Approved)
		assert.False(t, u.IsAdmin)
		assert.False(t, u.CanLogin())
		assert.True(t, u.VerifyPassword("secret1"))
		assert.False(t, u.VerifyPassword("secret2"))
		assert.Equal(t, "Sipho", u.FirstName())
	})

	t.Run("requires referral", func(t *testing.T) {
		_, err := NewMember("Sipho", "sipho@example.com", "", "secret1", "  ")
		assert.ErrorIs(t, err, ErrReferralRequired)
	})

	t.Run("requires six character password", func(t *testing.T) {
		_, err := NewMember("Sipho", "sipho@example.com", "", "12345", "ref")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 6")
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		_, err := NewMember("Sipho", "not-an-email", "", "secret1", "ref")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email")
	})
}

func TestUser_Approve(t *testing.T) {
	u, err := NewMember("Lerato", "lerato@example.com", "", "secret1", "ref")
	require.NoError(t, err)

	u.Approve()
	assert.True(t, u.CanLogin())
}

func TestNewAdmin(t *testing.T) {
	u, err := NewAdmin("Ops", "ops@example.com", "adminpass")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
	assert.True(t, u.CanLogin())
}
