package setting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAllowedKey(t *testing.T) {
	assert.True(t, IsAllowedKey(KeyGlobalMarkup))
	assert.True(t, IsAllowedKey(KeySupplierEmail))
	assert.True(t, IsAllowedKey(KeySupplierPassword))
	assert.False(t, IsAllowedKey("smtp_password"))
	assert.False(t, IsAllowedKey(""))
}

func TestIsSecretKey(t *testing.T) {
	assert.True(t, IsSecretKey(KeySupplierPassword))
	assert.False(t, IsSecretKey(KeySupplierEmail))
}
