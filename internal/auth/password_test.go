package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashNeverEqualsPlaintext(t *testing.T) {
	h := NewPasswordHasherWithCost(bcrypt.MinCost)

	hash, err := h.Hash("longenough1")
	require.NoError(t, err)
	assert.NotEqual(t, "longenough1", hash)
	assert.NotContains(t, hash, "longenough1")
}

func TestPasswordHasher_SaltPerCall(t *testing.T) {
	h := NewPasswordHasherWithCost(bcrypt.MinCost)

	first, err := h.Hash("longenough1")
	require.NoError(t, err)
	second, err := h.Hash("longenough1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("longenough1", first))
	assert.True(t, h.Verify("longenough1", second))
}

func TestPasswordHasher_Verify(t *testing.T) {
	h := NewPasswordHasherWithCost(bcrypt.MinCost)
	hash, err := h.Hash("longenough1")
	require.NoError(t, err)

	tests := []struct {
		name      string
		plaintext string
		want      bool
	}{
		{"correct", "longenough1", true},
		{"wrong", "longenough2", false},
		{"empty", "", false},
		{"case differs", "LONGENOUGH1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.Verify(tt.plaintext, hash))
		})
	}
}

func TestPasswordHasher_VerifyGarbageHash(t *testing.T) {
	h := NewPasswordHasher()
	assert.False(t, h.Verify("anything", "not-a-bcrypt-hash"))
}
