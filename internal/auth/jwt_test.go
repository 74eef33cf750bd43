package auth

import (
	"testing"

	"freshtrack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func testUser() *model.User {
	return &model.User{
		ID:       42,
		Username: "alice",
		Role:     model.RoleAdmin,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(testSecret, testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(testSecret, token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID, "token must carry a JTI for revocation")
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, testUser())
	require.NoError(t, err)

	_, err = ValidateToken("other-secret", token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken(testSecret, "not.a.token")
	assert.Error(t, err)
}

func TestGenerateToken_UniqueJTI(t *testing.T) {
	first, err := GenerateToken(testSecret, testUser())
	require.NoError(t, err)
	second, err := GenerateToken(testSecret, testUser())
	require.NoError(t, err)

	firstClaims, err := ValidateToken(testSecret, first)
	require.NoError(t, err)
	secondClaims, err := ValidateToken(testSecret, second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
