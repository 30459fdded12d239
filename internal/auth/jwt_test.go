package auth_test

import (
	"os"
	"testing"

	"taskmarket/internal/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAndParseToken(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")

	userID := uuid.New().String()

	token, err := auth.GenerateToken(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedID, err := auth.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, parsedID)
}

func TestParseToken_Garbage(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")

	_, err := auth.ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	token, err := auth.GenerateToken(uuid.New().String())
	assert.NoError(t, err)

	os.Setenv("JWT_SECRET", "another-secret")
	_, err = auth.ParseToken(token)
	assert.Error(t, err)
}
