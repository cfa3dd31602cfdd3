package utils

import (
	"testing"
	"time"

	"socialnet/internal/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndParseToken(t *testing.T) {
	config.GlobalConfig.JWT.Secret = "test-secret-key-0123456789-0123456789"
	config.GlobalConfig.JWT.Expire = 1

	token, expireAt, err := GenerateToken("alice")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expireAt.After(time.Now()))

	claims, err := ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	config.GlobalConfig.JWT.Secret = "test-secret-key-0123456789-0123456789"

	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongKey(t *testing.T) {
	config.GlobalConfig.JWT.Secret = "test-secret-key-0123456789-0123456789"
	token, _, err := GenerateToken("alice")
	assert.NoError(t, err)

	config.GlobalConfig.JWT.Secret = "another-secret-key-9876543210-987654"
	defer func() {
		config.GlobalConfig.JWT.Secret = "test-secret-key-0123456789-0123456789"
	}()

	_, err = ParseToken(token)
	assert.Error(t, err)
}
