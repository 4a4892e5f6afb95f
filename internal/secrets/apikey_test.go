package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestGetLLMAPIKey_EnvWins(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, SetLLMAPIKey("from-keychain"))
	t.Setenv(LLMKeyEnv, "  from-env ")

	k, err := GetLLMAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "from-env", k)
}

func TestGetLLMAPIKey_KeychainFallback(t *testing.T) {
	keyring.MockInit()
	t.Setenv(LLMKeyEnv, "")

	_, err := GetLLMAPIKey()
	assert.ErrorIs(t, err, ErrNoAPIKey)

	require.NoError(t, SetLLMAPIKey("abc"))
	k, err := GetLLMAPIKey()
	require.NoError(t, err)
	assert.Equal(t, "abc", k)

	require.NoError(t, DeleteLLMAPIKey())
	require.NoError(t, DeleteLLMAPIKey())
	_, err = GetLLMAPIKey()
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestSetLLMAPIKey_RejectsEmpty(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, SetLLMAPIKey("  "))
}
