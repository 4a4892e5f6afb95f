package secrets

import (
	"errors"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// “Service” groups the app's secrets in the OS keychain.
	KeyringService = "jobfinder"

	LLMKeyringAccount = "jobfinder:gemini:api_key"
	LLMKeyEnv         = "GEMINI_API_KEY"
)

var ErrNoAPIKey = errors.New("gemini api key not found (set GEMINI_API_KEY or store it in the keychain)")

// GetLLMAPIKey checks the environment first, then the OS keychain.
func GetLLMAPIKey() (string, error) {
	if k := strings.TrimSpace(os.Getenv(LLMKeyEnv)); k != "" {
		return k, nil
	}
	k, err := keyring.Get(KeyringService, LLMKeyringAccount)
	if err == nil && strings.TrimSpace(k) != "" {
		return strings.TrimSpace(k), nil
	}
	return "", ErrNoAPIKey
}

func SetLLMAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, LLMKeyringAccount, strings.TrimSpace(key))
}

func DeleteLLMAPIKey() error {
	err := keyring.Delete(KeyringService, LLMKeyringAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
