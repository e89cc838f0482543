package credstore

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	service = "dirportal-cli"
)

// keyringKey returns a unique key for storing tokens per server
func keyringKey(serverURL string) string {
	return fmt.Sprintf("token-%s", serverURL)
}

// SaveToken persists the bearer token securely in the OS keychain/credential manager
func SaveToken(serverURL, token string) error {
	if err := keyring.Set(service, keyringKey(serverURL), token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// LoadToken retrieves the bearer token from the OS keychain/credential
// manager. A missing token is not an error: it means "no session".
func LoadToken(serverURL string) (string, error) {
	token, err := keyring.Get(service, keyringKey(serverURL))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

// DeleteToken removes the bearer token from the OS keychain/credential manager
func DeleteToken(serverURL string) error {
	if err := keyring.Delete(service, keyringKey(serverURL)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
