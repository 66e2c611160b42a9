// Package secrets stores provider API keys in the system keyring, with the
// config file holding a placeholder instead of the key. When no keyring is
// available the caller falls back to plaintext config storage.
package secrets

import (
	"fmt"

	"github.com/zalando/go-keyring"

	"promptshell/internal/config"
)

// ServiceName identifies PromptShell entries in the system keyring.
const ServiceName = "PromptShell"

// store abstracts the keyring so tests can swap in a fake.
type store interface {
	Set(service, user, password string) error
	Get(service, user string) (string, error)
	Delete(service, user string) error
}

type systemKeyring struct{}

func (systemKeyring) Set(service, user, password string) error {
	return keyring.Set(service, user, password)
}
func (systemKeyring) Get(service, user string) (string, error) { return keyring.Get(service, user) }
func (systemKeyring) Delete(service, user string) error        { return keyring.Delete(service, user) }

var backend store = systemKeyring{}

// SetAPIKey stores an API key for a provider in the keyring.
func SetAPIKey(provider, apiKey string) error {
	if err := backend.Set(ServiceName, provider, apiKey); err != nil {
		return fmt.Errorf("secure storage failed: %w", err)
	}
	return nil
}

// GetAPIKey retrieves an API key from the keyring. Returns an empty string
// when no entry exists.
func GetAPIKey(provider string) (string, error) {
	key, err := backend.Get(ServiceName, provider)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", nil
		}
		return "", fmt.Errorf("secure retrieval failed: %w", err)
	}
	return key, nil
}

// DeleteAPIKey removes a provider's key from the keyring.
func DeleteAPIKey(provider string) error {
	if err := backend.Delete(ServiceName, provider); err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("secure delete failed: %w", err)
	}
	return nil
}

// ResolveKey turns the stored config value for a provider into a usable key.
// Placeholder values are resolved through the keyring; anything else is a
// plaintext fallback and returned as-is.
func ResolveKey(cfg *config.Config, provider string) (string, error) {
	stored := cfg.KeyFor(provider)
	if stored != config.SecurePlaceholder {
		return stored, nil
	}
	return GetAPIKey(provider)
}

// MigrateConfigKeys moves plaintext keys from the config into the keyring,
// replacing them with the placeholder. Reports whether anything changed;
// providers whose keyring write fails keep their plaintext value.
func MigrateConfigKeys(cfg *config.Config) bool {
	migrated := false
	for _, provider := range config.Providers() {
		key := cfg.KeyFor(provider)
		if key == "" || key == config.SecurePlaceholder {
			continue
		}
		if err := SetAPIKey(provider, key); err != nil {
			continue
		}
		cfg.SetKey(provider, config.SecurePlaceholder)
		migrated = true
	}
	return migrated
}
