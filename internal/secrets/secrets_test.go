package secrets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"promptshell/internal/config"
)

// fakeStore is an in-memory keyring for tests.
type fakeStore struct {
	entries map[string]string
	failSet bool
}

func (f *fakeStore) key(service, user string) string { return service + "/" + user }

func (f *fakeStore) Set(service, user, password string) error {
	if f.failSet {
		return errors.New("no keyring available")
	}
	f.entries[f.key(service, user)] = password
	return nil
}

func (f *fakeStore) Get(service, user string) (string, error) {
	v, ok := f.entries[f.key(service, user)]
	if !ok {
		return "", keyring.ErrNotFound
	}
	return v, nil
}

func (f *fakeStore) Delete(service, user string) error {
	k := f.key(service, user)
	if _, ok := f.entries[k]; !ok {
		return keyring.ErrNotFound
	}
	delete(f.entries, k)
	return nil
}

func withFakeStore(t *testing.T, f *fakeStore) {
	t.Helper()
	old := backend
	backend = f
	t.Cleanup(func() { backend = old })
}

func TestSetGetDelete(t *testing.T) {
	withFakeStore(t, &fakeStore{entries: map[string]string{}})

	require.NoError(t, SetAPIKey("openai", "sk-test"))

	key, err := GetAPIKey("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", key)

	t.Run("missing key is empty, not an error", func(t *testing.T) {
		key, err := GetAPIKey("groq")
		require.NoError(t, err)
		assert.Empty(t, key)
	})

	require.NoError(t, DeleteAPIKey("openai"))
	key, err = GetAPIKey("openai")
	require.NoError(t, err)
	assert.Empty(t, key)

	t.Run("deleting a missing key is fine", func(t *testing.T) {
		assert.NoError(t, DeleteAPIKey("openai"))
	})
}

func TestSetAPIKeyWrapsFailure(t *testing.T) {
	withFakeStore(t, &fakeStore{entries: map[string]string{}, failSet: true})
	assert.Error(t, SetAPIKey("openai", "sk-test"))
}

func TestResolveKey(t *testing.T) {
	withFakeStore(t, &fakeStore{entries: map[string]string{
		ServiceName + "/anthropic": "real-key",
	}})

	t.Run("placeholder resolves through keyring", func(t *testing.T) {
		cfg := &config.Config{AnthropicAPIKey: config.SecurePlaceholder}
		key, err := ResolveKey(cfg, "anthropic")
		require.NoError(t, err)
		assert.Equal(t, "real-key", key)
	})

	t.Run("plaintext returned as-is", func(t *testing.T) {
		cfg := &config.Config{AnthropicAPIKey: "plain-key"}
		key, err := ResolveKey(cfg, "anthropic")
		require.NoError(t, err)
		assert.Equal(t, "plain-key", key)
	})

	t.Run("unconfigured provider resolves empty", func(t *testing.T) {
		key, err := ResolveKey(&config.Config{}, "groq")
		require.NoError(t, err)
		assert.Empty(t, key)
	})
}

func TestMigrateConfigKeys(t *testing.T) {
	t.Run("plaintext keys move to keyring", func(t *testing.T) {
		f := &fakeStore{entries: map[string]string{}}
		withFakeStore(t, f)

		cfg := &config.Config{
			OpenAIAPIKey: "sk-plain",
			GroqAPIKey:   config.SecurePlaceholder,
		}
		assert.True(t, MigrateConfigKeys(cfg))
		assert.Equal(t, config.SecurePlaceholder, cfg.OpenAIAPIKey)
		assert.Equal(t, "sk-plain", f.entries[ServiceName+"/openai"])
	})

	t.Run("nothing to migrate", func(t *testing.T) {
		withFakeStore(t, &fakeStore{entries: map[string]string{}})
		cfg := &config.Config{AnthropicAPIKey: config.SecurePlaceholder}
		assert.False(t, MigrateConfigKeys(cfg))
	})

	t.Run("keyring failure keeps plaintext", func(t *testing.T) {
		withFakeStore(t, &fakeStore{entries: map[string]string{}, failSet: true})
		cfg := &config.Config{OpenAIAPIKey: "sk-plain"}
		assert.False(t, MigrateConfigKeys(cfg))
		assert.Equal(t, "sk-plain", cfg.OpenAIAPIKey)
	})
}
