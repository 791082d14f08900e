package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func providers(t *testing.T) map[string]Provider {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "user-directory-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	bolt, err := NewBolt(filepath.Join(tmpDir, "bolt.db"))
	require.NoError(t, err)
	t.Cleanup(func() { bolt.Close() })

	sqlite, err := NewSQLite(filepath.Join(tmpDir, "sqlite.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Provider{"bolt": bolt, "sqlite": sqlite}
}

func TestProvider_RoundTrip(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			// Missing key is not an error
			value, ok, err := p.Get("@users")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, value)

			require.NoError(t, p.Put("@users", []byte(`[{"id":"u1"}]`)))

			value, ok, err = p.Get("@users")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[{"id":"u1"}]`, string(value))

			// Put replaces the whole value
			require.NoError(t, p.Put("@users", []byte(`[]`)))
			value, _, err = p.Get("@users")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(value))
		})
	}
}

func TestProvider_Delete(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, p.Put("@users", []byte(`[]`)))
			require.NoError(t, p.Delete("@users"))

			_, ok, err := p.Get("@users")
			require.NoError(t, err)
			assert.False(t, ok)

			// Deleting a missing key is a no-op
			assert.NoError(t, p.Delete("@users"))
		})
	}
}

func TestProvider_KeysAreIndependent(t *testing.T) {
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, p.Put("@users", []byte(`["a"]`)))
			require.NoError(t, p.Put("@accounts", []byte(`["b"]`)))

			users, _, err := p.Get("@users")
			require.NoError(t, err)
			accounts, _, err := p.Get("@accounts")
			require.NoError(t, err)

			assert.Equal(t, `["a"]`, string(users))
			assert.Equal(t, `["b"]`, string(accounts))
		})
	}
}
