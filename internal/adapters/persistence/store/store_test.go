package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]Store{
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Get("missing")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, st.Put("processes", []byte(`[{"id":1}]`)))

			got, err := st.Get("processes")
			require.NoError(t, err)
			assert.Equal(t, []byte(`[{"id":1}]`), got)

			// Put replaces the previous value
			require.NoError(t, st.Put("processes", []byte(`[]`)))
			got, err = st.Get("processes")
			require.NoError(t, err)
			assert.Equal(t, []byte(`[]`), got)
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Put("users", []byte(`[]`)))
			require.NoError(t, st.Delete("users"))

			_, err := st.Get("users")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			// Deleting a missing key is not an error
			assert.NoError(t, st.Delete("users"))
		})
	}
}

func TestStoreKeysPrefix(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.Put("session-a", []byte(`{}`)))
			require.NoError(t, st.Put("session-b", []byte(`{}`)))
			require.NoError(t, st.Put("processes", []byte(`[]`)))

			keys, err := st.Keys("session-")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"session-a", "session-b"}, keys)
		})
	}
}
