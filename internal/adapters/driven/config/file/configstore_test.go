package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := newTestStore(t)

	err := store.Set("provider.item_type", "PSScene")
	require.NoError(t, err)

	val, ok := store.Get("provider.item_type")
	assert.True(t, ok)
	assert.Equal(t, "PSScene", val)

	_, ok = store.Get("nonexistent")
	assert.False(t, ok)
}

func TestConfigStore_GetString(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("string_key", "hello world"))
	assert.Equal(t, "hello world", store.GetString("string_key"))

	// Non-existent key
	assert.Equal(t, "", store.GetString("nonexistent"))

	// Wrong type
	require.NoError(t, store.Set("int_key", 42))
	assert.Equal(t, "", store.GetString("int_key"))
}

func TestConfigStore_GetInt(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("int_key", 42))
	assert.Equal(t, 42, store.GetInt("int_key"))

	assert.Equal(t, 0, store.GetInt("nonexistent"))

	require.NoError(t, store.Set("string_key", "not an int"))
	assert.Equal(t, 0, store.GetInt("string_key"))
}

func TestConfigStore_GetFloat(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("cloud_cover", 0.3))
	assert.Equal(t, 0.3, store.GetFloat("cloud_cover"))

	// Integers read as floats too
	require.NoError(t, store.Set("whole", 2))
	assert.Equal(t, 2.0, store.GetFloat("whole"))

	assert.Equal(t, 0.0, store.GetFloat("nonexistent"))

	require.NoError(t, store.Set("string_key", "0.3"))
	assert.Equal(t, 0.0, store.GetFloat("string_key"))
}

func TestConfigStore_GetBool(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("bool_key", true))
	assert.True(t, store.GetBool("bool_key"))

	require.NoError(t, store.Set("bool_key_false", false))
	assert.False(t, store.GetBool("bool_key_false"))

	assert.False(t, store.GetBool("nonexistent"))

	require.NoError(t, store.Set("string_key", "true"))
	assert.False(t, store.GetBool("string_key"))
}

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store.Set("auth.api_key", "pk-secret"))
	require.NoError(t, store.Set("retrieve.cloud_cover", 0.25))

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "pk-secret", reopened.GetString("auth.api_key"))
	assert.Equal(t, 0.25, reopened.GetFloat("retrieve.cloud_cover"))
}

func TestConfigStore_FlattensNestedTables(t *testing.T) {
	tmpDir := t.TempDir()

	// Hand-edited configs use TOML tables.
	raw := "[auth]\napi_key = \"pk-from-table\"\n\n[retrieve]\ncloud_cover = 0.5\nconcurrency = 8\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(raw), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "pk-from-table", store.GetString("auth.api_key"))
	assert.Equal(t, 0.5, store.GetFloat("retrieve.cloud_cover"))
	assert.Equal(t, 8, store.GetInt("retrieve.concurrency"))
}

func TestConfigStore_RestrictedPermissions(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("auth.api_key", "pk-secret"))

	fi, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fi.Mode().Perm())
}
