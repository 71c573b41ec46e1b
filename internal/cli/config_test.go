package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/savedobjects/pkg/types"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := loadSettings(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, types.BackendSQLite, s.Backend)
	assert.Equal(t, defaultListen, s.Listen)
	assert.Equal(t, types.SyncImmediate, s.SyncStrategy)
	assert.Equal(t, defaultTypes, s.Types)

	r, err := s.registry()
	require.NoError(t, err)
	assert.True(t, r.IsMultiNamespace("index-pattern"))
	assert.True(t, r.IsNamespaceAgnostic("config"))
}

func TestLoadSettingsFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte(`
backend: sqlite
namespace: space-a
sync_strategy: on_close
types:
  - name: lens
    namespace_type: multiple
`), 0o644))
	t.Setenv("SAVEDOBJECTS_LISTEN", "0.0.0.0:9000")

	s, err := loadSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, "space-a", s.Namespace)
	assert.Equal(t, types.SyncOnClose, s.SyncStrategy)
	assert.Equal(t, "0.0.0.0:9000", s.Listen)
	require.Len(t, s.Types, 1)
	assert.Equal(t, types.TypeDefinition{Name: "lens", NamespaceType: types.NamespaceTypeMultiple}, s.Types[0])
}

func TestSettingsRejectsBadValues(t *testing.T) {
	s := settings{Backend: "postgres"}
	_, err := s.backendConfig(t.TempDir())
	assert.ErrorIs(t, err, types.ErrBackendUnknown)

	s = settings{Types: []types.TypeDefinition{{Name: "x", NamespaceType: "sideways"}}}
	_, err = s.registry()
	assert.ErrorIs(t, err, types.ErrInvalidNamespaceType)
}

func TestLoadSettingsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("backend: [unclosed"), 0o644))
	_, err := loadSettings(dir)
	assert.Error(t, err)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitUserError, exitCode(types.NewNotFoundError("a", "b")))
	assert.Equal(t, exitSysError, exitCode(types.NewUnavailableError(assert.AnError)))
	assert.Equal(t, exitSysError, exitCode(sysErrorf("disk: %w", assert.AnError)))
	assert.Equal(t, exitUserError, exitCode(assert.AnError))
}
