package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultlint/vaultlint/pkg/vocab"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".vaultlint.yaml")

	content := `swap_names:
  - swap
  - zap
rent_receiver: rent_sysvar
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	o, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"swap", "zap"}, o.SwapNames)
	assert.Equal(t, "rent_sysvar", o.RentReceiver)
}

func TestFind(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "sub", "dir")
	require.NoError(t, os.MkdirAll(subDir, 0755))

	configPath := filepath.Join(tmpDir, ".vaultlint.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("rent_method: check"), 0644))

	found, err := Find(subDir)
	require.NoError(t, err)
	assert.Equal(t, configPath, found)
}

func TestFindNone(t *testing.T) {
	tmpDir := t.TempDir()
	found, err := Find(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestLoadFromDirNoFile(t *testing.T) {
	tmpDir := t.TempDir()
	o, err := LoadFromDir(tmpDir)
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestApplyNilOverridesReturnsBase(t *testing.T) {
	base := vocab.Default()
	var o *Overrides
	assert.Equal(t, base, o.Apply(base))
}

func TestApplyReplacesOnlyPopulatedFields(t *testing.T) {
	base := vocab.Default()
	o := &Overrides{
		SwapNames:    []string{"zap"},
		RentReceiver: "rent_sysvar",
	}

	result := o.Apply(base)

	assert.True(t, result.SwapNames.Has("zap"))
	assert.False(t, result.SwapNames.Has("swap"))
	assert.Equal(t, "rent_sysvar", result.RentReceiver)
	assert.True(t, result.GateFunctions.Has("require"))
}
