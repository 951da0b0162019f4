package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matjam/smoothtft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalPath(t *testing.T) {
	t.Setenv("HOME", "/home/pi")

	assert.Equal(t, "", CanonicalPath(""))
	assert.Equal(t, "/home/pi", CanonicalPath("~"))
	assert.Equal(t, "/home/pi/icons/a.svg", CanonicalPath("~/icons/a.svg"))
	assert.Equal(t, "/etc/x", CanonicalPath("/etc/x"))
	assert.Equal(t, "~pi/x", CanonicalPath("~pi/x"))
}

func TestConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, "/xdg/smoothtft", ConfigDir())

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/pi")
	assert.Equal(t, "/home/pi/.config/smoothtft", ConfigDir())
}

func TestInstallDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "smoothtft")

	path, err := InstallDefaultConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "smoothtft.toml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, smoothtft.DefaultConfig, string(data))

	_, err = InstallDefaultConfig(dir)
	assert.Error(t, err)
}
