package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	require := require.New(t)

	custom, err := Initialize(filepath.Join(t.TempDir(), "missing.toml"))
	require.Nil(err)
	require.Equal(SnapshotGroupSize, custom.Loader.GroupSize)
	require.Greater(custom.Loader.Workers, 0)
	require.False(custom.Storage.ValueLogGC)

	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[storage]\nvalue-log-gc = true\n[loader]\ngroup-size = 64\nworkers = 2\n"
	require.Nil(os.WriteFile(path, []byte(data), 0644))

	custom, err = Initialize(path)
	require.Nil(err)
	require.True(custom.Storage.ValueLogGC)
	require.Equal(64, custom.Loader.GroupSize)
	require.Equal(2, custom.Loader.Workers)
}
