package config

import (
	"os"
	"runtime"

	"github.com/pelletier/go-toml"
)

const (
	BuildVersion = "v0.4.2-BUILD_VERSION"

	// SnapshotGroupSize is the default records-per-group used when
	// encoding a snapshot. Decoding takes its group size from the
	// snapshot metadata.
	SnapshotGroupSize = 1000

	// GenesisBlockHeight is the block height genesis outputs are
	// anchored at unless the caller fixes another one.
	GenesisBlockHeight = uint32(0)
)

type Custom struct {
	Storage struct {
		ValueLogGC bool `toml:"value-log-gc"`
	} `toml:"storage"`
	Loader struct {
		GroupSize int `toml:"group-size"`
		Workers   int `toml:"workers"`
	} `toml:"loader"`
}

// Initialize reads the node configuration file and applies defaults. A
// missing file is not an error, it yields the default configuration.
func Initialize(file string) (*Custom, error) {
	var custom Custom
	f, err := os.ReadFile(file)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		err = toml.Unmarshal(f, &custom)
		if err != nil {
			return nil, err
		}
	}
	if custom.Loader.GroupSize <= 0 {
		custom.Loader.GroupSize = SnapshotGroupSize
	}
	if custom.Loader.Workers <= 0 {
		custom.Loader.Workers = runtime.GOMAXPROCS(0)
	}
	return &custom, nil
}
