// Package rvconfig loads rv2wasm's persistent CLI defaults from a TOML
// file, layered underneath whatever flags the invocation passes.
package rvconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the defaults the CLI falls back to when a flag is not given
// explicitly.
type Config struct {
	Output struct {
		Path       string `toml:"path"`        // default -o value, "" means derive from input
		OptLevel   int    `toml:"opt_level"`    // default -O value
		Debug      bool   `toml:"debug"`        // default --debug value
		Verbose    bool   `toml:"verbose"`      // default -v value
	} `toml:"output"`

	Container struct {
		RootfsPath string `toml:"rootfs_path"` // default --rootfs value
		EntryPath  string `toml:"entry_path"`  // default --entry value
	} `toml:"container"`
}

// Default returns the built-in defaults used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.Output.OptLevel = 1
	cfg.Output.Debug = false
	cfg.Output.Verbose = false
	return cfg
}

// Path returns the platform-specific config file location.
func Path() string {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		dir = filepath.Join(dir, "rv2wasm")
	case "darwin", "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "rv2wasm.toml"
		}
		dir = filepath.Join(home, ".config", "rv2wasm")
	default:
		return "rv2wasm.toml"
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "rv2wasm.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// Load reads the config file at Path(), returning defaults if it does not
// exist.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config file at path, returning defaults if it does
// not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("rvconfig: parse %s: %w", path, err)
	}
	return cfg, nil
}
