// Package config loads the optional nostd-check.toml workspace file.
//
// The file is discovered by walking upward from the starting directory, the
// same convention cargo uses for its manifests. Every setting has a default,
// so a missing file is a normal outcome.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the workspace configuration file name.
const FileName = "nostd-check.toml"

// Config is the parsed nostd-check.toml.
type Config struct {
	Sysroot sysrootConfig `toml:"sysroot"`
	Cargo   cargoConfig   `toml:"cargo"`
	UI      uiConfig      `toml:"ui"`
}

type sysrootConfig struct {
	// Dir overrides where the synthetic sysroot is materialized. The
	// special value "tmp" selects a private temporary directory.
	Dir string `toml:"dir"`
}

type cargoConfig struct {
	// Action is the cargo subcommand the driver launches: check or build.
	Action string `toml:"action"`
}

type uiConfig struct {
	// Mode selects the progress display: auto, on or off.
	Mode string `toml:"mode"`
}

// Default returns a Config with every setting at its default value.
func Default() Config {
	return Config{
		Cargo: cargoConfig{Action: "check"},
		UI:    uiConfig{Mode: "auto"},
	}
}

// Load finds and parses the nearest nostd-check.toml at or above startDir.
// The second result reports whether a file was found; a missing file yields
// the defaults without error.
func Load(startDir string) (Config, bool, error) {
	path, ok, err := find(startDir)
	if err != nil || !ok {
		return Default(), ok, err
	}
	cfg, err := parseFile(path)
	if err != nil {
		return Default(), true, err
	}
	return cfg, true, nil
}

func find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func parseFile(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Default(), fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Default(), fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if err := validate(cfg); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func validate(cfg Config) error {
	switch strings.TrimSpace(cfg.Cargo.Action) {
	case "check", "build":
	default:
		return fmt.Errorf("invalid [cargo].action %q (expected check or build)", cfg.Cargo.Action)
	}
	switch strings.TrimSpace(strings.ToLower(cfg.UI.Mode)) {
	case "", "auto", "on", "off":
	default:
		return fmt.Errorf("invalid [ui].mode %q (expected auto|on|off)", cfg.UI.Mode)
	}
	return nil
}
