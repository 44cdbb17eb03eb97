package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/joshuapare/mp4kit/mp4/printer"
)

// config holds settings that may come from the config file.
type config struct {
	Format      printer.Format
	Indent      int
	MaxDepth    int // traversal nesting limit; 0 keeps the library default
	LogLevel    string
	ShowOffsets bool
}

func defaultConfig() config {
	return config{
		Format:   printer.FormatText,
		Indent:   printer.DefaultIndentSize,
		LogLevel: "warn",
	}
}

type fileConfig struct {
	Format      string `toml:"format"`
	Indent      int    `toml:"indent"`
	MaxDepth    int    `toml:"max_depth"`
	LogLevel    string `toml:"log_level"`
	ShowOffsets bool   `toml:"show_offsets"`
}

// defaultConfigPath is $XDG_CONFIG_HOME/mp4ctl/config.toml, or the platform
// equivalent.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mp4ctl", "config.toml")
}

// loadConfig overlays the file at path onto the defaults. An empty path uses
// the default location, where a missing file is not an error.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("format") {
		f, err := printer.ParseFormat(raw.Format)
		if err != nil {
			return config{}, fmt.Errorf("parse format: %w", err)
		}
		cfg.Format = f
	}

	if meta.IsDefined("indent") {
		if raw.Indent < 0 {
			return config{}, fmt.Errorf("indent must not be negative, got %d", raw.Indent)
		}
		cfg.Indent = raw.Indent
	}

	if meta.IsDefined("max_depth") {
		if raw.MaxDepth < 0 {
			return config{}, fmt.Errorf("max_depth must not be negative, got %d", raw.MaxDepth)
		}
		cfg.MaxDepth = raw.MaxDepth
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if meta.IsDefined("show_offsets") {
		cfg.ShowOffsets = raw.ShowOffsets
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}

	return cfg, nil
}
