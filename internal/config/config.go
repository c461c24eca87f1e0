package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/pngme/internal/logging"
	"github.com/danmuck/pngme/internal/png/chunktype"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatText  = "text"
)

// Config is the pngme CLI configuration.
type Config struct {
	LogLevel     string
	LogTimestamp bool
	Format       string
	NoColor      bool
	FileMode     os.FileMode
	// DefaultChunkType is used by decode and remove when no type is given.
	DefaultChunkType string
}

type fileConfig struct {
	LogLevel     string `toml:"log_level"`
	LogTimestamp bool   `toml:"log_timestamp"`
	Format       string `toml:"format"`
	NoColor      bool   `toml:"no_color"`
	FileMode     string `toml:"file_mode"`
	DefaultChunk string `toml:"default_chunk_type"`
}

func Default() Config {
	return Config{
		LogLevel:     "warn",
		LogTimestamp: false,
		Format:       FormatTable,
		NoColor:      false,
		FileMode:     0o644,
	}
}

// Load reads path over Default. Keys absent from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(raw.LogLevel))
	}
	if meta.IsDefined("log_timestamp") {
		cfg.LogTimestamp = raw.LogTimestamp
	}
	if meta.IsDefined("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(raw.Format))
	}
	if meta.IsDefined("no_color") {
		cfg.NoColor = raw.NoColor
	}
	if meta.IsDefined("file_mode") {
		mode, err := ParseFileMode(raw.FileMode)
		if err != nil {
			return Config{}, fmt.Errorf("parse file_mode: %w", err)
		}
		cfg.FileMode = mode
	}
	if meta.IsDefined("default_chunk_type") {
		cfg.DefaultChunkType = strings.TrimSpace(raw.DefaultChunk)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	switch cfg.Format {
	case FormatTable, FormatJSON, FormatText:
	default:
		return fmt.Errorf("unknown format %q (supported: table, json, text)", cfg.Format)
	}
	if cfg.FileMode&^os.ModePerm != 0 || cfg.FileMode == 0 {
		return fmt.Errorf("file_mode must be non-zero permission bits, got %#o", uint32(cfg.FileMode))
	}
	if cfg.DefaultChunkType != "" {
		if _, err := chunktype.Parse(cfg.DefaultChunkType); err != nil {
			return fmt.Errorf("default_chunk_type: %w", err)
		}
	}
	return nil
}

// ParseFileMode accepts octal permission strings such as "0644" or "600".
func ParseFileMode(raw string) (os.FileMode, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 8, 32)
	if err != nil {
		return 0, err
	}
	return os.FileMode(v), nil
}

// Logging converts the log settings into a logging.Config.
func (c Config) Logging() logging.Config {
	lvl, _ := logging.ParseLevel(c.LogLevel)
	return logging.Config{
		Level:     lvl,
		Timestamp: c.LogTimestamp,
		NoColor:   c.NoColor,
	}
}
