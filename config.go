package slidegen

import (
	"os"
	"path/filepath"
)

// Config holds all configuration for the slidegen generator.
type Config struct {
	// Template is the design template name used when a Generate call
	// does not specify one. Defaults to "default".
	Template string `json:"template" yaml:"template"`

	// Settings holds presentation-level design settings. May be
	// partial; it is merged against DefaultSettings before use.
	Settings Settings `json:"settings" yaml:"settings"`

	// MaxBatchOperations is the sink's per-request operation ceiling.
	// The builder never submits a batch larger than this. Defaults to 500.
	MaxBatchOperations int `json:"max_batch_operations" yaml:"max_batch_operations"`

	// MaxImagePayloadBytes is the ceiling for an inline image payload
	// (base64-encoded size). Images above it are uploaded to the asset
	// store and referenced by URL instead. Defaults to 2000, the
	// documented image-URL limit of the Slides API.
	MaxImagePayloadBytes int `json:"max_image_payload_bytes" yaml:"max_image_payload_bytes"`

	// DBPath is the full path to the SQLite run-ledger database file.
	// If empty, defaults to ~/.slidegen/<DBName>.db
	DBPath string `json:"db_path" yaml:"db_path"`

	// DBName is the name for the database (used when DBPath is empty).
	// Defaults to "slidegen".
	DBName string `json:"db_name" yaml:"db_name"`

	// StorageDir controls where the database is created when DBPath is
	// not explicitly set. Options: "home" (default) uses ~/.slidegen/,
	// "local" uses the current working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// SkipPersistence disables the run ledger entirely. Generation
	// still works; runs are just not recorded.
	SkipPersistence bool `json:"skip_persistence" yaml:"skip_persistence"`
}

// DefaultConfig returns a Config with sensible defaults.
// The run ledger is stored in ~/.slidegen/slidegen.db by default.
func DefaultConfig() Config {
	return Config{
		Template:             "default",
		Settings:             DefaultSettings(),
		MaxBatchOperations:   500,
		MaxImagePayloadBytes: 2000,
		DBName:               "slidegen",
		StorageDir:           "home",
	}
}

// resolveDBPath computes the final database path from config fields.
func (c *Config) resolveDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}

	name := c.DBName
	if name == "" {
		name = "slidegen"
	}

	switch c.StorageDir {
	case "local", "cwd":
		return name + ".db"
	default: // "home" or empty
		home, err := os.UserHomeDir()
		if err != nil {
			return name + ".db" // fallback to cwd
		}
		dir := filepath.Join(home, ".slidegen")
		return filepath.Join(dir, name+".db")
	}
}
