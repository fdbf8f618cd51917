package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Device role constants
const (
	RoleAuthority = "authority" // holds the master data and imports bundles
	RoleField     = "field"     // records training offline and exports bundles
)

// DefaultMaxPlans is the number of rotation plans retained per line.
const DefaultMaxPlans = 30

// Config represents the skillmatrix configuration
type Config struct {
	Device   DeviceConfig   `mapstructure:"device"`
	DB       DBConfig       `mapstructure:"db"`
	Log      LogConfig      `mapstructure:"log"`
	Rotation RotationConfig `mapstructure:"rotation"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// DeviceConfig identifies this installation in the sync protocol.
type DeviceConfig struct {
	ID           string `mapstructure:"id"`
	Role         string `mapstructure:"role"`
	LineID       string `mapstructure:"line_id"`
	SeedVersion  int64  `mapstructure:"seed_version"`
	UsersVersion int64  `mapstructure:"users_version"`
}

// DBConfig locates the SQLite database.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// RotationConfig tunes rotation plan storage.
type RotationConfig struct {
	MaxPlans int `mapstructure:"max_plans"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// IsAuthority returns true if this device imports bundles.
func (c *Config) IsAuthority() bool {
	return c.Device.Role == RoleAuthority
}

// Validate checks the values that would otherwise fail later and far away.
func (c *Config) Validate() error {
	switch c.Device.Role {
	case RoleAuthority, RoleField:
	default:
		return fmt.Errorf("device.role must be %q or %q, got %q", RoleAuthority, RoleField, c.Device.Role)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	if c.Rotation.MaxPlans < 0 {
		return fmt.Errorf("rotation.max_plans must not be negative")
	}
	return nil
}

// Path returns the config file location under dir.
func Path(dir string) string {
	return filepath.Join(dir, ".skillmatrix", "config.yaml")
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("device.id", "")
	v.SetDefault("device.role", RoleField)
	v.SetDefault("device.line_id", "")
	v.SetDefault("device.seed_version", 1)
	v.SetDefault("device.users_version", 1)
	v.SetDefault("db.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("rotation.max_plans", DefaultMaxPlans)
	v.SetDefault("metrics.textfile", "")

	v.SetEnvPrefix("SKILLMATRIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads .skillmatrix/config.yaml from the specified directory.
// Priority: environment > file > defaults. A missing file is not an error.
// A device without an id is given a random one, written back to the file
// so every later run mints client ids under the same prefix.
func LoadConfig(dir string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(Path(dir))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Device.ID == "" {
		id := uuid.NewString()
		if err := updateFile(dir, map[string]any{"device.id": id}); err != nil {
			return nil, fmt.Errorf("failed to persist device id: %w", err)
		}
		cfg.Device.ID = id
	}

	return &cfg, nil
}

// ApplySeed records the line and master data versions a field device was
// provisioned with.
func ApplySeed(dir, lineID string, seedVersion, usersVersion int64) error {
	return updateFile(dir, map[string]any{
		"device.role":          RoleField,
		"device.line_id":       lineID,
		"device.seed_version":  seedVersion,
		"device.users_version": usersVersion,
	})
}

// updateFile sets keys in config.yaml and leaves the rest of the file alone.
// Defaults and environment overrides are not written.
func updateFile(dir string, values map[string]any) error {
	v := viper.New()
	v.SetConfigFile(Path(dir))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	for k, val := range values {
		v.Set(k, val)
	}

	if err := os.MkdirAll(filepath.Dir(Path(dir)), 0755); err != nil {
		return fmt.Errorf("failed to create .skillmatrix dir: %w", err)
	}
	if err := v.WriteConfigAs(Path(dir)); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// SaveConfig writes config.yaml to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, ".skillmatrix")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create .skillmatrix dir: %w", err)
	}

	v := viper.New()
	v.Set("device.id", cfg.Device.ID)
	v.Set("device.role", cfg.Device.Role)
	v.Set("device.line_id", cfg.Device.LineID)
	v.Set("device.seed_version", cfg.Device.SeedVersion)
	v.Set("device.users_version", cfg.Device.UsersVersion)
	v.Set("db.path", cfg.DB.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("rotation.max_plans", cfg.Rotation.MaxPlans)
	v.Set("metrics.textfile", cfg.Metrics.Textfile)

	if err := v.WriteConfigAs(Path(dir)); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
