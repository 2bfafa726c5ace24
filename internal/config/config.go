// Package config holds the user-editable application configuration: where
// export settings are persisted and how logging behaves. It is distinct from
// the export settings record, which the exporter itself reads and writes.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	BackendYAML   = "yaml"
	BackendSQLite = "sqlite"
)

type SettingsConfig struct {
	// Backend selects the settings store: "yaml" or "sqlite".
	Backend string `yaml:"backend"`
	// Path of the store file; empty means <config dir>/settings.yaml or settings.db.
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type DebugConfig struct {
	// KeepTemporaries leaves the working duplicates open after export.
	KeepTemporaries bool `yaml:"keep_temporaries"`
}

type AppConfig struct {
	ConfigVersion int            `yaml:"config_version"`
	Settings      SettingsConfig `yaml:"settings"`
	Logging       LoggingConfig  `yaml:"logging"`
	Debug         DebugConfig    `yaml:"debug"`
}

func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Settings:      SettingsConfig{Backend: BackendYAML},
		Logging:       LoggingConfig{Level: "warn", Format: "console"},
	}
}

const (
	EnvConfigPath      = "JPEGBATCH_CONFIG"
	EnvSettingsBackend = "JPEGBATCH_SETTINGS_BACKEND"
	EnvSettingsPath    = "JPEGBATCH_SETTINGS_PATH"
	EnvKeepTemporaries = "JPEGBATCH_KEEP_TEMP"
	EnvLogLevel        = "JPEGBATCH_LOG_LEVEL"
	EnvLogFormat       = "JPEGBATCH_LOG_FORMAT"
	EnvLogSource       = "JPEGBATCH_LOG_SOURCE"
	EnvLogFile         = "JPEGBATCH_LOG_FILE"
)

// Dir returns the per-user configuration directory for jpegbatch.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "jpegbatch"), nil
}

// Path returns the config file path, honouring JPEGBATCH_CONFIG.
func Path() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file if present, merges it over the defaults and
// applies environment overrides. A missing or unreadable file is not an error.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := Path()
	if err != nil {
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes cfg to the config file.
func Save(cfg AppConfig) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// SettingsPath resolves the store location for the configured backend.
func (c AppConfig) SettingsPath() (string, error) {
	if p := strings.TrimSpace(c.Settings.Path); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if c.Settings.Backend == BackendSQLite {
		return filepath.Join(dir, "settings.db"), nil
	}
	return filepath.Join(dir, "settings.yaml"), nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if b := normalizeBackend(src.Settings.Backend); b != "" {
		dst.Settings.Backend = b
	}
	if p := strings.TrimSpace(src.Settings.Path); p != "" {
		dst.Settings.Path = p
	}
	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	dst.Logging.Source = src.Logging.Source
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
	dst.Debug.KeepTemporaries = src.Debug.KeepTemporaries
}

func applyEnvOverrides(cfg *AppConfig) {
	if b := normalizeBackend(os.Getenv(EnvSettingsBackend)); b != "" {
		cfg.Settings.Backend = b
	}
	if v := strings.TrimSpace(os.Getenv(EnvSettingsPath)); v != "" {
		cfg.Settings.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvKeepTemporaries)); v != "" {
		cfg.Debug.KeepTemporaries = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func normalizeBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case BackendYAML, "yml":
		return BackendYAML
	case BackendSQLite, "sqlite3":
		return BackendSQLite
	default:
		return ""
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}
