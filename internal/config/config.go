// Package config provides td's layered configuration on top of viper.
//
// Precedence, highest first: command-line flags bound with BindPFlag,
// TD_* environment variables, config.yaml, defaults.
//
// config.yaml lives in $TD_CONFIG_DIR, else $XDG_CONFIG_HOME/td, else
// ~/.config/td. TD_CONFIG names a config file explicitly.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "TD"
	configName     = "config"
	configFileName = "config.yaml"
	appDirName     = "td"
)

var v *viper.Viper

// Defaults for every known key. `td config set` only accepts these keys.
var defaults = map[string]interface{}{
	"storage.backend":        "file",
	"storage.path":           "",
	"lock-timeout":           5 * time.Second,
	"mysql.dsn":              "",
	"mysql.dolt-commits":     false,
	"dolt.path":              "",
	"dolt.database":          "td",
	"dolt.committer-name":    "td",
	"dolt.committer-email":   "td@localhost",
	"list.filter":            "All",
	"list.sort-priority":     false,
	"list.watch-debounce":    500 * time.Millisecond,
	"json":                   false,
	"no-pager":               false,
	"no-color":               false,
	"form.theme":             "dracula",
	"telemetry.service-name": "td",
}

// Initialize builds a fresh viper instance. Safe to call repeatedly; each
// call re-reads the environment and config file.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	if explicit := os.Getenv("TD_CONFIG"); explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(ConfigDir())
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// ResetForTesting drops the viper instance so the next Initialize starts clean.
func ResetForTesting() {
	v = nil
}

func ensure() *viper.Viper {
	if v == nil {
		_ = Initialize()
	}
	return v
}

// ConfigDir returns the directory searched for config.yaml.
func ConfigDir() string {
	if dir := os.Getenv("TD_CONFIG_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", appDirName)
	}
	return filepath.Join(".", "."+appDirName)
}

// DataDir returns the directory for default storage files.
func DataDir() string {
	if dir := os.Getenv("TD_DATA_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", appDirName)
	}
	return filepath.Join(".", "."+appDirName)
}

// ConfigFileUsed returns the config file viper loaded, or the path
// `td config set` would create.
func ConfigFileUsed() string {
	if used := ensure().ConfigFileUsed(); used != "" {
		return used
	}
	if explicit := os.Getenv("TD_CONFIG"); explicit != "" {
		return explicit
	}
	return filepath.Join(ConfigDir(), configFileName)
}

// StoragePath returns storage.path, defaulting to DataDir()/storage.json.
func StoragePath() string {
	if p := GetString("storage.path"); p != "" {
		return p
	}
	return filepath.Join(DataDir(), "storage.json")
}

// DoltPath returns dolt.path, defaulting to DataDir()/dolt.
func DoltPath() string {
	if p := GetString("dolt.path"); p != "" {
		return p
	}
	return filepath.Join(DataDir(), "dolt")
}

// IsKnownKey reports whether key has a default.
func IsKnownKey(key string) bool {
	_, ok := defaults[key]
	return ok
}

// KnownKeys returns every configurable key, sorted.
func KnownKeys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// BindPFlag makes a command-line flag override key when the flag is set.
func BindPFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag for config key %q", key)
	}
	return ensure().BindPFlag(key, flag)
}

func GetString(key string) string {
	return ensure().GetString(key)
}

func GetBool(key string) bool {
	return ensure().GetBool(key)
}

func GetInt(key string) int {
	return ensure().GetInt(key)
}

func GetDuration(key string) time.Duration {
	return ensure().GetDuration(key)
}

func GetStringSlice(key string) []string {
	return ensure().GetStringSlice(key)
}

// IsSet reports whether key has a value from any source other than defaults.
func IsSet(key string) bool {
	return ensure().IsSet(key)
}

// Set overrides key for the rest of the process. It does not write config.yaml.
func Set(key string, value interface{}) {
	ensure().Set(key, value)
}

// AllSettings returns the merged settings as a nested map.
func AllSettings() map[string]interface{} {
	return ensure().AllSettings()
}

// SourceOf names where key's effective value comes from: "env", "config" or "default".
func SourceOf(key string) string {
	envKey := envPrefix + "_" + strings.NewReplacer(".", "_", "-", "_").Replace(strings.ToUpper(key))
	if _, ok := os.LookupEnv(envKey); ok {
		return "env"
	}
	if ensure().InConfig(key) {
		return "config"
	}
	return "default"
}
