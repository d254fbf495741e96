package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. GEOGLOBE_STORAGE_TYPE.
const EnvPrefix = "GEOGLOBE"

// NewFlagSet declares the command line flags read by Load.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "Path to config file")
	fs.Bool("debug", false, "Enable debug logging")
	fs.String("storage", "", "Storage backend: memory, file or sqlite")
	fs.String("data-dir", "", "Directory for the visited list and logs")
	fs.String("log-file", "", "Log file path")
	fs.Bool("write-config", false, "Write the effective config to --config (or the default path) and exit")
	return fs
}

// setDefaults registers every key of Default so env and file values are picked up.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("storage.type", d.Storage.Type)
	v.SetDefault("storage.key", d.Storage.Key)
	v.SetDefault("storage.dataDir", d.Storage.DataDir)
	v.SetDefault("storage.sqlitePath", d.Storage.SQLitePath)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.maxSizeMB", d.Logging.MaxSizeMB)
	v.SetDefault("logging.maxBackups", d.Logging.MaxBackups)
	v.SetDefault("logging.maxAgeDays", d.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", d.Logging.Compress)

	v.SetDefault("ui.fps", d.UI.FPS)
	v.SetDefault("ui.cellWidth", d.UI.CellWidth)
	v.SetDefault("ui.cellHeight", d.UI.CellHeight)
	v.SetDefault("ui.showLabels", d.UI.ShowLabels)

	v.SetDefault("labels.maxLabels", d.Labels.MaxLabels)
	v.SetDefault("labels.margin", d.Labels.Margin)
	v.SetDefault("labels.bound", d.Labels.Bound)
	v.SetDefault("labels.tieBand", d.Labels.TieBand)
	v.SetDefault("labels.visitedBoost", d.Labels.VisitedBoost)
	v.SetDefault("labels.majorBoost", d.Labels.MajorBoost)
	v.SetDefault("labels.centerWeight", d.Labels.CenterWeight)
	v.SetDefault("labels.fallbackWidth", d.Labels.FallbackWidth)
	v.SetDefault("labels.fallbackHeight", d.Labels.FallbackHeight)

	v.SetDefault("camera.fovY", d.Camera.FovY)
	v.SetDefault("camera.distance", d.Camera.Distance)
	v.SetDefault("camera.minDistance", d.Camera.MinDistance)
	v.SetDefault("camera.maxDistance", d.Camera.MaxDistance)
	v.SetDefault("camera.rotateSpeed", d.Camera.RotateSpeed)
	v.SetDefault("camera.dampingFactor", d.Camera.DampingFactor)
}

// Load reads configuration with priority: defaults < file < env < flags.
// fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := ""
	writing := false
	if fs != nil {
		configPath, _ = fs.GetString("config")
		writing, _ = fs.GetBool("write-config")
		for key, flag := range map[string]string{
			"storage.type":    "storage",
			"storage.dataDir": "data-dir",
			"logging.file":    "log-file",
		} {
			if f := fs.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", flag, err)
				}
			}
		}
	}
	if configPath == "" {
		configPath = findConfigFile()
	}
	if writing {
		// --write-config may target a file that does not exist yet
		if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
			configPath = ""
		}
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if fs != nil {
		if debug, _ := fs.GetBool("debug"); debug {
			cfg.Logging.Level = "debug"
		}
	}
	if err := cfg.resolvePaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolvePaths fills the data dir and the files below it.
func (c *Config) resolvePaths() error {
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = DataDir()
	}
	if c.Storage.DataDir == "" {
		return errors.New("no data directory available, set storage.dataDir")
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = filepath.Join(c.Storage.DataDir, "geoglobe.db")
	}
	if c.Logging.File == "" {
		c.Logging.File = filepath.Join(c.Storage.DataDir, "geoglobe.log")
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		DefaultPath(),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "geoglobe")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "geoglobe")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "geoglobe")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "geoglobe")
	}
}

// DataDir returns the platform-appropriate writable data directory.
func DataDir() string {
	switch runtime.GOOS {
	case "windows":
		if base := os.Getenv("LOCALAPPDATA"); base != "" {
			return filepath.Join(base, "geoglobe")
		}
		if base := os.Getenv("APPDATA"); base != "" {
			return filepath.Join(base, "geoglobe")
		}
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Application Support", "geoglobe")
		}
	default: // Linux and others
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, "geoglobe")
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".local", "share", "geoglobe")
		}
	}
	return ""
}
