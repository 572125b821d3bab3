package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads the configuration.
// Search order: customPath -> ~/.t2048/config.yaml -> ./configs/t2048.yaml -> embedded default.
// T2048_* environment variables override file values; a .env file in the
// working directory is read first if present.
func Load(customPath string) (Config, error) {
	var cfg Config

	data, source, err := readConfigFile(customPath)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: failed to parse %s: %w", source, err)
	}

	// A missing .env is the normal case.
	_ = godotenv.Load()

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("config: failed to read environment: %w", err)
	}

	cfg.expandPaths()
	cfg.Storage.Backend = strings.ToLower(cfg.Storage.Backend)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// readConfigFile returns the first config file found and its name.
func readConfigFile(customPath string) ([]byte, string, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return nil, customPath, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		return data, customPath, nil
	}

	if p := userConfigPath("config.yaml"); p != "" {
		if data, err := os.ReadFile(p); err == nil {
			return data, p, nil
		}
	}

	local := filepath.Join("configs", "t2048.yaml")
	if data, err := os.ReadFile(local); err == nil {
		return data, local, nil
	}

	return defaultYAML, "embedded default", nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".t2048", filename)
}

func (c *Config) expandPaths() {
	c.SaveFile = ExpandHome(c.SaveFile)
	c.DBPath = ExpandHome(c.DBPath)
	c.LogFile = ExpandHome(c.LogFile)
	c.SSH.HostKey = ExpandHome(c.SSH.HostKey)
}

// ExpandHome replaces a leading ~ with the user's home directory.
// The path is returned unchanged if home cannot be determined.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
