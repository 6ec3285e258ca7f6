package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	defaultConfigFile = "paprika.toml"
	configEnv         = "PAPRIKA_CONFIG"
)

type AppConfig struct {
	Port       string
	DBPath     string
	APIBaseURL string
	APIToken   string
	LogLevel   string
}

type fileConfig struct {
	Port       *string `toml:"port"`
	DBPath     *string `toml:"db_path"`
	APIBaseURL *string `toml:"api_base_url"`
	APIToken   *string `toml:"api_token"`
	LogLevel   *string `toml:"log_level"`
}

func defaults() AppConfig {
	return AppConfig{
		Port:       "8080",
		DBPath:     "paprika.db",
		APIBaseURL: "http://localhost:8080/api",
		LogLevel:   "info",
	}
}

// Load reads .env, then the TOML file named by PAPRIKA_CONFIG (default
// ./paprika.toml), then the environment. Later sources win.
func Load() (AppConfig, error) {
	path := os.Getenv(configEnv)
	if path == "" {
		path = defaultConfigFile
	}
	return LoadFiles(".env", path)
}

// LoadFiles is Load with explicit file locations. Missing files are
// skipped.
func LoadFiles(envPath, tomlPath string) (AppConfig, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	cfg := defaults()
	if tomlPath != "" {
		if err := overlayFromFile(&cfg, tomlPath); err != nil {
			return AppConfig{}, err
		}
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	cfg.Port = get("PORT", cfg.Port)
	cfg.DBPath = get("DB_PATH", cfg.DBPath)
	cfg.APIBaseURL = get("API_BASE_URL", cfg.APIBaseURL)
	cfg.APIToken = get("API_TOKEN", cfg.APIToken)
	cfg.LogLevel = get("LOG_LEVEL", cfg.LogLevel)
	return cfg, nil
}

func overlayFromFile(cfg *AppConfig, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat config file %q: %w", path, err)
	}

	var decoded fileConfig
	md, err := toml.DecodeFile(path, &decoded)
	if err != nil {
		return fmt.Errorf("decode config file %q: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return fmt.Errorf("config file %q: unknown key %q", path, undec[0].String())
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&cfg.Port, decoded.Port)
	set(&cfg.DBPath, decoded.DBPath)
	set(&cfg.APIBaseURL, decoded.APIBaseURL)
	set(&cfg.APIToken, decoded.APIToken)
	set(&cfg.LogLevel, decoded.LogLevel)
	return nil
}
