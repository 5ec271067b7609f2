package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "FLASHMIND"

// DataDirName is the directory under $HOME holding the default database and
// config file.
const DataDirName = ".flashmind"

// Load reads configuration from defaults, an optional flashmind.yaml (in the
// working directory or $HOME/.flashmind), a .env file and FLASHMIND_*
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the
// default locations; a missing default file is not an error, a missing
// explicit file is.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("flashmind")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := DataDir(); err == nil {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// DataDir returns $HOME/.flashmind.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DataDirName), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cors_allowed_origins", []string{"*"})

	v.SetDefault("database.driver", "sqlite")
	dbPath := "flashmind.db"
	if dir, err := DataDir(); err == nil {
		dbPath = filepath.Join(dir, "flashmind.db")
	}
	v.SetDefault("database.url", dbPath)

	v.SetDefault("study.default_mode", "random")
	v.SetDefault("study.session_idle_minutes", 240)

	// Registered so that FLASHMIND_AUTH_TOKEN_SECRET is seen by Unmarshal.
	v.SetDefault("auth.token_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 1440)
}
