package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Study    StudyConfig    `mapstructure:"study"    validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

// ServerConfig contains the HTTP server and logging settings.
type ServerConfig struct {
	Port               int      `mapstructure:"port"                 validate:"required,gt=0,lt=65536"`
	LogLevel           string   `mapstructure:"log_level"            validate:"required,oneof=debug info warn error"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins" validate:"dive,required"`
}

// DatabaseConfig selects the storage backend.
// For sqlite the URL is a file path; for postgres it is a connection URL.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite postgres"`
	URL    string `mapstructure:"url"    validate:"required"`
}

// StudyConfig holds study session defaults.
type StudyConfig struct {
	DefaultMode string `mapstructure:"default_mode" validate:"required,oneof=random focus"`
	// SessionIdleMinutes is how long an untouched session is kept in memory.
	SessionIdleMinutes int `mapstructure:"session_idle_minutes" validate:"required,gt=0"`
}

// AuthConfig contains API token settings.
// An empty TokenSecret disables authentication.
type AuthConfig struct {
	TokenSecret          string `mapstructure:"token_secret"           validate:"omitempty,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// AuthEnabled reports whether API requests must carry a token.
func (c AuthConfig) AuthEnabled() bool {
	return c.TokenSecret != ""
}
