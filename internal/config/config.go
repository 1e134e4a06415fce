package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Firestore FirestoreConfig `mapstructure:"firestore" validate:"required"`
	Trigger   TriggerConfig   `mapstructure:"trigger"   validate:"required"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
}

// ServerConfig contains the settings of the self-hosted event receiver.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// FirestoreConfig identifies the Firestore database holding the task records.
type FirestoreConfig struct {
	// ProjectID may be left empty to detect it from the runtime environment.
	ProjectID  string `mapstructure:"project_id"`
	DatabaseID string `mapstructure:"database_id" validate:"required"`
}

// TriggerConfig controls which documents the handler accepts and how it
// fills in missing statuses.
type TriggerConfig struct {
	DocumentPattern string `mapstructure:"document_pattern" validate:"required,contains={"`
	DefaultStatus   string `mapstructure:"default_status"   validate:"required"`
	StatusPolicy    string `mapstructure:"status_policy"    validate:"required,oneof=falsy absent"`
}

// SentryConfig enables error reporting when DSN is set.
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"         validate:"omitempty,url"`
	Environment string `mapstructure:"environment"`
}
