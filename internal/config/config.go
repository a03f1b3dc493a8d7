package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Log     LogConfig     `mapstructure:"log" validate:"required"`
}

// StorageConfig contains the embedded database location settings.
type StorageConfig struct {
	// DataDir is the application's local data directory. It holds the
	// database file and the images/ subdirectory, and is created on first
	// run if absent. Defaults to <user-config-dir>/big-brain.
	DataDir string `mapstructure:"data_dir" validate:"required"`

	// DatabaseFile is the name of the database file inside DataDir.
	DatabaseFile string `mapstructure:"database_file" validate:"required"`
}

// LogConfig contains the logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}
