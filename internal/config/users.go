package config

// UsersConfig configures user storage.
type UsersConfig struct {
	DatabasePath string `yaml:"database_path"` // SQLite file, ":memory:" for ephemeral runs
}
