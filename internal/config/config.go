// Package config provides configuration structures and loading for goslim.
package config

// Config represents the complete application configuration.
type Config struct {
	Connection ConnectionConfig  `yaml:"connection" mapstructure:"connection"`
	Output     OutputConfig      `yaml:"output" mapstructure:"output"`
	Exclusions ExclusionsConfig  `yaml:"exclusions" mapstructure:"exclusions"`
	Restore    map[string]string `yaml:"restore" mapstructure:"restore"`
	Logging    LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// ConnectionConfig represents the MySQL server connection used for every
// client and dump-tool invocation in a run. Socket and host/port addressing
// are mutually exclusive: when Socket is set, Host and Port are ignored.
type ConnectionConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Socket   string `yaml:"socket" mapstructure:"socket"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`

	// Paths to the external client and dump binaries.
	ClientPath string `yaml:"mysql_path" mapstructure:"mysql_path"`
	DumpPath   string `yaml:"mysqldump_path" mapstructure:"mysqldump_path"`
}

// OutputConfig controls where slim dumps are written and how names are derived.
type OutputConfig struct {
	Dir             string `yaml:"dir" mapstructure:"dir"`
	Suffix          string `yaml:"suffix" mapstructure:"suffix"`
	WorkspaceSuffix string `yaml:"workspace_suffix" mapstructure:"workspace_suffix"`
}

// ExclusionsConfig points at the line-oriented table exclusion artifact.
type ExclusionsConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Connection: ConnectionConfig{
			Host:       "127.0.0.1",
			Port:       3306,
			ClientPath: "mysql",
			DumpPath:   "mysqldump",
		},
		Output: OutputConfig{
			Dir:             ".",
			Suffix:          "_slim.sql",
			WorkspaceSuffix: "_temp",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// UsesSocket reports whether the connection addresses the server through a
// local socket instead of host/port.
func (c *ConnectionConfig) UsesSocket() bool {
	return c.Socket != ""
}
