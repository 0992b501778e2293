package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
// A failing Validate is fatal before any dump file is processed.
func (c *Config) Validate() error {
	var errors ValidationErrors

	if c.Connection.User == "" {
		errors = append(errors, ValidationError{
			Field:   "connection.user",
			Message: "user is required",
		})
	}

	if c.Connection.Socket == "" {
		if c.Connection.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "connection.host",
				Message: "host is required when no socket is configured",
			})
		}
		if c.Connection.Port <= 0 || c.Connection.Port > 65535 {
			errors = append(errors, ValidationError{
				Field:   "connection.port",
				Message: fmt.Sprintf("port must be between 1 and 65535, got %d", c.Connection.Port),
			})
		}
	}

	if c.Connection.ClientPath == "" {
		errors = append(errors, ValidationError{
			Field:   "connection.mysql_path",
			Message: "client binary path must not be empty",
		})
	}
	if c.Connection.DumpPath == "" {
		errors = append(errors, ValidationError{
			Field:   "connection.mysqldump_path",
			Message: "dump binary path must not be empty",
		})
	}

	if c.Output.Dir == "" {
		errors = append(errors, ValidationError{
			Field:   "output.dir",
			Message: "output directory is required",
		})
	}
	if c.Output.Suffix == "" {
		errors = append(errors, ValidationError{
			Field:   "output.suffix",
			Message: "output suffix must not be empty",
		})
	}
	if c.Output.WorkspaceSuffix == "" {
		errors = append(errors, ValidationError{
			Field:   "output.workspace_suffix",
			Message: "workspace suffix must not be empty",
		})
	}

	for path, target := range c.Restore {
		if target == "" {
			errors = append(errors, ValidationError{
				Field:   "restore",
				Message: fmt.Sprintf("empty target database for %q", path),
			})
		}
	}

	if err := c.validateLogging(); err != nil {
		errors = append(errors, err...)
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level %q (must be debug, info, warn, or error)", c.Logging.Level),
		})
	}

	switch c.Logging.Format {
	case "", "json", "text":
	default:
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid format %q (must be json or text)", c.Logging.Format),
		})
	}

	return errors
}
