package config

import "fmt"

// ConfigError reports an unusable configuration value (unknown output or
// notation name, unknown encoding, missing device or executable), detected
// at startup rather than at play time.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

// Errorf builds a ConfigError from a format string.
func Errorf(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}
