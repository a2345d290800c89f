package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig marks a value that parsed but cannot be used.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a config file or environment that could not be read.
	ErrLoadConfig = errors.New("load config failed")
)

// FieldError names the config key that failed validation. It matches
// ErrInvalidConfig under errors.Is.
type FieldError struct {
	Key    string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfig, e.Key, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrInvalidConfig }

func invalid(key, format string, args ...any) error {
	return &FieldError{Key: key, Reason: fmt.Sprintf(format, args...)}
}
