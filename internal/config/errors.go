package config

import (
	"errors"
	"fmt"

	"github.com/dshills/navspy/internal/config/loader"
)

// ErrUnsupportedFormat is returned for config files that are neither TOML
// nor YAML.
var ErrUnsupportedFormat = loader.ErrUnsupportedFormat

// ErrUnknownSetting indicates a config file names a setting that does not exist.
var ErrUnknownSetting = errors.New("unknown setting")

// ParseError represents an error while parsing a configuration file.
type ParseError = loader.ParseError

// ValidationError describes a setting whose value cannot be used.
type ValidationError struct {
	// Field is the dotted setting path.
	Field string
	// Message describes the problem.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
