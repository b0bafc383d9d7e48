package puller

import (
	"errors"
	"strings"
)

var (
	// ErrConfiguration matches any *ConfigurationError via errors.Is.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrInvalidArgument matches any *InvalidArgumentError via errors.Is.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ConfigurationError reports every problem found in a Selection.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string { return strings.Join(e.Problems, "\n") }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// InvalidArgumentError reports every problem found in the arguments of a call.
type InvalidArgumentError struct {
	Problems []string
}

func (e *InvalidArgumentError) Error() string { return strings.Join(e.Problems, "\n") }

func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }
