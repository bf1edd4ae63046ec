// FILE: pkg/alerting/errors.go
package alerting

import (
	"errors"
	"fmt"
)

// ErrConfig is the sentinel for errors.Is checks on threshold configuration
// problems.
var ErrConfig = errors.New("invalid alert configuration")

type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid alert configuration: %s %s", e.Key, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfig
}
