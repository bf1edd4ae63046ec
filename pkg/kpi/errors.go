// FILE: pkg/kpi/errors.go
package kpi

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrDataIntegrity is the sentinel for errors.Is checks. Integrity violations
// are always surfaced to the caller, never silently coerced.
var ErrDataIntegrity = errors.New("data integrity violation")

// DataIntegrityError carries the offending record and field. Matchable with
// errors.As, and errors.Is(err, ErrDataIntegrity) via Unwrap.
type DataIntegrityError struct {
	SubscriptionId uuid.UUID
	Field          string
	Value          interface{}
	Reason         string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity violation on subscription %s: %s (%s=%v)",
		e.SubscriptionId, e.Reason, e.Field, e.Value)
}

func (e *DataIntegrityError) Unwrap() error {
	return ErrDataIntegrity
}
