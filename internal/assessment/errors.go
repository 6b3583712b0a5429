package assessment

import (
	"errors"
	"fmt"
)

// ErrNoResponses is returned when overall scoring or result assembly is
// invoked with an empty response set.
var ErrNoResponses = errors.New("assessment: no responses")

// ConfigurationError indicates a catalog/constants mismatch: a question
// referencing an unknown construct or dimension, or a norms lookup for an
// unconfigured id. These are fail-fast errors, never tolerated silently.
type ConfigurationError struct {
	Entity string // "construct", "dimension", "question"
	ID     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("assessment: unknown %s %q", e.Entity, e.ID)
}
