package lifecycle

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrEmptyProcessType = errors.New("process type is required")
	ErrNoStatuses       = errors.New("process has no statuses")
)

// UnknownProcessTypeError is returned when a process type is not registered.
// It indicates a configuration mismatch, not a data issue.
type UnknownProcessTypeError struct {
	Type ProcessType
}

func (err *UnknownProcessTypeError) Error() string {
	return fmt.Sprintf("unknown process type %q", string(err.Type))
}

// IsUnknownProcessType reports whether the cause of err is an *UnknownProcessTypeError.
func IsUnknownProcessType(err error) bool {
	_, ok := errors.Cause(err).(*UnknownProcessTypeError)
	return ok
}

// DefinitionError reports an invalid process definition passed to Register.
type DefinitionError struct {
	Type   ProcessType
	Reason string
}

func (err *DefinitionError) Error() string {
	return fmt.Sprintf("process %q: %s", string(err.Type), err.Reason)
}

func definitionErrorf(pt ProcessType, format string, args ...interface{}) error {
	return &DefinitionError{Type: pt, Reason: fmt.Sprintf(format, args...)}
}
