package normalize

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrStructureTooDeep indicates the traversal depth ceiling was exceeded.
	ErrStructureTooDeep = errors.New("structure too deep")

	// ErrCircularReference indicates an identity reappeared on the active
	// traversal stack.
	ErrCircularReference = errors.New("circular reference")

	// ErrMisplacedBridgeValue indicates a bridge value was placed under a
	// key other than the one its adapter mandates.
	ErrMisplacedBridgeValue = errors.New("misplaced bridge value")

	// ErrUnsupportedType indicates a value matched no recognized
	// classification.
	ErrUnsupportedType = errors.New("unsupported type")
)

// SerializeError represents a traversal failure.
// It wraps a sentinel error with context about where traversal stopped.
// The enclosing Serialize call produces no partial output.
type SerializeError struct {
	Err   error  // Underlying sentinel error (ErrCircularReference, etc.)
	Type  string // Runtime type name of the offending value
	Key   string // Mapping key under which the value appeared, if any
	Depth int    // Traversal depth at the point of failure
}

func (e *SerializeError) Error() string {
	msg := e.Err.Error()
	if e.Type != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Type)
	}
	if e.Key != "" {
		msg = fmt.Sprintf("%s (key %q)", msg, e.Key)
	}
	if errors.Is(e.Err, ErrStructureTooDeep) {
		msg = fmt.Sprintf("%s (depth %d)", msg, e.Depth)
	}
	return msg
}

func (e *SerializeError) Unwrap() error {
	return e.Err
}

// newTooDeepError creates a SerializeError for a depth ceiling violation.
func newTooDeepError(typeName, key string, depth int) error {
	return &SerializeError{
		Err:   ErrStructureTooDeep,
		Type:  typeName,
		Key:   key,
		Depth: depth,
	}
}

// newCircularError creates a SerializeError for a traversal cycle.
func newCircularError(typeName, key string, depth int) error {
	return &SerializeError{
		Err:   ErrCircularReference,
		Type:  typeName,
		Key:   key,
		Depth: depth,
	}
}

// newMisplacedError creates a SerializeError for a bridge value under a
// non-mandated key.
func newMisplacedError(typeName, key string, depth int) error {
	return &SerializeError{
		Err:   ErrMisplacedBridgeValue,
		Type:  typeName,
		Key:   key,
		Depth: depth,
	}
}

// newUnsupportedError creates a SerializeError naming an unrecognized type.
func newUnsupportedError(typeName, key string, depth int) error {
	return &SerializeError{
		Err:   ErrUnsupportedType,
		Type:  typeName,
		Key:   key,
		Depth: depth,
	}
}
