package normalize

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"too deep", newTooDeepError("map[string]interface {}", "child", 33), ErrStructureTooDeep},
		{"circular", newCircularError("*normalize.listNode", "next", 3), ErrCircularReference},
		{"misplaced", newMisplacedError("normalize.stubList", "data", 1), ErrMisplacedBridgeValue},
		{"unsupported", newUnsupportedError("chan int", "", 0), ErrUnsupportedType},
	}

	for _, tt := range tests {
		if !errors.Is(tt.err, tt.sentinel) {
			t.Errorf("%s: errors.Is failed for %v", tt.name, tt.err)
		}

		var serr *SerializeError
		if !errors.As(tt.err, &serr) {
			t.Errorf("%s: errors.As failed for %T", tt.name, tt.err)
		}
	}
}

func TestSerializeErrorMessage(t *testing.T) {
	tests := []struct {
		err  error
		want []string
	}{
		{
			newUnsupportedError("chan int", "", 0),
			[]string{"unsupported type", "chan int"},
		},
		{
			newCircularError("*normalize.listNode", "next", 3),
			[]string{"circular reference", "*normalize.listNode", `"next"`},
		},
		{
			newTooDeepError("map[string]interface {}", "child", 33),
			[]string{"structure too deep", "depth 33"},
		},
		{
			newMisplacedError("normalize.stubList", "data", 1),
			[]string{"misplaced bridge value", `"data"`},
		},
	}

	for _, tt := range tests {
		msg := tt.err.Error()
		for _, fragment := range tt.want {
			if !strings.Contains(msg, fragment) {
				t.Errorf("message %q missing %q", msg, fragment)
			}
		}
	}
}

func TestSerializeErrorUnwrap(t *testing.T) {
	err := &SerializeError{Err: ErrCircularReference, Type: "*T"}
	if err.Unwrap() != ErrCircularReference {
		t.Errorf("Unwrap = %v, want ErrCircularReference", err.Unwrap())
	}
}

func TestSerializeErrorMinimal(t *testing.T) {
	err := &SerializeError{Err: ErrUnsupportedType}
	if err.Error() != "unsupported type" {
		t.Errorf("Error = %q, want bare sentinel message", err.Error())
	}
}
