package enhanced

import (
	"errors"
	"fmt"
	"testing"
)

// TestCodeOf verifies taxonomy extraction across wrapping.
func TestCodeOf(t *testing.T) {
	if got := CodeOf(nil); got != CodeSuccess {
		t.Errorf("Expected Success for nil, got %v", got)
	}

	err := Errorf(CodeInvalidInput, "bad subset")
	if got := CodeOf(err); got != CodeInvalidInput {
		t.Errorf("Expected InvalidInput, got %v", got)
	}

	wrapped := fmt.Errorf("outer context: %w", err)
	if got := CodeOf(wrapped); got != CodeInvalidInput {
		t.Errorf("Expected InvalidInput through wrapping, got %v", got)
	}

	if got := CodeOf(errors.New("plain")); got != CodeInternalError {
		t.Errorf("Expected InternalError for foreign error, got %v", got)
	}
}

// TestWrapErrorUnwrap verifies the cause chain survives.
func TestWrapErrorUnwrap(t *testing.T) {
	cause := errors.New("disk gone")
	err := WrapError(CodeParseFailed, cause, "opening file")

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}
	if err.Error() == "" {
		t.Error("Expected a message")
	}
}

// TestCodeString spot-checks stable names.
func TestCodeString(t *testing.T) {
	cases := map[Code]string{
		CodeSuccess:                "Success",
		CodeNotEnhancedIOD:         "NotEnhancedIOD",
		CodeUnsupportedPixelFormat: "UnsupportedPixelFormat",
		Code(99):                   "Code(99)",
	}
	for code, want := range cases {
		if got := code.String(); got != want {
			t.Errorf("Code %d: expected %q, got %q", int(code), want, got)
		}
	}
}
