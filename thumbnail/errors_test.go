package thumbnail

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorNilReceiver(t *testing.T) {
	var e *Error

	if got := e.Error(); got != "" {
		t.Fatalf("expected empty string for nil receiver, got %q", got)
	}
	if e.Unwrap() != nil {
		t.Fatalf("expected nil unwrap for nil receiver")
	}
}

func TestErrorWrapsCause(t *testing.T) {
	root := errors.New("connection reset")
	err := newError(KindObjectStore, "get s3://b/k", root)

	if got := err.Error(); got != "get s3://b/k: connection reset" {
		t.Fatalf("unexpected error text: %q", got)
	}
	if !errors.Is(err, root) {
		t.Fatalf("expected wrapped error to be discoverable via errors.Is")
	}
}

func TestKindOfThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", newError(KindNotFound, "record x not found", nil))

	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not found, got %v", KindOf(err))
	}
	if IsKind(nil, KindUnknown) {
		t.Fatalf("nil error must not match any kind")
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Fatalf("expected unknown kind for plain error")
	}
	if !IsKind(InvalidEvent("no records"), KindInvalidEvent) {
		t.Fatalf("expected invalid event kind")
	}
}
