package thumbnail

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so handlers can pick a response without string
// matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindDecode
	KindEncode
	KindObjectStore
	KindRecordStore
	KindNotFound
	KindInvalidEvent
)

func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "decode"
	case KindEncode:
		return "encode"
	case KindObjectStore:
		return "object store"
	case KindRecordStore:
		return "record store"
	case KindNotFound:
		return "not found"
	case KindInvalidEvent:
		return "invalid event"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// InvalidEvent reports a malformed trigger or request.
func InvalidEvent(msg string) error {
	return newError(KindInvalidEvent, msg, nil)
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
