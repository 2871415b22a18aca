// Package failure defines the tagged error type shared by all components.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers can branch on it without type switches.
type Kind int

// Known error kinds.
const (
	KindUnknown Kind = iota
	KindConfigMissing
	KindTransport
	KindDecode
	KindMissingField
	KindTypeMismatch
	KindUnknownStatus
	KindDeliveryFailure
)

var kindNames = map[Kind]string{
	KindUnknown:         "unknown",
	KindConfigMissing:   "config_missing",
	KindTransport:       "transport",
	KindDecode:          "decode",
	KindMissingField:    "missing_field",
	KindTypeMismatch:    "type_mismatch",
	KindUnknownStatus:   "unknown_status",
	KindDeliveryFailure: "delivery_failure",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is an error tagged with a Kind.
// StatusCode is set for Transport errors caused by a non-200 HTTP response.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Err.Error()
	case e.Op != "":
		return e.Op
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an Error of the given kind wrapping err.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf returns an Error of the given kind with a formatted message.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
