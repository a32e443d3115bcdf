package dichos

import (
	"errors"
	"fmt"
)

// Kind sentinels let callers classify failures with errors.Is without
// depending on message text.
var (
	ErrInsufficientData     = errors.New("insufficient data")
	ErrInvalidScore         = errors.New("invalid score")
	ErrConfiguration        = errors.New("configuration error")
	ErrDegenerateClustering = errors.New("degenerate clustering")
)

// Error carries the taxonomy kind and the offending input reference
// (entry id, k value or config field).
type Error struct {
	Kind error
	Ref  string
	msg  string
}

func (e *Error) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind.Error(), e.Ref, e.msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.msg)
}

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, ref, format string, args ...any) *Error {
	return &Error{Kind: kind, Ref: ref, msg: fmt.Sprintf(format, args...)}
}
