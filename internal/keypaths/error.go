package keypaths

import "fmt"

// Error reports an invalid Profile.
type Error struct {
	msg string
}

func (e *Error) Error() string { return "keypaths: " + e.msg }

func newError(format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}
