package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors shared by every extension.
var (
	ErrUnauthorized = Register(2, "unauthorized")
	ErrNotFound     = Register(3, "not found")
	ErrMsg          = Register(4, "invalid message")
	ErrModel        = Register(5, "invalid model")
	ErrDuplicate    = Register(6, "duplicate")
	// ErrHuman marks a code path that correct wiring never reaches.
	ErrHuman     = Register(7, "coding error")
	ErrImmutable = Register(8, "cannot be modified")
	ErrEmpty     = Register(9, "value is empty")
	ErrState     = Register(10, "invalid state")
	ErrType      = Register(11, "invalid type")
	ErrAmount    = Register(12, "invalid amount")
	ErrInput     = Register(13, "invalid input")
	ErrExpired   = Register(14, "expired")
	ErrOverflow  = Register(15, "value overflow")
	ErrDatabase  = Register(16, "database")
	// ErrIteratorDone ends an iteration, it never reaches a client.
	ErrIteratorDone = Register(17, "iterator done")
	ErrNetwork      = Register(18, "network")

	// ErrPanic hides the details of a recovered panic from clients.
	ErrPanic = Register(111222, "panic")
)

// registry maps every code in use to its root error. Code 1 stands for
// unclassified internal failures and is never registered.
var registry = map[uint32]*Error{internalABCICode: nil}

// Register declares a root error. It must be called from package level
// variable declarations, a code used twice panics.
func Register(code uint32, description string) *Error {
	if prev, taken := registry[code]; taken {
		name := "internal"
		if prev != nil {
			name = prev.desc
		}
		panic(fmt.Sprintf("error code %d is taken by %q", code, name))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Error is a root error. Failures returned at runtime wrap one of them, so
// that the cause and its ABCI code survive any number of wraps.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

// Is reports whether err has e as its root cause. A nil root matches nil
// errors, typed nil pointers included.
func (e *Error) Is(err error) bool {
	if e == nil {
		return errIsNil(err)
	}
	for err != nil {
		if err == e {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// Wrap adds context to err, or returns nil when err is nil so it can close
// a function. The innermost wrap records the stack trace.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

type causer interface {
	Cause() error
}

// Recover turns a panic into an ErrPanic assigned to *err. It only works
// when deferred.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// Append joins errs into one, skipping nils. The first failure stays the
// cause and the messages of the others are kept.
func Append(errs ...error) error {
	var first error
	var rest string
	for _, e := range errs {
		switch {
		case errIsNil(e):
		case first == nil:
			first = e
		case rest == "":
			rest = e.Error()
		default:
			rest += "; " + e.Error()
		}
	}
	if first == nil || rest == "" {
		return first
	}
	return Wrap(first, rest)
}

// Field names the message or model attribute err is about. A nil err stays
// nil, which lets Validate methods append the results of every check.
func Field(name string, err error, description string, args ...interface{}) error {
	if errIsNil(err) {
		return nil
	}
	if len(args) != 0 {
		description = fmt.Sprintf(description, args...)
	}
	return Wrapf(err, "%s: %s", name, description)
}

func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
