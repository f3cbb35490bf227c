package errors

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// stackTrace is the trace recorded by the innermost wrap of err, if any.
func stackTrace(err error) errors.StackTrace {
	type tracer interface {
		StackTrace() errors.StackTrace
	}
	for err != nil {
		if t, ok := err.(tracer); ok {
			return t.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return nil
}

// Frames of the wrapping helpers and of the runtime do not help to locate a
// failure.
var (
	innerFrames = []string{
		"github.com/iov-one/splitnet/errors.Wrap",
		"github.com/iov-one/splitnet/errors.Field",
		"github.com/iov-one/splitnet/errors.Append",
		"github.com/iov-one/splitnet/errors.Recover",
		"runtime.",
	}
	outerFrames = []string{
		"runtime.",
		"testing.",
	}
)

func frameFunc(f errors.Frame) (name, file string, line int) {
	pc := uintptr(f) - 1
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown", "unknown", 0
	}
	file, line = fn.FileLine(pc)
	return fn.Name(), file, line
}

func frameIn(f errors.Frame, prefixes []string) bool {
	name, _, _ := frameFunc(f)
	for _, p := range prefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// relevant cuts the frames of the error machinery from the top of st and
// the frames of the program start from its bottom.
func relevant(st errors.StackTrace) errors.StackTrace {
	for len(st) > 1 && frameIn(st[0], innerFrames) {
		st = st[1:]
	}
	for len(st) > 1 && frameIn(st[len(st)-1], outerFrames) {
		st = st[:len(st)-1]
	}
	return st
}

// Format prints the message for %s. %v adds the place the error was
// created at, %+v the whole stack trace.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb != 'v' {
		fmt.Fprint(s, e.Error())
		return
	}
	st := relevant(stackTrace(e))
	if s.Flag('+') {
		fmt.Fprintf(s, "%+v\n%s", st, e.Error())
		return
	}
	fmt.Fprint(s, e.Error())
	if len(st) == 0 {
		return
	}
	_, file, line := frameFunc(st[0])
	if i := strings.Index(file, "github.com/"); i >= 0 {
		file = file[i+len("github.com/"):]
	}
	fmt.Fprintf(s, " [%s:%d]", file, line)
}
