package errors

import "fmt"

const (
	// SuccessABCICode is the code of a response without an error.
	SuccessABCICode = 0

	// Failures without a registered root are internal. Their message can
	// leak implementation details, so outside of debug mode it is replaced.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo is the code and log tendermint reports for err. In debug mode
// the log carries the stack trace of the error.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

type coder interface {
	ABCICode() uint32
}

// abciCode is the code of the first error in the cause chain that has one.
func abciCode(err error) uint32 {
	for !errIsNil(err) {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		next, ok := err.(causer)
		if !ok {
			break
		}
		err = next.Cause()
	}
	return internalABCICode
}

// ABCIError rebuilds an error from a response code and log, so a client can
// test a remote failure with Is. Codes unknown locally are kept as they are.
func ABCIError(code uint32, log string) error {
	if code == SuccessABCICode {
		return nil
	}
	if root := registry[code]; root != nil {
		return Wrap(root, log)
	}
	return remoteError{code: code, log: log}
}

type remoteError struct {
	code uint32
	log  string
}

func (e remoteError) Error() string {
	return fmt.Sprintf("code %d: %s", e.code, e.log)
}

func (e remoteError) ABCICode() uint32 {
	return e.code
}
