/*
Package errors implements the error handling used across splitnet.

Every error returned by the framework or an extension wraps one of the root
errors created with Register. A root error carries an ABCI code so that a
client can tell the failures apart without parsing messages.

Declare root errors once, at package level:

	var ErrLocked = errors.Register(1004, "unit locked")

and create runtime instances by wrapping them at the point of failure:

	return errors.Wrapf(ErrLocked, "unit %s", addr)

Use (*Error).Is to test an error for a root cause. The first wrap attaches a
stack trace which is printed with the %+v verb.
*/
package errors
