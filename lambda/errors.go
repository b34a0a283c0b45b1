package lambda

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes. Use errors.Is to check for
// them, as they may be wrapped with additional context.
var (
	// ErrFunctionNotFound is returned when the function does not exist.
	ErrFunctionNotFound = errors.New("function not found")

	// ErrInvokeFailed is returned when the invocation never reached the
	// function (throttling, networking, permissions on the Invoke call).
	ErrInvokeFailed = errors.New("invoke failed")

	// ErrFunctionFailed matches any *FunctionError under errors.Is. It is
	// never returned directly.
	ErrFunctionFailed = errors.New("function execution failed")

	// ErrNoEndpoint is returned when the function has neither a function
	// URL nor a resolvable API Gateway route.
	ErrNoEndpoint = errors.New("no HTTP endpoint configured for function")

	// ErrNotSerializable is returned when a payload cannot be encoded as
	// JSON.
	ErrNotSerializable = errors.New("payload not serializable to JSON")

	// ErrAccessDenied is returned when access to the function is denied.
	ErrAccessDenied = errors.New("access denied")
)

// FunctionError reports that the invocation was dispatched successfully but
// the function itself raised an error. ErrType is the value of the
// X-Amz-Function-Error header ("Handled" or "Unhandled") and Payload is the
// raw error document returned by the runtime.
type FunctionError struct {
	ErrType string
	Payload []byte
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("function execution failed (%s): %s", e.ErrType, e.Payload)
}

// Is makes errors.Is(err, ErrFunctionFailed) match any FunctionError.
func (e *FunctionError) Is(target error) bool {
	return target == ErrFunctionFailed
}
