// Package lambda provides a client for invoking AWS Lambda functions.
//
// A Client is bound to a single function at construction time. It supports
// synchronous invocation with JSON payloads, fire-and-forget asynchronous
// invocation, and resolution of the function's public HTTP endpoint (either
// a Lambda function URL or an API Gateway V2 route).
//
// Remote execution failures are surfaced as *FunctionError, which carries
// the error payload returned by the function and matches ErrFunctionFailed
// under errors.Is. Dispatch failures (the invocation never reached the
// function) are reported as ErrInvokeFailed.
//
// Example:
//
//	client, err := lambda.New(ctx, "my-function")
//	if err != nil {
//	    return err
//	}
//
//	out, err := client.Invoke(ctx, map[string]any{"action": "ping"})
//	var fnErr *lambda.FunctionError
//	if errors.As(err, &fnErr) {
//	    log.Printf("function raised %s: %s", fnErr.ErrType, fnErr.Payload)
//	}
package lambda
