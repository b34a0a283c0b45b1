// Package dynamo provides custom error types for DynamoDB table operations.
package dynamo

import "errors"

var (
	// ErrTableNotFound is returned when the table the client is bound to does
	// not exist in the target account and region.
	ErrTableNotFound = errors.New("table not found")

	// ErrConditionalCheckFailed is returned by PutItem when a write condition
	// (a caller-supplied condition or WithoutOverwrite) is not met by the
	// currently stored item. The stored item is left unchanged.
	ErrConditionalCheckFailed = errors.New("conditional check failed")

	// ErrAccessDenied is returned when the AWS credentials lack the dynamodb:*
	// permissions for the operation.
	ErrAccessDenied = errors.New("access denied to table")
)
