// Package sns provides custom error types for SNS topic operations.
package sns

import "errors"

var (
	// ErrTopicNotFound is returned when the topic the client is bound to does
	// not exist. SNS reports this either as a NotFound or as an
	// InvalidParameter error depending on how the ARN is malformed.
	ErrTopicNotFound = errors.New("topic not found")

	// ErrPublishFailed is returned for any other transport or service-level
	// rejection of a publish. The SDK error is kept as the cause.
	ErrPublishFailed = errors.New("publish failed")

	// ErrNotSerializable is returned by PublishJSON when the body cannot be
	// marshalled to JSON.
	ErrNotSerializable = errors.New("body not JSON serializable")

	// ErrAccessDenied is returned when the AWS credentials lack the sns:*
	// permissions for the operation.
	ErrAccessDenied = errors.New("access denied to topic")
)
