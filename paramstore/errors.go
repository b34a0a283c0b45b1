// Package paramstore provides custom error types for Parameter Store operations.
package paramstore

import "errors"

var (
	// ErrParameterNotFound is returned when a requested parameter does not
	// exist, or when a path lookup finds no parameters under the path.
	// Use errors.Is to check for it.
	ErrParameterNotFound = errors.New("parameter not found")

	// ErrParameterAlreadyExists is returned by Put when the parameter exists
	// and overwriting was disabled with WithoutOverwrite.
	ErrParameterAlreadyExists = errors.New("parameter already exists")

	// ErrAccessDenied is returned when the AWS credentials lack the ssm:*
	// (and, for secrets, kms:Decrypt) permissions for the operation.
	ErrAccessDenied = errors.New("access denied to parameter")
)
