// Package paramstore provides functional options for configuring the
// Parameter Store client and its operations.
package paramstore

import (
	"log/slog"

	"github.com/puntonim/clients-monorepo/internal/awsconfig"
)

// clientOptions holds configuration options for the Parameter Store client.
type clientOptions struct {
	logger   *slog.Logger
	settings awsconfig.Settings
}

// Option is a functional option for configuring the Client.
type Option func(*clientOptions)

// WithLogger configures the client with a structured logger.
// If logger is nil, logging is disabled. Parameter values are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *clientOptions) {
		opts.logger = logger
	}
}

// WithRegion sets the AWS region, e.g. "eu-south-1".
// Default: AWS SDK region resolution.
func WithRegion(region string) Option {
	return func(opts *clientOptions) {
		opts.settings.Region = region
	}
}

// WithProfile selects a named profile from the shared AWS config files.
func WithProfile(profile string) Option {
	return func(opts *clientOptions) {
		opts.settings.Profile = profile
	}
}

// WithEndpoint overrides the SSM endpoint URL, e.g. for LocalStack testing.
// It also swaps the credential chain for static test credentials, so it is
// meant for local emulators, not real AWS endpoints.
func WithEndpoint(endpoint string) Option {
	return func(opts *clientOptions) {
		opts.settings.Endpoint = endpoint
	}
}

// WithMaxRetries caps the SDK retry attempts. Zero keeps the SDK default.
func WithMaxRetries(maxRetries int) Option {
	return func(opts *clientOptions) {
		opts.settings.MaxRetries = maxRetries
	}
}

// defaultOptions returns the default client configuration.
func defaultOptions() *clientOptions {
	return &clientOptions{}
}

// getOptions holds per-call configuration for Get and GetByPath.
type getOptions struct {
	decrypt   bool
	recursive bool
}

// GetOption is a functional option for Get and GetByPath.
type GetOption func(*getOptions)

// WithoutDecryption disables transparent decryption of SecureString values.
// Decryption is enabled by default.
func WithoutDecryption() GetOption {
	return func(opts *getOptions) {
		opts.decrypt = false
	}
}

// WithoutRecursion limits GetByPath to the direct children of the path.
// Ignored by Get. Recursion is enabled by default.
func WithoutRecursion() GetOption {
	return func(opts *getOptions) {
		opts.recursive = false
	}
}

// putOptions holds per-call configuration for Put.
type putOptions struct {
	secure      bool
	overwrite   bool
	description string
}

// PutOption is a functional option for Put.
type PutOption func(*putOptions)

// AsSecret stores the value as a SecureString, encrypted at rest with the
// account's default KMS key and decrypted transparently on read.
func AsSecret() PutOption {
	return func(opts *putOptions) {
		opts.secure = true
	}
}

// WithoutOverwrite makes Put fail with ErrParameterAlreadyExists when the
// parameter already exists. Overwriting is the default.
func WithoutOverwrite() PutOption {
	return func(opts *putOptions) {
		opts.overwrite = false
	}
}

// WithDescription attaches a description to the parameter.
func WithDescription(description string) PutOption {
	return func(opts *putOptions) {
		opts.description = description
	}
}
