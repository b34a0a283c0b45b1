package lambda

import (
	"log/slog"

	"github.com/puntonim/clients-monorepo/internal/awsconfig"
)

// clientOptions holds configuration options for the Lambda client.
type clientOptions struct {
	logger   *slog.Logger
	settings awsconfig.Settings
}

// Option is a functional option for configuring the Client.
type Option func(*clientOptions)

// WithLogger configures the client with a structured logger.
// If logger is nil, logging is disabled. Payloads are never logged.
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

// WithEndpoint overrides the Lambda endpoint URL, e.g. for LocalStack testing.
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
