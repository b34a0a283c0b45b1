// Package sns provides functional options for configuring the topic client
// and its publish operations.
package sns

import (
	"log/slog"

	"github.com/puntonim/clients-monorepo/internal/awsconfig"
)

// clientOptions holds configuration options for the topic client.
type clientOptions struct {
	logger   *slog.Logger
	settings awsconfig.Settings
}

// Option is a functional option for configuring a Topic.
type Option func(*clientOptions)

// WithLogger configures the client with a structured logger.
// If logger is nil, logging is disabled. Message bodies are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *clientOptions) {
		opts.logger = logger
	}
}

// WithRegion sets the AWS region, e.g. "eu-south-1".
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

// WithEndpoint overrides the SNS endpoint URL, e.g. for LocalStack testing.
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

// publishOptions holds per-call configuration for Publish and PublishJSON.
type publishOptions struct {
	subject    string
	attributes map[string]string
}

// PublishOption is a functional option for Publish and PublishJSON.
type PublishOption func(*publishOptions)

// WithSubject sets the optional subject line, used for email subscriptions
// and shown in the SNS console.
func WithSubject(subject string) PublishOption {
	return func(opts *publishOptions) {
		opts.subject = subject
	}
}

// WithAttribute attaches a string message attribute. Subscribers use
// attributes for filtering; this library never interprets them.
func WithAttribute(name, value string) PublishOption {
	return func(opts *publishOptions) {
		if opts.attributes == nil {
			opts.attributes = make(map[string]string)
		}
		opts.attributes[name] = value
	}
}
