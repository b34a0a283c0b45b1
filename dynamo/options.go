// Package dynamo provides functional options for configuring the table client
// and its operations.
package dynamo

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"

	"github.com/puntonim/clients-monorepo/internal/awsconfig"
)

// clientOptions holds configuration options for the table client.
type clientOptions struct {
	logger   *slog.Logger
	settings awsconfig.Settings
}

// Option is a functional option for configuring the Client.
type Option func(*clientOptions)

// WithLogger configures the client with a structured logger.
// If logger is nil, logging is disabled. Item contents are never logged.
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

// WithEndpoint overrides the DynamoDB endpoint URL, e.g. for LocalStack or
// dynamodb-local testing. It also swaps the credential chain for static test
// credentials, so it is meant for local emulators, not real AWS endpoints.
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

// putOptions holds per-call configuration for PutItem.
type putOptions struct {
	condition   *expression.ConditionBuilder
	noOverwrite bool
}

// PutOption is a functional option for PutItem.
type PutOption func(*putOptions)

// WithCondition attaches a write condition to the put. When the condition is
// not met by the stored item, PutItem fails with ErrConditionalCheckFailed and
// the stored item is left unchanged.
func WithCondition(condition expression.ConditionBuilder) PutOption {
	return func(opts *putOptions) {
		opts.condition = &condition
	}
}

// WithoutOverwrite makes PutItem fail with ErrConditionalCheckFailed when an
// item with the same primary key already exists. The partition key alone is
// enough for this check. Overwriting is the default.
func WithoutOverwrite() PutOption {
	return func(opts *putOptions) {
		opts.noOverwrite = true
	}
}

// queryOptions holds per-call configuration for Query and Scan.
type queryOptions struct {
	filter     *expression.ConditionBuilder
	index      string
	pageLimit  int32
	descending bool
}

// QueryOption is a functional option for Query and Scan.
type QueryOption func(*queryOptions)

// WithFilter applies a filter expression, evaluated server side after the key
// condition. Filtered-out items still consume read capacity.
func WithFilter(filter expression.ConditionBuilder) QueryOption {
	return func(opts *queryOptions) {
		opts.filter = &filter
	}
}

// WithIndex runs the operation against a secondary index instead of the table.
func WithIndex(name string) QueryOption {
	return func(opts *queryOptions) {
		opts.index = name
	}
}

// WithPageLimit caps the number of items evaluated per page request. The
// iterator still walks every page; this only bounds individual round-trips.
func WithPageLimit(limit int32) QueryOption {
	return func(opts *queryOptions) {
		if limit > 0 {
			opts.pageLimit = limit
		}
	}
}

// WithDescending reverses the sort-key order of a Query. Ignored by Scan.
func WithDescending() QueryOption {
	return func(opts *queryOptions) {
		opts.descending = true
	}
}
