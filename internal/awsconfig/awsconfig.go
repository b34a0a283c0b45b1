// Package awsconfig centralizes AWS connection configuration for the service
// clients in this module. Every client accepts the same knobs (region, shared
// config profile, endpoint override, retry cap) and builds its SDK client from
// the aws.Config returned by Load.
//
// Connection configuration is passed explicitly into each client constructor
// rather than relying on ambient global session state. Credentials themselves
// still come from the standard AWS SDK credential chain (environment variables,
// shared credentials file, instance metadata).
package awsconfig

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// Settings holds the connection configuration shared by every service client.
// The zero value defers entirely to the AWS SDK default resolution chain.
type Settings struct {
	// Region is the AWS region, e.g. "eu-south-1". Empty means SDK default
	// resolution (env vars, shared config, instance metadata).
	Region string

	// Profile selects a named profile from the shared AWS config files.
	Profile string

	// Endpoint overrides the service endpoint URL. Used to route calls to a
	// local emulator (LocalStack) without changing call semantics.
	Endpoint string

	// MaxRetries caps the SDK retry attempts. Zero keeps the SDK default.
	MaxRetries int
}

// Load builds an aws.Config from the settings using the default credential
// chain. When an endpoint override is set, static test credentials are used
// instead, since local emulators do not validate them.
func Load(ctx context.Context, s Settings) (aws.Config, error) {
	var loadOpts []func(*config.LoadOptions) error

	if s.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(s.Region))
	}
	if s.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(s.Profile))
	}
	if s.Endpoint != "" {
		loadOpts = append(loadOpts,
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider("test", "test", ""),
			),
		)
		if s.Region == "" {
			loadOpts = append(loadOpts, config.WithRegion("us-east-1"))
		}
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if s.MaxRetries > 0 {
		cfg.RetryMaxAttempts = s.MaxRetries
	}

	return cfg, nil
}
