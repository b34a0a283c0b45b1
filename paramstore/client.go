// Package paramstore provides the Parameter Store client implementation.
package paramstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/smithy-go"

	"github.com/puntonim/clients-monorepo/internal/awsconfig"
)

// AWS error code constants.
const (
	accessDeniedException = "AccessDeniedException"
)

// Client provides a high-level interface for AWS Systems Manager Parameter
// Store. It holds no state besides the immutable SDK client and logger, so it
// is safe for concurrent use by multiple goroutines.
type Client struct {
	// api is the underlying SSM client (thread-safe).
	api ParamStoreAPI

	// logger is used for structured logging of operations; nil disables logging.
	logger *slog.Logger
}

// New creates a new Parameter Store client with the provided options.
// Credentials come from the standard AWS SDK credential chain.
//
// Example usage:
//
//	client, err := paramstore.New(ctx,
//	    paramstore.WithRegion("eu-south-1"),
//	    paramstore.WithLogger(slog.Default()),
//	)
func New(ctx context.Context, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	cfg, err := awsconfig.Load(ctx, options.settings)
	if err != nil {
		return nil, err
	}

	api := ssm.NewFromConfig(cfg, func(o *ssm.Options) {
		if options.settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.settings.Endpoint)
		}
	})

	return &Client{
		api:    api,
		logger: options.logger,
	}, nil
}

// NewWithConfig creates a new Parameter Store client from an existing AWS
// configuration, bypassing the default configuration loading.
func NewWithConfig(cfg *aws.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("config region cannot be empty")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Client{
		api:    ssm.NewFromConfig(*cfg),
		logger: options.logger,
	}, nil
}

// NewWithClient creates a new Parameter Store client with a custom
// ParamStoreAPI implementation. This is primarily used for testing with mocks.
func NewWithClient(api ParamStoreAPI, opts ...Option) *Client {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Client{
		api:    api,
		logger: options.logger,
	}
}

// handleError processes errors from SSM operations, mapping typed SDK errors
// to the package sentinels and wrapping everything else with operation context.
// The original SDK error is always kept as the cause.
func (c *Client) handleError(err error, operation, name string) error {
	if err == nil {
		return nil
	}

	var notFound *types.ParameterNotFound
	if errors.As(err, &notFound) {
		return fmt.Errorf("%s %q: %w", operation, name, ErrParameterNotFound)
	}

	var alreadyExists *types.ParameterAlreadyExists
	if errors.As(err, &alreadyExists) {
		return fmt.Errorf("%s %q: %w", operation, name, ErrParameterAlreadyExists)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if apiErr.ErrorCode() == accessDeniedException {
			return fmt.Errorf("%s %q: %w: %w", operation, name, ErrAccessDenied, err)
		}
		return fmt.Errorf("%s %q failed: %s: %w", operation, name, apiErr.ErrorCode(), err)
	}

	return fmt.Errorf("%s %q failed: %w", operation, name, err)
}

// Get retrieves the value of a parameter by name.
//
// SecureString values are decrypted transparently unless WithoutDecryption is
// passed. A missing name fails with ErrParameterNotFound: for single-parameter
// lookup, absence is not a normal outcome.
//
// Example usage:
//
//	value, err := client.Get(ctx, "/my-app/prod/api-key")
//	if errors.Is(err, paramstore.ErrParameterNotFound) {
//	    // handle missing parameter
//	}
func (c *Client) Get(ctx context.Context, name string, opts ...GetOption) (string, error) {
	if ctx == nil {
		return "", fmt.Errorf("context cannot be nil")
	}
	if name == "" {
		return "", fmt.Errorf("parameter name cannot be empty")
	}

	options := getOptions{decrypt: true, recursive: true}
	for _, opt := range opts {
		opt(&options)
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "retrieving parameter", "name", name)
	}

	input := &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(options.decrypt),
	}

	output, err := c.api.GetParameter(ctx, input)
	if err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "failed to retrieve parameter",
				"name", name, "error", err)
		}
		return "", c.handleError(err, "Get", name)
	}

	return aws.ToString(output.Parameter.Value), nil
}

// GetByPath retrieves every parameter under a hierarchical path, returning a
// mapping from full parameter name to value. Pagination is exhausted
// internally; callers never see a page boundary.
//
// SSM does not distinguish "path exists but is empty" from "path not found",
// so a path with no parameters under it fails with ErrParameterNotFound.
func (c *Client) GetByPath(ctx context.Context, path string, opts ...GetOption) (map[string]string, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if path == "" {
		return nil, fmt.Errorf("parameter path cannot be empty")
	}

	options := getOptions{decrypt: true, recursive: true}
	for _, opt := range opts {
		opt(&options)
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "retrieving parameters by path", "path", path)
	}

	values := make(map[string]string)
	var nextToken *string

	for {
		input := &ssm.GetParametersByPathInput{
			Path:           aws.String(path),
			Recursive:      aws.Bool(options.recursive),
			WithDecryption: aws.Bool(options.decrypt),
			NextToken:      nextToken,
		}

		output, err := c.api.GetParametersByPath(ctx, input)
		if err != nil {
			if c.logger != nil {
				c.logger.ErrorContext(ctx, "failed to retrieve parameters by path",
					"path", path, "error", err)
			}
			return nil, c.handleError(err, "GetByPath", path)
		}

		for _, param := range output.Parameters {
			values[aws.ToString(param.Name)] = aws.ToString(param.Value)
		}

		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}

	if len(values) == 0 {
		return nil, fmt.Errorf("GetByPath %q: no parameters under path: %w",
			path, ErrParameterNotFound)
	}

	return values, nil
}

// Put creates or updates a parameter.
//
// By default the value is stored as a plain String and existing parameters are
// overwritten. Use AsSecret to store a SecureString, and WithoutOverwrite to
// fail with ErrParameterAlreadyExists when the name is taken.
//
// Example usage:
//
//	err := client.Put(ctx, "/my-app/prod/api-key", "s3cr3t",
//	    paramstore.AsSecret(),
//	    paramstore.WithoutOverwrite(),
//	)
func (c *Client) Put(ctx context.Context, name, value string, opts ...PutOption) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	if name == "" {
		return fmt.Errorf("parameter name cannot be empty")
	}
	if value == "" {
		return fmt.Errorf("parameter value cannot be empty")
	}

	options := putOptions{overwrite: true}
	for _, opt := range opts {
		opt(&options)
	}

	paramType := types.ParameterTypeString
	if options.secure {
		paramType = types.ParameterTypeSecureString
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "writing parameter",
			"name", name, "type", string(paramType))
	}

	input := &ssm.PutParameterInput{
		Name:      aws.String(name),
		Value:     aws.String(value),
		Type:      paramType,
		Overwrite: aws.Bool(options.overwrite),
	}
	if options.description != "" {
		input.Description = aws.String(options.description)
	}

	if _, err := c.api.PutParameter(ctx, input); err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "failed to write parameter",
				"name", name, "error", err)
		}
		return c.handleError(err, "Put", name)
	}

	return nil
}
