// Package lambda provides the Lambda client implementation.
package lambda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"

	"github.com/puntonim/clients-monorepo/internal/awsconfig"
)

// AWS error code constants.
const (
	accessDeniedException = "AccessDeniedException"
)

// Client provides a high-level interface for invoking a single AWS Lambda
// function. The function binding is immutable, so the client is safe for
// concurrent use by multiple goroutines.
type Client struct {
	// api is the underlying Lambda client (thread-safe).
	api LambdaAPI

	// gateway resolves API Gateway V2 endpoints; nil until first needed.
	gateway GatewayAPI

	// function is the name, ARN or partial ARN the client is bound to.
	function string

	// logger is used for structured logging of operations; nil disables logging.
	logger *slog.Logger
}

// New creates a new client bound to the named function. The name may be a
// function name, a full ARN or a partial ARN. Credentials come from the
// standard AWS SDK credential chain.
//
// Example usage:
//
//	client, err := lambda.New(ctx, "my-function",
//	    lambda.WithRegion("eu-south-1"),
//	)
func New(ctx context.Context, function string, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if function == "" {
		return nil, fmt.Errorf("function name cannot be empty")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	cfg, err := awsconfig.Load(ctx, options.settings)
	if err != nil {
		return nil, err
	}

	api := awslambda.NewFromConfig(cfg, func(o *awslambda.Options) {
		if options.settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.settings.Endpoint)
		}
	})
	gateway := apigatewayClientFromConfig(cfg, options.settings.Endpoint)

	return &Client{
		api:      api,
		gateway:  gateway,
		function: function,
		logger:   options.logger,
	}, nil
}

// NewWithConfig creates a new client from an existing AWS configuration,
// bypassing the default configuration loading.
func NewWithConfig(cfg *aws.Config, function string, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("config region cannot be empty")
	}
	if function == "" {
		return nil, fmt.Errorf("function name cannot be empty")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Client{
		api:      awslambda.NewFromConfig(*cfg),
		gateway:  apigatewayClientFromConfig(*cfg, ""),
		function: function,
		logger:   options.logger,
	}, nil
}

// NewWithClient creates a new client with custom API implementations. This is
// primarily used for testing with mocks. gateway may be nil if EndpointURL is
// not used.
func NewWithClient(api LambdaAPI, gateway GatewayAPI, function string, opts ...Option) *Client {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Client{
		api:      api,
		gateway:  gateway,
		function: function,
		logger:   options.logger,
	}
}

// Function returns the function name, ARN or partial ARN the client is bound
// to.
func (c *Client) Function() string {
	return c.function
}

// handleError processes dispatch errors from Lambda operations, mapping typed
// SDK errors to the package sentinels. The original SDK error is always kept
// as the cause. Remote execution failures never reach this function; they are
// reported as *FunctionError by Invoke.
func (c *Client) handleError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%s %q: %w", operation, c.function, ErrFunctionNotFound)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == accessDeniedException {
		return fmt.Errorf("%s %q: %w: %w", operation, c.function, ErrAccessDenied, err)
	}

	return fmt.Errorf("%s %q: %w: %w", operation, c.function, ErrInvokeFailed, err)
}

// marshalPayload encodes the invocation payload as JSON. A nil payload means
// no payload at all, not JSON null.
func marshalPayload(payload any) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotSerializable, err)
	}
	return data, nil
}

// Invoke synchronously invokes the function with the given payload and
// returns the raw response payload.
//
// The payload is JSON-encoded; pass nil to invoke without a payload. If the
// invocation is dispatched but the function itself raises an error, Invoke
// returns a *FunctionError carrying the runtime's error document; it matches
// ErrFunctionFailed under errors.Is. If the invocation never reaches the
// function, the error matches ErrInvokeFailed instead.
//
// Example usage:
//
//	out, err := client.Invoke(ctx, map[string]any{"action": "ping"})
//	var fnErr *lambda.FunctionError
//	if errors.As(err, &fnErr) {
//	    // the function ran and failed; inspect fnErr.Payload
//	}
func (c *Client) Invoke(ctx context.Context, payload any) ([]byte, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}

	data, err := marshalPayload(payload)
	if err != nil {
		return nil, err
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "invoking function", "function", c.function)
	}

	input := &awslambda.InvokeInput{
		FunctionName: aws.String(c.function),
		Payload:      data,
	}

	output, err := c.api.Invoke(ctx, input)
	if err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "failed to invoke function",
				"function", c.function, "error", err)
		}
		return nil, c.handleError(err, "Invoke")
	}

	if output.FunctionError != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "function execution failed",
				"function", c.function, "errorType", aws.ToString(output.FunctionError))
		}
		return nil, &FunctionError{
			ErrType: aws.ToString(output.FunctionError),
			Payload: output.Payload,
		}
	}

	return output.Payload, nil
}

// InvokeAsync dispatches an asynchronous (fire-and-forget) invocation and
// returns the request ID assigned by the service. The function's result is
// never observed; only dispatch failures are reported.
func (c *Client) InvokeAsync(ctx context.Context, payload any) (string, error) {
	if ctx == nil {
		return "", fmt.Errorf("context cannot be nil")
	}

	data, err := marshalPayload(payload)
	if err != nil {
		return "", err
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "invoking function asynchronously",
			"function", c.function)
	}

	input := &awslambda.InvokeInput{
		FunctionName:   aws.String(c.function),
		InvocationType: types.InvocationTypeEvent,
		Payload:        data,
	}

	output, err := c.api.Invoke(ctx, input)
	if err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "failed to invoke function asynchronously",
				"function", c.function, "error", err)
		}
		return "", c.handleError(err, "InvokeAsync")
	}

	requestID, _ := awsmiddleware.GetRequestIDMetadata(output.ResultMetadata)
	return requestID, nil
}
