// Package sns provides the SNS topic client implementation.
package sns

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/aws/smithy-go"

	"github.com/puntonim/clients-monorepo/internal/awsconfig"
)

// AWS error code constants.
const (
	authorizationErrorException = "AuthorizationError"
)

// contentTypeAttribute is the message attribute added by PublishJSON so
// subscribers can tell JSON bodies from plain text.
const contentTypeAttribute = "content_type"

// Topic provides a high-level publish interface for one SNS topic. The topic
// ARN is fixed at construction. It holds no mutable state, so it is safe for
// concurrent use by multiple goroutines.
type Topic struct {
	// api is the underlying SNS client (thread-safe).
	api SNSAPI

	// arn is the bound topic ARN, immutable for the client's lifetime.
	arn string

	// logger is used for structured logging of operations; nil disables logging.
	logger *slog.Logger
}

// NewTopic creates a new client bound to the topic ARN with the provided
// options. Credentials come from the standard AWS SDK credential chain.
//
// Example usage:
//
//	topic, err := sns.NewTopic(ctx,
//	    "arn:aws:sns:ap-southeast-1:289485838881:hdmap-services-events",
//	    sns.WithRegion("ap-southeast-1"),
//	)
func NewTopic(ctx context.Context, arn string, opts ...Option) (*Topic, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if arn == "" {
		return nil, fmt.Errorf("topic ARN cannot be empty")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	cfg, err := awsconfig.Load(ctx, options.settings)
	if err != nil {
		return nil, err
	}

	api := awssns.NewFromConfig(cfg, func(o *awssns.Options) {
		if options.settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.settings.Endpoint)
		}
	})

	return &Topic{
		api:    api,
		arn:    arn,
		logger: options.logger,
	}, nil
}

// NewTopicWithClient creates a new topic client with a custom SNSAPI
// implementation. This is primarily used for testing with mocks.
func NewTopicWithClient(api SNSAPI, arn string, opts ...Option) *Topic {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Topic{
		api:    api,
		arn:    arn,
		logger: options.logger,
	}
}

// ARN returns the topic ARN the client is bound to.
func (t *Topic) ARN() string {
	return t.arn
}

// handleError processes errors from SNS operations. Known codes map to the
// package sentinels; anything else is a publish failure. The original SDK
// error is always kept as the cause.
func (t *Topic) handleError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var notFound *types.NotFoundException
	var invalidParam *types.InvalidParameterException
	if errors.As(err, &notFound) || errors.As(err, &invalidParam) {
		return fmt.Errorf("%s to topic %q: %w", operation, t.arn, ErrTopicNotFound)
	}

	var authError *types.AuthorizationErrorException
	if errors.As(err, &authError) {
		return fmt.Errorf("%s to topic %q: %w: %w", operation, t.arn, ErrAccessDenied, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == authorizationErrorException {
		return fmt.Errorf("%s to topic %q: %w: %w", operation, t.arn, ErrAccessDenied, err)
	}

	return fmt.Errorf("%s to topic %q: %w: %w", operation, t.arn, ErrPublishFailed, err)
}

// Publish sends a message to the topic and returns the service-assigned
// message ID. The ID is opaque: use it for caller-side logging and
// correlation, never interpret it.
//
// Example usage:
//
//	messageID, err := topic.Publish(ctx, "disk almost full",
//	    sns.WithSubject("watchdog alert"),
//	    sns.WithAttribute("severity", "warning"),
//	)
func (t *Topic) Publish(ctx context.Context, message string, opts ...PublishOption) (string, error) {
	if ctx == nil {
		return "", fmt.Errorf("context cannot be nil")
	}
	if message == "" {
		return "", fmt.Errorf("message cannot be empty")
	}

	options := publishOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	if t.logger != nil {
		t.logger.InfoContext(ctx, "publishing message", "topic_arn", t.arn)
	}

	input := &awssns.PublishInput{
		TopicArn: aws.String(t.arn),
		Message:  aws.String(message),
	}
	if options.subject != "" {
		input.Subject = aws.String(options.subject)
	}
	if len(options.attributes) > 0 {
		input.MessageAttributes = make(map[string]types.MessageAttributeValue, len(options.attributes))
		for name, value := range options.attributes {
			input.MessageAttributes[name] = types.MessageAttributeValue{
				DataType:    aws.String("String"),
				StringValue: aws.String(value),
			}
		}
	}

	output, err := t.api.Publish(ctx, input)
	if err != nil {
		if t.logger != nil {
			t.logger.ErrorContext(ctx, "failed to publish message",
				"topic_arn", t.arn, "error", err)
		}
		return "", t.handleError(err, "Publish")
	}

	messageID := aws.ToString(output.MessageId)
	if t.logger != nil {
		t.logger.InfoContext(ctx, "message published",
			"topic_arn", t.arn, "message_id", messageID)
	}

	return messageID, nil
}

// PublishJSON marshals the body to JSON, publishes it, and adds a
// content_type=application/json string attribute so subscribers can detect
// the encoding. Bodies that cannot be marshalled fail with ErrNotSerializable.
func (t *Topic) PublishJSON(ctx context.Context, body any, opts ...PublishOption) (string, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("PublishJSON to topic %q: %w: %w", t.arn, ErrNotSerializable, err)
	}

	opts = append(opts, WithAttribute(contentTypeAttribute, "application/json"))
	return t.Publish(ctx, string(encoded), opts...)
}

// CreateTopic creates an SNS topic with the given name and returns its ARN.
// Creating an existing topic is idempotent and returns the same ARN.
// Typically used by tests against a local emulator; production topics are
// usually created by Terraform or Serverless.
func CreateTopic(ctx context.Context, name string, opts ...Option) (string, error) {
	if ctx == nil {
		return "", fmt.Errorf("context cannot be nil")
	}
	if name == "" {
		return "", fmt.Errorf("topic name cannot be empty")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	cfg, err := awsconfig.Load(ctx, options.settings)
	if err != nil {
		return "", err
	}

	api := awssns.NewFromConfig(cfg, func(o *awssns.Options) {
		if options.settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.settings.Endpoint)
		}
	})

	return createTopic(ctx, api, name)
}

// createTopic is the mockable core of CreateTopic.
func createTopic(ctx context.Context, api SNSAPI, name string) (string, error) {
	output, err := api.CreateTopic(ctx, &awssns.CreateTopicInput{
		Name: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("CreateTopic %q failed: %w", name, err)
	}
	return aws.ToString(output.TopicArn), nil
}
