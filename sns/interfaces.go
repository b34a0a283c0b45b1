// Package sns defines the interface seam over the AWS SNS client.
package sns

import (
	"context"

	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSAPI defines the SNS operations used by this package.
// It abstracts the AWS SDK v2 SNS client to enable testing with mocks.
type SNSAPI interface {
	// Publish sends a message to a topic.
	Publish(
		ctx context.Context,
		params *awssns.PublishInput,
		optFns ...func(*awssns.Options),
	) (*awssns.PublishOutput, error)

	// CreateTopic creates a topic, or returns the existing one's ARN.
	CreateTopic(
		ctx context.Context,
		params *awssns.CreateTopicInput,
		optFns ...func(*awssns.Options),
	) (*awssns.CreateTopicOutput, error)
}
