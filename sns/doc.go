// Package sns provides a Go client for publishing to one AWS SNS topic.
//
// A Topic is bound to a single topic ARN at construction. Messages are
// published once and not stored by this library; delivery and ordering
// guarantees belong entirely to SNS.
//
// Example usage:
//
//	topic, err := sns.NewTopic(ctx, "arn:aws:sns:eu-south-1:477353422995:aws-watchdog-errors-prod")
//	if err != nil {
//	    return err
//	}
//
//	messageID, err := topic.Publish(ctx, "disk almost full",
//	    sns.WithSubject("watchdog alert"),
//	)
//	if errors.Is(err, sns.ErrTopicNotFound) {
//	    // the topic ARN does not exist
//	}
package sns
