// Package dynamo provides the DynamoDB table client implementation.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/puntonim/clients-monorepo/internal/awsconfig"
)

// AWS error code constants.
const (
	accessDeniedException = "AccessDeniedException"
)

// Item is a table record: a mapping from attribute name to value. Values are
// converted with the SDK's attributevalue feature, so nested maps, slices,
// strings, numbers and booleans all work.
type Item = map[string]any

// Key identifies an item by its primary key attributes: the partition key,
// plus the sort key when the table has a composite key.
type Key = map[string]any

// Client provides a high-level interface for one DynamoDB table. The table
// name is fixed at construction. The client holds no mutable state besides a
// lazily discovered, immutable key schema, so it is safe for concurrent use.
type Client struct {
	// api is the underlying DynamoDB client (thread-safe).
	api TableAPI

	// table is the bound table name, immutable for the client's lifetime.
	table string

	// logger is used for structured logging of operations; nil disables logging.
	logger *slog.Logger

	// Key schema discovery via DescribeTable, cached only on success so a
	// transient failure does not poison the client.
	keyMu        sync.Mutex
	keyLoaded    bool
	partitionKey string
	sortKey      string
}

// New creates a new table client bound to tableName with the provided options.
// Credentials come from the standard AWS SDK credential chain.
//
// Example usage:
//
//	table, err := dynamo.New(ctx, "botte-be-task-prod",
//	    dynamo.WithRegion("eu-south-1"),
//	)
func New(ctx context.Context, tableName string, opts ...Option) (*Client, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if tableName == "" {
		return nil, fmt.Errorf("table name cannot be empty")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	cfg, err := awsconfig.Load(ctx, options.settings)
	if err != nil {
		return nil, err
	}

	api := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if options.settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.settings.Endpoint)
		}
	})

	return &Client{
		api:    api,
		table:  tableName,
		logger: options.logger,
	}, nil
}

// NewWithConfig creates a new table client from an existing AWS configuration,
// bypassing the default configuration loading.
func NewWithConfig(cfg *aws.Config, tableName string, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("config region cannot be empty")
	}
	if tableName == "" {
		return nil, fmt.Errorf("table name cannot be empty")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Client{
		api:    dynamodb.NewFromConfig(*cfg),
		table:  tableName,
		logger: options.logger,
	}, nil
}

// NewWithClient creates a new table client with a custom TableAPI
// implementation. This is primarily used for testing with mocks.
func NewWithClient(api TableAPI, tableName string, opts ...Option) *Client {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &Client{
		api:    api,
		table:  tableName,
		logger: options.logger,
	}
}

// TableName returns the table name the client is bound to.
func (c *Client) TableName() string {
	return c.table
}

// handleError processes errors from DynamoDB operations, mapping typed SDK
// errors to the package sentinels and wrapping everything else with operation
// context. The original SDK error is always kept as the cause.
func (c *Client) handleError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var conditionFailed *types.ConditionalCheckFailedException
	if errors.As(err, &conditionFailed) {
		return fmt.Errorf("%s on table %q: %w", operation, c.table, ErrConditionalCheckFailed)
	}

	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%s on table %q: %w", operation, c.table, ErrTableNotFound)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if apiErr.ErrorCode() == accessDeniedException {
			return fmt.Errorf("%s on table %q: %w: %w", operation, c.table, ErrAccessDenied, err)
		}
		return fmt.Errorf("%s on table %q failed: %s: %w",
			operation, c.table, apiErr.ErrorCode(), err)
	}

	return fmt.Errorf("%s on table %q failed: %w", operation, c.table, err)
}

// keySchema discovers the table's key attribute names via DescribeTable.
// A successful discovery is cached for the client's lifetime; a failed one is
// not, so the next call retries the lookup.
func (c *Client) keySchema(ctx context.Context) (partition, sort string, err error) {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()

	if c.keyLoaded {
		return c.partitionKey, c.sortKey, nil
	}

	output, err := c.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(c.table),
	})
	if err != nil {
		return "", "", c.handleError(err, "DescribeTable")
	}

	var partitionKey, sortKey string
	for _, element := range output.Table.KeySchema {
		switch element.KeyType {
		case types.KeyTypeHash:
			partitionKey = aws.ToString(element.AttributeName)
		case types.KeyTypeRange:
			sortKey = aws.ToString(element.AttributeName)
		}
	}
	if partitionKey == "" {
		return "", "", fmt.Errorf("table %q has no partition key in its schema", c.table)
	}

	c.partitionKey, c.sortKey, c.keyLoaded = partitionKey, sortKey, true
	return partitionKey, sortKey, nil
}

// GetItem fetches the item with the given primary key.
//
// A missing item is a legitimate, non-exceptional outcome: GetItem returns
// (nil, nil) rather than an error when the key is absent.
func (c *Client) GetItem(ctx context.Context, key Key) (Item, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("key cannot be empty")
	}

	avKey, err := attributevalue.MarshalMap(key)
	if err != nil {
		return nil, fmt.Errorf("GetItem on table %q: cannot marshal key: %w", c.table, err)
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "getting item", "table", c.table)
	}

	output, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.table),
		Key:       avKey,
	})
	if err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "failed to get item", "table", c.table, "error", err)
		}
		return nil, c.handleError(err, "GetItem")
	}

	if len(output.Item) == 0 {
		return nil, nil
	}

	var item Item
	if err := attributevalue.UnmarshalMap(output.Item, &item); err != nil {
		return nil, fmt.Errorf("GetItem on table %q: cannot unmarshal item: %w", c.table, err)
	}

	return item, nil
}

// PutItem writes the item, overwriting any existing item with the same
// primary key unless a condition forbids it.
//
// Use WithCondition to supply a write condition and WithoutOverwrite to
// reject writes over an existing primary key; both surface as
// ErrConditionalCheckFailed when violated, leaving the stored item unchanged.
func (c *Client) PutItem(ctx context.Context, item Item, opts ...PutOption) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	if len(item) == 0 {
		return fmt.Errorf("item cannot be empty")
	}

	options := putOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	avItem, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("PutItem on table %q: cannot marshal item: %w", c.table, err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      avItem,
	}

	condition := options.condition
	if options.noOverwrite {
		partition, _, err := c.keySchema(ctx)
		if err != nil {
			return err
		}
		// The partition key alone is enough: attribute_not_exists on it only
		// passes when no item with this full primary key exists.
		notExists := expression.AttributeNotExists(expression.Name(partition))
		if condition != nil {
			merged := condition.And(notExists)
			condition = &merged
		} else {
			condition = &notExists
		}
	}

	if condition != nil {
		expr, err := expression.NewBuilder().WithCondition(*condition).Build()
		if err != nil {
			return fmt.Errorf("PutItem on table %q: cannot build condition: %w", c.table, err)
		}
		input.ConditionExpression = expr.Condition()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "putting item",
			"table", c.table, "conditional", condition != nil)
	}

	if _, err := c.api.PutItem(ctx, input); err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "failed to put item", "table", c.table, "error", err)
		}
		return c.handleError(err, "PutItem")
	}

	return nil
}

// DeleteItem removes the item with the given primary key. Deleting an absent
// key is not an error; the operation is idempotent.
func (c *Client) DeleteItem(ctx context.Context, key Key) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	if len(key) == 0 {
		return fmt.Errorf("key cannot be empty")
	}

	avKey, err := attributevalue.MarshalMap(key)
	if err != nil {
		return fmt.Errorf("DeleteItem on table %q: cannot marshal key: %w", c.table, err)
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "deleting item", "table", c.table)
	}

	if _, err := c.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(c.table),
		Key:       avKey,
	}); err != nil {
		if c.logger != nil {
			c.logger.ErrorContext(ctx, "failed to delete item", "table", c.table, "error", err)
		}
		return c.handleError(err, "DeleteItem")
	}

	return nil
}
