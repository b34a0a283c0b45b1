// Package dynamo provides the query and scan iterator over table pages.
package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// page is one fetched page of raw items plus the cursor to the next page.
type page struct {
	items   []map[string]types.AttributeValue
	nextKey map[string]types.AttributeValue
}

// fetchFunc fetches one page starting at the given exclusive start key.
type fetchFunc func(ctx context.Context, startKey map[string]types.AttributeValue) (page, error)

// Iterator walks the items matched by a Query or Scan, fetching
// LastEvaluatedKey pages lazily as it advances. Callers never observe page
// boundaries or continuation tokens.
//
// The iteration order is the service's order. An Iterator is restartable:
// Reset rewinds it to the beginning and the next Next re-fetches from the
// first page. Iterators are not safe for concurrent use.
//
// Usage:
//
//	it := table.Query(keyCondition)
//	for it.Next(ctx) {
//	    handle(it.Item())
//	}
//	if err := it.Err(); err != nil {
//	    return err
//	}
type Iterator struct {
	fetch fetchFunc

	buffer   []map[string]types.AttributeValue
	position int
	startKey map[string]types.AttributeValue
	started  bool
	done     bool
	current  Item
	err      error
}

// Next advances the iterator to the next item, fetching further pages as
// needed. It returns false when the sequence is exhausted or an error
// occurred; check Err after the loop.
func (it *Iterator) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}
	if ctx == nil {
		it.err = fmt.Errorf("context cannot be nil")
		return false
	}

	// Refill the buffer until it has an unread item. Pages can legitimately
	// be empty (e.g. every item filtered out) while more pages remain.
	for it.position >= len(it.buffer) {
		if it.started && it.done {
			return false
		}
		result, err := it.fetch(ctx, it.startKey)
		if err != nil {
			it.err = err
			return false
		}
		it.started = true
		it.buffer = result.items
		it.position = 0
		it.startKey = result.nextKey
		it.done = len(result.nextKey) == 0
	}

	raw := it.buffer[it.position]
	it.position++

	var item Item
	if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
		it.err = fmt.Errorf("cannot unmarshal item: %w", err)
		return false
	}
	it.current = item
	return true
}

// Item returns the item the iterator currently points at. Only valid after a
// call to Next that returned true.
func (it *Iterator) Item() Item {
	return it.current
}

// Err returns the first error encountered during iteration, or nil.
func (it *Iterator) Err() error {
	return it.err
}

// Reset rewinds the iterator to the start of the sequence. The next call to
// Next re-fetches from the first page, observing the table's current state.
func (it *Iterator) Reset() {
	it.buffer = nil
	it.position = 0
	it.startKey = nil
	it.started = false
	it.done = false
	it.current = nil
	it.err = nil
}

// failedIterator returns an iterator that reports err from Next. The fetch
// keeps reporting it so the iterator stays failed across Reset.
func failedIterator(err error) *Iterator {
	return &Iterator{
		err: err,
		fetch: func(context.Context, map[string]types.AttributeValue) (page, error) {
			return page{}, err
		},
	}
}

// Query returns an iterator over the items matching the key condition.
//
// The key condition is built with the SDK's expression package, e.g.
// expression.Key("PK").Equal(expression.Value("TASK")). Options add a filter
// expression, target a secondary index, bound page sizes, or reverse the
// sort order. The full matching set is produced across all pages with no
// duplicates and no omissions.
func (c *Client) Query(keyCondition expression.KeyConditionBuilder, opts ...QueryOption) *Iterator {
	options := queryOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	builder := expression.NewBuilder().WithKeyCondition(keyCondition)
	if options.filter != nil {
		builder = builder.WithFilter(*options.filter)
	}
	expr, err := builder.Build()
	if err != nil {
		return failedIterator(fmt.Errorf("Query on table %q: cannot build expression: %w", c.table, err))
	}

	return &Iterator{fetch: func(ctx context.Context, startKey map[string]types.AttributeValue) (page, error) {
		input := &dynamodb.QueryInput{
			TableName:                 aws.String(c.table),
			KeyConditionExpression:    expr.KeyCondition(),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		}
		if options.index != "" {
			input.IndexName = aws.String(options.index)
		}
		if options.pageLimit > 0 {
			input.Limit = aws.Int32(options.pageLimit)
		}
		if options.descending {
			input.ScanIndexForward = aws.Bool(false)
		}

		if c.logger != nil {
			c.logger.InfoContext(ctx, "querying table",
				"table", c.table, "index", options.index)
		}

		output, err := c.api.Query(ctx, input)
		if err != nil {
			if c.logger != nil {
				c.logger.ErrorContext(ctx, "failed to query table",
					"table", c.table, "error", err)
			}
			return page{}, c.handleError(err, "Query")
		}
		return page{items: output.Items, nextKey: output.LastEvaluatedKey}, nil
	}}
}

// QueryAll collects every item matching the key condition into a slice,
// exhausting the iterator's pages before returning.
func (c *Client) QueryAll(ctx context.Context, keyCondition expression.KeyConditionBuilder, opts ...QueryOption) ([]Item, error) {
	return collect(ctx, c.Query(keyCondition, opts...))
}

// Scan returns an iterator over every item in the table (or index), optionally
// filtered. WithDescending is ignored: scans have no sort order.
func (c *Client) Scan(opts ...QueryOption) *Iterator {
	options := queryOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	var expr expression.Expression
	if options.filter != nil {
		var err error
		expr, err = expression.NewBuilder().WithFilter(*options.filter).Build()
		if err != nil {
			return failedIterator(fmt.Errorf("Scan on table %q: cannot build expression: %w", c.table, err))
		}
	}

	return &Iterator{fetch: func(ctx context.Context, startKey map[string]types.AttributeValue) (page, error) {
		input := &dynamodb.ScanInput{
			TableName:         aws.String(c.table),
			ExclusiveStartKey: startKey,
		}
		if options.filter != nil {
			input.FilterExpression = expr.Filter()
			input.ExpressionAttributeNames = expr.Names()
			input.ExpressionAttributeValues = expr.Values()
		}
		if options.index != "" {
			input.IndexName = aws.String(options.index)
		}
		if options.pageLimit > 0 {
			input.Limit = aws.Int32(options.pageLimit)
		}

		if c.logger != nil {
			c.logger.InfoContext(ctx, "scanning table", "table", c.table)
		}

		output, err := c.api.Scan(ctx, input)
		if err != nil {
			if c.logger != nil {
				c.logger.ErrorContext(ctx, "failed to scan table",
					"table", c.table, "error", err)
			}
			return page{}, c.handleError(err, "Scan")
		}
		return page{items: output.Items, nextKey: output.LastEvaluatedKey}, nil
	}}
}

// ScanAll collects every item in the table into a slice, exhausting the
// iterator's pages before returning.
func (c *Client) ScanAll(ctx context.Context, opts ...QueryOption) ([]Item, error) {
	return collect(ctx, c.Scan(opts...))
}

// collect drains an iterator into a slice.
func collect(ctx context.Context, it *Iterator) ([]Item, error) {
	var items []Item
	for it.Next(ctx) {
		items = append(items, it.Item())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
