// Package dynamo provides tests for the query and scan iterator.
package dynamo

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawItem builds a minimal PK/SK attribute-value item.
func rawItem(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

// pagedQueryMock serves the given pages in order, keyed by ExclusiveStartKey.
func pagedQueryMock(t *testing.T, pages [][]map[string]types.AttributeValue, calls *int) *mockTableAPI {
	return &mockTableAPI{
		queryFunc: func(ctx context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
			require.Less(t, *calls, len(pages), "fetched more pages than exist")
			if *calls == 0 {
				assert.Nil(t, params.ExclusiveStartKey)
			} else {
				assert.NotNil(t, params.ExclusiveStartKey)
			}

			output := &dynamodb.QueryOutput{Items: pages[*calls]}
			if *calls < len(pages)-1 {
				output.LastEvaluatedKey = rawItem("cursor", fmt.Sprintf("page-%d", *calls))
			}
			*calls++
			return output, nil
		},
	}
}

func TestQueryIterator(t *testing.T) {
	keyCondition := expression.Key("PK").Equal(expression.Value("TASK"))

	t.Run("walks every page with no duplicates and no omissions", func(t *testing.T) {
		pages := [][]map[string]types.AttributeValue{
			{rawItem("TASK", "a"), rawItem("TASK", "b")},
			{rawItem("TASK", "c")},
			{rawItem("TASK", "d"), rawItem("TASK", "e")},
		}
		var calls int
		client := NewWithClient(pagedQueryMock(t, pages, &calls), "tasks")

		var got []string
		it := client.Query(keyCondition)
		for it.Next(context.Background()) {
			got = append(got, it.Item()["SK"].(string))
		}

		require.NoError(t, it.Err())
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, got)
		assert.Equal(t, 3, calls)
	})

	t.Run("pages are fetched lazily", func(t *testing.T) {
		pages := [][]map[string]types.AttributeValue{
			{rawItem("TASK", "a"), rawItem("TASK", "b")},
			{rawItem("TASK", "c")},
		}
		var calls int
		client := NewWithClient(pagedQueryMock(t, pages, &calls), "tasks")

		it := client.Query(keyCondition)
		require.True(t, it.Next(context.Background()))
		require.True(t, it.Next(context.Background()))
		assert.Equal(t, 1, calls, "second page must not be fetched until needed")

		require.True(t, it.Next(context.Background()))
		assert.Equal(t, 2, calls)
	})

	t.Run("skips empty pages in the middle of the sequence", func(t *testing.T) {
		pages := [][]map[string]types.AttributeValue{
			{rawItem("TASK", "a")},
			{}, // every item on this page was filtered out server side
			{rawItem("TASK", "b")},
		}
		var calls int
		client := NewWithClient(pagedQueryMock(t, pages, &calls), "tasks")

		var got []string
		it := client.Query(keyCondition)
		for it.Next(context.Background()) {
			got = append(got, it.Item()["SK"].(string))
		}

		require.NoError(t, it.Err())
		assert.Equal(t, []string{"a", "b"}, got)
	})

	t.Run("no matches yields an empty sequence, not an error", func(t *testing.T) {
		pages := [][]map[string]types.AttributeValue{{}}
		var calls int
		client := NewWithClient(pagedQueryMock(t, pages, &calls), "tasks")

		it := client.Query(keyCondition)
		assert.False(t, it.Next(context.Background()))
		assert.NoError(t, it.Err())
	})

	t.Run("Reset restarts from the first page", func(t *testing.T) {
		pages := [][]map[string]types.AttributeValue{
			{rawItem("TASK", "a")},
			{rawItem("TASK", "b")},
		}
		var calls int
		mock := &mockTableAPI{
			queryFunc: func(ctx context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
				pageIndex := calls % len(pages)
				calls++
				output := &dynamodb.QueryOutput{Items: pages[pageIndex]}
				if pageIndex < len(pages)-1 {
					output.LastEvaluatedKey = rawItem("cursor", "0")
				}
				return output, nil
			},
		}
		client := NewWithClient(mock, "tasks")

		it := client.Query(keyCondition)
		var first []string
		for it.Next(context.Background()) {
			first = append(first, it.Item()["SK"].(string))
		}
		require.NoError(t, it.Err())

		it.Reset()
		var second []string
		for it.Next(context.Background()) {
			second = append(second, it.Item()["SK"].(string))
		}
		require.NoError(t, it.Err())

		assert.Equal(t, first, second)
		assert.Equal(t, 4, calls)
	})

	t.Run("errors stop iteration and surface via Err", func(t *testing.T) {
		mock := &mockTableAPI{
			queryFunc: func(ctx context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
				return nil, &types.ResourceNotFoundException{}
			},
		}
		client := NewWithClient(mock, "no-such-table")

		it := client.Query(keyCondition)
		assert.False(t, it.Next(context.Background()))
		assert.ErrorIs(t, it.Err(), ErrTableNotFound)

		// Subsequent calls keep returning false without further requests.
		assert.False(t, it.Next(context.Background()))
	})

	t.Run("a build failure survives Reset", func(t *testing.T) {
		client := NewWithClient(&mockTableAPI{}, "tasks")

		// A zero KeyConditionBuilder cannot be built into an expression.
		it := client.Query(expression.KeyConditionBuilder{})
		assert.False(t, it.Next(context.Background()))
		require.ErrorContains(t, it.Err(), "cannot build expression")

		it.Reset()
		assert.False(t, it.Next(context.Background()))
		assert.ErrorContains(t, it.Err(), "cannot build expression")
	})

	t.Run("options are reflected in the request", func(t *testing.T) {
		mock := &mockTableAPI{
			queryFunc: func(ctx context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
				assert.Equal(t, "GSI1", aws.ToString(params.IndexName))
				assert.Equal(t, int32(25), aws.ToInt32(params.Limit))
				assert.False(t, aws.ToBool(params.ScanIndexForward))
				assert.NotNil(t, params.FilterExpression)
				return &dynamodb.QueryOutput{}, nil
			},
		}
		client := NewWithClient(mock, "tasks")

		filter := expression.Name("Status").Equal(expression.Value("ACTIVE"))
		_, err := client.QueryAll(context.Background(), keyCondition,
			WithIndex("GSI1"),
			WithPageLimit(25),
			WithDescending(),
			WithFilter(filter),
		)
		require.NoError(t, err)
	})
}

func TestQueryAll(t *testing.T) {
	pages := [][]map[string]types.AttributeValue{
		{rawItem("TASK", "a")},
		{rawItem("TASK", "b")},
	}
	var calls int
	client := NewWithClient(pagedQueryMock(t, pages, &calls), "tasks")

	items, err := client.QueryAll(context.Background(),
		expression.Key("PK").Equal(expression.Value("TASK")))

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0]["SK"])
	assert.Equal(t, "b", items[1]["SK"])
}

func TestScan(t *testing.T) {
	t.Run("collects every page", func(t *testing.T) {
		var calls int
		mock := &mockTableAPI{
			scanFunc: func(ctx context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
				calls++
				if calls == 1 {
					return &dynamodb.ScanOutput{
						Items:            []map[string]types.AttributeValue{rawItem("TASK", "a")},
						LastEvaluatedKey: rawItem("cursor", "0"),
					}, nil
				}
				return &dynamodb.ScanOutput{
					Items: []map[string]types.AttributeValue{rawItem("TASK", "b")},
				}, nil
			},
		}
		client := NewWithClient(mock, "tasks")

		items, err := client.ScanAll(context.Background())

		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, 2, calls)
	})

	t.Run("filter is applied", func(t *testing.T) {
		mock := &mockTableAPI{
			scanFunc: func(ctx context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
				assert.NotNil(t, params.FilterExpression)
				return &dynamodb.ScanOutput{}, nil
			},
		}
		client := NewWithClient(mock, "tasks")

		filter := expression.Name("Status").Equal(expression.Value("ACTIVE"))
		_, err := client.ScanAll(context.Background(), WithFilter(filter))
		require.NoError(t, err)
	})
}
