// Package dynamo provides a Go client for one AWS DynamoDB table.
//
// A Client is bound to a single table name at construction and exposes the
// operations this monorepo's services use: get, put (optionally conditional),
// query, scan, and delete. Items are plain map[string]any values, converted to
// and from DynamoDB attribute values with the SDK's attributevalue feature.
// Conditions and key conditions use the SDK's expression builders.
//
// Absence is not an error for reads: GetItem returns (nil, nil) for a missing
// key and DeleteItem succeeds on a missing key. Query and Scan walk
// LastEvaluatedKey pages internally, so callers never see pagination.
//
// Example usage:
//
//	table, err := dynamo.New(ctx, "botte-be-task-prod")
//	if err != nil {
//	    return err
//	}
//
//	err = table.PutItem(ctx, dynamo.Item{
//	    "PK":      "BOTTE_MESSAGE",
//	    "SK":      "2XxEn9LlUFuTyn0tOCySn11smMS",
//	    "Payload": map[string]any{"text": "hello"},
//	}, dynamo.WithoutOverwrite())
//	if errors.Is(err, dynamo.ErrConditionalCheckFailed) {
//	    // an item with this primary key already exists
//	}
//
//	it := table.Query(expression.Key("PK").Equal(expression.Value("BOTTE_MESSAGE")))
//	for it.Next(ctx) {
//	    fmt.Println(it.Item()["SK"])
//	}
//	if err := it.Err(); err != nil {
//	    return err
//	}
package dynamo
