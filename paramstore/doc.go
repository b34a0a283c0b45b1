// Package paramstore provides a Go client for AWS Systems Manager Parameter
// Store. It wraps AWS SDK v2 to expose the small verb set this monorepo's
// services actually use: read a parameter, read a whole hierarchy, write a
// parameter or secret.
//
// The client adds input validation, default-parameter handling, and error
// translation on top of the SDK; retries, credentials, and transport belong
// entirely to the SDK.
//
// Example usage:
//
//	client, err := paramstore.New(ctx, paramstore.WithRegion("eu-south-1"))
//	if err != nil {
//	    return err
//	}
//
//	value, err := client.Get(ctx, "/my-app/prod/db-password")
//	if errors.Is(err, paramstore.ErrParameterNotFound) {
//	    // handle missing parameter
//	}
package paramstore
