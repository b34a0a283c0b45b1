// Package paramstore defines the interface seam over the AWS SSM client.
package paramstore

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// ParamStoreAPI defines the SSM Parameter Store operations used by Client.
// It abstracts the AWS SDK v2 SSM client to enable testing with mocks and to
// provide a stable API surface.
type ParamStoreAPI interface {
	// GetParameter retrieves a single parameter by name.
	GetParameter(
		ctx context.Context,
		params *ssm.GetParameterInput,
		optFns ...func(*ssm.Options),
	) (*ssm.GetParameterOutput, error)

	// GetParametersByPath retrieves one page of parameters under a hierarchy.
	GetParametersByPath(
		ctx context.Context,
		params *ssm.GetParametersByPathInput,
		optFns ...func(*ssm.Options),
	) (*ssm.GetParametersByPathOutput, error)

	// PutParameter creates or updates a parameter.
	PutParameter(
		ctx context.Context,
		params *ssm.PutParameterInput,
		optFns ...func(*ssm.Options),
	) (*ssm.PutParameterOutput, error)
}
