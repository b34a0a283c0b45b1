package lambda

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
)

// LambdaAPI defines the Lambda operations used by this package.
// It allows mocking of the AWS SDK client in tests.
type LambdaAPI interface {
	Invoke(
		ctx context.Context,
		params *awslambda.InvokeInput,
		optFns ...func(*awslambda.Options),
	) (*awslambda.InvokeOutput, error)

	GetFunctionUrlConfig(
		ctx context.Context,
		params *awslambda.GetFunctionUrlConfigInput,
		optFns ...func(*awslambda.Options),
	) (*awslambda.GetFunctionUrlConfigOutput, error)

	GetPolicy(
		ctx context.Context,
		params *awslambda.GetPolicyInput,
		optFns ...func(*awslambda.Options),
	) (*awslambda.GetPolicyOutput, error)
}

// GatewayAPI defines the API Gateway V2 operations used to resolve the
// HTTP endpoint of a function fronted by a gateway.
type GatewayAPI interface {
	GetApi(
		ctx context.Context,
		params *apigatewayv2.GetApiInput,
		optFns ...func(*apigatewayv2.Options),
	) (*apigatewayv2.GetApiOutput, error)

	GetIntegrations(
		ctx context.Context,
		params *apigatewayv2.GetIntegrationsInput,
		optFns ...func(*apigatewayv2.Options),
	) (*apigatewayv2.GetIntegrationsOutput, error)

	GetRoutes(
		ctx context.Context,
		params *apigatewayv2.GetRoutesInput,
		optFns ...func(*apigatewayv2.Options),
	) (*apigatewayv2.GetRoutesOutput, error)
}
