// Package lambda provides tests for the Lambda client.
package lambda

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/smithy-go"
	smithymiddleware "github.com/aws/smithy-go/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFunction = "botte-be-prod-endpoint-message"

// mockLambdaAPI implements LambdaAPI for testing.
type mockLambdaAPI struct {
	invokeFunc func(ctx context.Context, params *awslambda.InvokeInput, optFns ...func(*awslambda.Options)) (*awslambda.InvokeOutput, error)
	urlFunc    func(ctx context.Context, params *awslambda.GetFunctionUrlConfigInput, optFns ...func(*awslambda.Options)) (*awslambda.GetFunctionUrlConfigOutput, error)
	policyFunc func(ctx context.Context, params *awslambda.GetPolicyInput, optFns ...func(*awslambda.Options)) (*awslambda.GetPolicyOutput, error)
}

func (m *mockLambdaAPI) Invoke(
	ctx context.Context,
	params *awslambda.InvokeInput,
	optFns ...func(*awslambda.Options),
) (*awslambda.InvokeOutput, error) {
	if m.invokeFunc != nil {
		return m.invokeFunc(ctx, params, optFns...)
	}
	return nil, fmt.Errorf("Invoke not implemented")
}

func (m *mockLambdaAPI) GetFunctionUrlConfig(
	ctx context.Context,
	params *awslambda.GetFunctionUrlConfigInput,
	optFns ...func(*awslambda.Options),
) (*awslambda.GetFunctionUrlConfigOutput, error) {
	if m.urlFunc != nil {
		return m.urlFunc(ctx, params, optFns...)
	}
	return nil, fmt.Errorf("GetFunctionUrlConfig not implemented")
}

func (m *mockLambdaAPI) GetPolicy(
	ctx context.Context,
	params *awslambda.GetPolicyInput,
	optFns ...func(*awslambda.Options),
) (*awslambda.GetPolicyOutput, error) {
	if m.policyFunc != nil {
		return m.policyFunc(ctx, params, optFns...)
	}
	return nil, fmt.Errorf("GetPolicy not implemented")
}

// mockGatewayAPI implements GatewayAPI for testing.
type mockGatewayAPI struct {
	getAPIFunc          func(ctx context.Context, params *apigatewayv2.GetApiInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetApiOutput, error)
	getIntegrationsFunc func(ctx context.Context, params *apigatewayv2.GetIntegrationsInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetIntegrationsOutput, error)
	getRoutesFunc       func(ctx context.Context, params *apigatewayv2.GetRoutesInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetRoutesOutput, error)
}

func (m *mockGatewayAPI) GetApi(
	ctx context.Context,
	params *apigatewayv2.GetApiInput,
	optFns ...func(*apigatewayv2.Options),
) (*apigatewayv2.GetApiOutput, error) {
	if m.getAPIFunc != nil {
		return m.getAPIFunc(ctx, params, optFns...)
	}
	return nil, fmt.Errorf("GetApi not implemented")
}

func (m *mockGatewayAPI) GetIntegrations(
	ctx context.Context,
	params *apigatewayv2.GetIntegrationsInput,
	optFns ...func(*apigatewayv2.Options),
) (*apigatewayv2.GetIntegrationsOutput, error) {
	if m.getIntegrationsFunc != nil {
		return m.getIntegrationsFunc(ctx, params, optFns...)
	}
	return nil, fmt.Errorf("GetIntegrations not implemented")
}

func (m *mockGatewayAPI) GetRoutes(
	ctx context.Context,
	params *apigatewayv2.GetRoutesInput,
	optFns ...func(*apigatewayv2.Options),
) (*apigatewayv2.GetRoutesOutput, error) {
	if m.getRoutesFunc != nil {
		return m.getRoutesFunc(ctx, params, optFns...)
	}
	return nil, fmt.Errorf("GetRoutes not implemented")
}

func TestInvoke(t *testing.T) {
	tests := []struct {
		name        string
		payload     any
		mock        *mockLambdaAPI
		wantOutput  []byte
		wantErr     error
		wantErrText string
	}{
		{
			name:    "returns the response payload",
			payload: map[string]any{"text": "hello"},
			mock: &mockLambdaAPI{
				invokeFunc: func(ctx context.Context, params *awslambda.InvokeInput, _ ...func(*awslambda.Options)) (*awslambda.InvokeOutput, error) {
					assert.Equal(t, testFunction, aws.ToString(params.FunctionName))

					var body map[string]any
					require.NoError(t, json.Unmarshal(params.Payload, &body))
					assert.Equal(t, "hello", body["text"])

					return &awslambda.InvokeOutput{
						StatusCode: 200,
						Payload:    []byte(`{"ok":true}`),
					}, nil
				},
			},
			wantOutput: []byte(`{"ok":true}`),
		},
		{
			name:    "nil payload invokes without a body",
			payload: nil,
			mock: &mockLambdaAPI{
				invokeFunc: func(ctx context.Context, params *awslambda.InvokeInput, _ ...func(*awslambda.Options)) (*awslambda.InvokeOutput, error) {
					assert.Nil(t, params.Payload)
					return &awslambda.InvokeOutput{StatusCode: 200}, nil
				},
			},
			wantOutput: nil,
		},
		{
			name:    "missing function maps to ErrFunctionNotFound",
			payload: nil,
			mock: &mockLambdaAPI{
				invokeFunc: func(ctx context.Context, params *awslambda.InvokeInput, _ ...func(*awslambda.Options)) (*awslambda.InvokeOutput, error) {
					return nil, &types.ResourceNotFoundException{}
				},
			},
			wantErr: ErrFunctionNotFound,
		},
		{
			name:    "access denied maps to ErrAccessDenied",
			payload: nil,
			mock: &mockLambdaAPI{
				invokeFunc: func(ctx context.Context, params *awslambda.InvokeInput, _ ...func(*awslambda.Options)) (*awslambda.InvokeOutput, error) {
					return nil, &smithy.GenericAPIError{
						Code:    "AccessDeniedException",
						Message: "not allowed",
					}
				},
			},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "dispatch failure maps to ErrInvokeFailed with cause",
			payload: nil,
			mock: &mockLambdaAPI{
				invokeFunc: func(ctx context.Context, params *awslambda.InvokeInput, _ ...func(*awslambda.Options)) (*awslambda.InvokeOutput, error) {
					return nil, fmt.Errorf("connection reset")
				},
			},
			wantErr:     ErrInvokeFailed,
			wantErrText: "connection reset",
		},
		{
			name:    "unmarshalable payload maps to ErrNotSerializable",
			payload: map[string]any{"ch": make(chan int)},
			mock:    &mockLambdaAPI{},
			wantErr: ErrNotSerializable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewWithClient(tt.mock, nil, testFunction)

			output, err := client.Invoke(context.Background(), tt.payload)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantErrText != "" {
					assert.Contains(t, err.Error(), tt.wantErrText)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutput, output)
		})
	}
}

func TestInvokeFunctionError(t *testing.T) {
	mock := &mockLambdaAPI{
		invokeFunc: func(ctx context.Context, params *awslambda.InvokeInput, _ ...func(*awslambda.Options)) (*awslambda.InvokeOutput, error) {
			return &awslambda.InvokeOutput{
				StatusCode:    200,
				FunctionError: aws.String("Unhandled"),
				Payload:       []byte(`{"errorMessage":"boom"}`),
			}, nil
		},
	}
	client := NewWithClient(mock, nil, testFunction)

	_, err := client.Invoke(context.Background(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFunctionFailed)

	var fnErr *FunctionError
	require.ErrorAs(t, err, &fnErr)
	assert.Equal(t, "Unhandled", fnErr.ErrType)
	assert.JSONEq(t, `{"errorMessage":"boom"}`, string(fnErr.Payload))

	// Dispatch failures must not match the remote-execution sentinel.
	assert.NotErrorIs(t, err, ErrInvokeFailed)
}

func TestInvokeAsync(t *testing.T) {
	t.Run("dispatches an event invocation and returns the request id", func(t *testing.T) {
		mock := &mockLambdaAPI{
			invokeFunc: func(ctx context.Context, params *awslambda.InvokeInput, _ ...func(*awslambda.Options)) (*awslambda.InvokeOutput, error) {
				assert.Equal(t, types.InvocationTypeEvent, params.InvocationType)

				var md smithymiddleware.Metadata
				awsmiddleware.SetRequestIDMetadata(&md, "8e0ca49c-7b7a-4e5e-a61e-d9cc02a1aa1f")
				return &awslambda.InvokeOutput{
					StatusCode:     202,
					ResultMetadata: md,
				}, nil
			},
		}
		client := NewWithClient(mock, nil, testFunction)

		requestID, err := client.InvokeAsync(context.Background(), map[string]any{"text": "hi"})

		require.NoError(t, err)
		assert.Equal(t, "8e0ca49c-7b7a-4e5e-a61e-d9cc02a1aa1f", requestID)
	})

	t.Run("missing function maps to ErrFunctionNotFound", func(t *testing.T) {
		mock := &mockLambdaAPI{
			invokeFunc: func(ctx context.Context, params *awslambda.InvokeInput, _ ...func(*awslambda.Options)) (*awslambda.InvokeOutput, error) {
				return nil, &types.ResourceNotFoundException{}
			},
		}
		client := NewWithClient(mock, nil, testFunction)

		_, err := client.InvokeAsync(context.Background(), nil)

		assert.ErrorIs(t, err, ErrFunctionNotFound)
	})
}

func TestFunction(t *testing.T) {
	client := NewWithClient(&mockLambdaAPI{}, nil, testFunction)
	assert.Equal(t, testFunction, client.Function())
}
