package lambda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	awslambda "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

// Endpoint is the public HTTP endpoint of a function.
//
// For a Lambda function URL only BaseURL is set. For an API Gateway V2 route
// Path and Method carry the route key, e.g. BaseURL
// "https://5t325uqwq7.execute-api.eu-south-1.amazonaws.com", Path "/message",
// Method "POST".
type Endpoint struct {
	BaseURL string
	Path    string
	Method  string
}

// URL joins the base URL and the path.
func (e Endpoint) URL() string {
	return strings.TrimSuffix(e.BaseURL, "/") + e.Path
}

// policyDocument mirrors the subset of the Lambda resource policy needed to
// find the API Gateway that is allowed to invoke the function.
type policyDocument struct {
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Principal struct {
		Service string `json:"Service"`
	} `json:"Principal"`
	Condition struct {
		ArnLike map[string]string `json:"ArnLike"`
	} `json:"Condition"`
}

// apigatewayClientFromConfig builds the API Gateway V2 client used for
// endpoint resolution, honoring an endpoint override when set.
func apigatewayClientFromConfig(cfg aws.Config, endpoint string) GatewayAPI {
	return apigatewayv2.NewFromConfig(cfg, func(o *apigatewayv2.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

// EndpointURL resolves the public HTTP endpoint of the function.
//
// It first looks for a Lambda function URL. If none is configured, it falls
// back to inspecting the function's resource policy for an API Gateway V2
// permission and resolves the gateway's base URL, route path and HTTP method.
// Mostly useful in end-to-end tests.
//
// A function with neither a function URL nor a gateway route fails with
// ErrNoEndpoint; a missing function fails with ErrFunctionNotFound.
func (c *Client) EndpointURL(ctx context.Context) (Endpoint, error) {
	if ctx == nil {
		return Endpoint{}, fmt.Errorf("context cannot be nil")
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "resolving function endpoint", "function", c.function)
	}

	urlOut, err := c.api.GetFunctionUrlConfig(ctx, &awslambda.GetFunctionUrlConfigInput{
		FunctionName: aws.String(c.function),
	})
	if err == nil {
		return Endpoint{BaseURL: aws.ToString(urlOut.FunctionUrl)}, nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return Endpoint{}, c.handleError(err, "EndpointURL")
	}

	// No function URL. The function may still be fronted by API Gateway V2,
	// in which case its resource policy grants the gateway invoke permission.
	return c.gatewayEndpoint(ctx)
}

// gatewayEndpoint resolves the API Gateway V2 endpoint of the function from
// its resource policy. The policy's SourceArn condition carries the gateway
// ID; the gateway's integrations and routes yield the path and method.
func (c *Client) gatewayEndpoint(ctx context.Context) (Endpoint, error) {
	policyOut, err := c.api.GetPolicy(ctx, &awslambda.GetPolicyInput{
		FunctionName: aws.String(c.function),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			// GetFunctionUrlConfig already failed with the same error, so the
			// function itself is missing.
			return Endpoint{}, fmt.Errorf("EndpointURL %q: %w", c.function, ErrFunctionNotFound)
		}
		return Endpoint{}, c.handleError(err, "EndpointURL")
	}

	policyJSON := aws.ToString(policyOut.Policy)
	if policyJSON == "" {
		return Endpoint{}, fmt.Errorf("EndpointURL %q: no resource policy: %w",
			c.function, ErrNoEndpoint)
	}

	var policy policyDocument
	if err := json.Unmarshal([]byte(policyJSON), &policy); err != nil {
		return Endpoint{}, fmt.Errorf("EndpointURL %q: parsing resource policy: %w",
			c.function, err)
	}

	// Find the statement that allows API Gateway to invoke the function, e.g.
	// SourceArn "arn:aws:execute-api:eu-south-1:477353422995:5t325uqwq7/*".
	var sourceARN string
	for _, stm := range policy.Statement {
		if strings.Contains(stm.Principal.Service, "apigateway") {
			sourceARN = stm.Condition.ArnLike["AWS:SourceArn"]
		}
	}
	if sourceARN == "" {
		return Endpoint{}, fmt.Errorf("EndpointURL %q: no API Gateway permission in resource policy: %w",
			c.function, ErrNoEndpoint)
	}

	gatewayID := strings.ReplaceAll(sourceARN[strings.LastIndex(sourceARN, ":")+1:], "/*", "")
	if gatewayID == "" {
		return Endpoint{}, fmt.Errorf("EndpointURL %q: no gateway ID in source ARN %q: %w",
			c.function, sourceARN, ErrNoEndpoint)
	}

	if c.gateway == nil {
		return Endpoint{}, fmt.Errorf("EndpointURL %q: no API Gateway client configured", c.function)
	}

	apiOut, err := c.gateway.GetApi(ctx, &apigatewayv2.GetApiInput{
		ApiId: aws.String(gatewayID),
	})
	if err != nil {
		return Endpoint{}, c.handleError(err, "EndpointURL")
	}
	baseURL := aws.ToString(apiOut.ApiEndpoint)

	integrationsOut, err := c.gateway.GetIntegrations(ctx, &apigatewayv2.GetIntegrationsInput{
		ApiId: aws.String(gatewayID),
	})
	if err != nil {
		return Endpoint{}, c.handleError(err, "EndpointURL")
	}

	var integrationID string
	for _, item := range integrationsOut.Items {
		if strings.HasSuffix(aws.ToString(item.IntegrationUri), c.function) {
			integrationID = aws.ToString(item.IntegrationId)
		}
	}
	if integrationID == "" {
		return Endpoint{}, fmt.Errorf("EndpointURL %q: no integration for function in gateway %s: %w",
			c.function, gatewayID, ErrNoEndpoint)
	}

	routesOut, err := c.gateway.GetRoutes(ctx, &apigatewayv2.GetRoutesInput{
		ApiId: aws.String(gatewayID),
	})
	if err != nil {
		return Endpoint{}, c.handleError(err, "EndpointURL")
	}

	var routeKey string
	for _, item := range routesOut.Items {
		if strings.HasSuffix(aws.ToString(item.Target), integrationID) {
			routeKey = aws.ToString(item.RouteKey)
		}
	}
	if routeKey == "" {
		return Endpoint{}, fmt.Errorf("EndpointURL %q: no route targets integration %s: %w",
			c.function, integrationID, ErrNoEndpoint)
	}

	// A route key is "METHOD /path", e.g. "POST /message".
	method, path, found := strings.Cut(routeKey, " ")
	if !found {
		return Endpoint{}, fmt.Errorf("EndpointURL %q: malformed route key %q", c.function, routeKey)
	}

	return Endpoint{BaseURL: baseURL, Path: path, Method: method}, nil
}
