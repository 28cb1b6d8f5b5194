// Package lens is a small GraphQL client for the Lens API operations used by
// the report screen.
package lens

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/patrickwarner/pubreport/internal/observability"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Operation names, also used as metric labels.
const (
	OpPublication       = "Publication"
	OpReportPublication = "ReportPublication"
)

// ErrPublicationNotFound is returned when the API answers a publication
// query with a null publication.
var ErrPublicationNotFound = errors.New("publication not found")

// maxErrorBody caps how much of a non-200 body ends up in an error message.
const maxErrorBody = 512

// ErrorEntry is a single entry of a GraphQL errors array.
type ErrorEntry struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// GraphQLError is returned when the API reports errors for an operation.
type GraphQLError struct {
	Operation string
	Errors    []ErrorEntry
}

func (e *GraphQLError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, entry := range e.Errors {
		msgs = append(msgs, entry.Message)
	}
	return fmt.Sprintf("%s: %s", e.Operation, strings.Join(msgs, "; "))
}

// Client provides access to the Lens GraphQL API.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    observability.MetricsRegistry
}

type graphQLRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []ErrorEntry    `json:"errors"`
}

// NewClient creates a client for the GraphQL endpoint. Outbound requests are
// traced through otelhttp.
func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger, metrics observability.MetricsRegistry) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Publication fetches a publication along with the follow context.
func (c *Client) Publication(ctx context.Context, req PublicationRequest, follow FollowRequest) (*PublicationResult, error) {
	var out PublicationResult
	vars := map[string]any{
		"request":       req,
		"followRequest": follow,
	}
	if err := c.do(ctx, OpPublication, PublicationQuery, vars, "", &out); err != nil {
		return nil, err
	}
	if out.Publication == nil {
		return nil, ErrPublicationNotFound
	}
	return &out, nil
}

// ReportPublication submits a report on behalf of the holder of accessToken.
func (c *Client) ReportPublication(ctx context.Context, accessToken string, req ReportPublicationRequest) error {
	vars := map[string]any{"request": req}
	return c.do(ctx, OpReportPublication, ReportPublicationMutation, vars, accessToken, nil)
}

// do sends one GraphQL operation and decodes its data into out when out is
// non-nil.
func (c *Client) do(ctx context.Context, op, query string, vars map[string]any, accessToken string, out any) error {
	start := time.Now()
	outcome := "success"
	defer func() {
		c.metrics.RecordLensLatency(op, time.Since(start))
		c.metrics.IncrementLensRequests(op, outcome)
	}()

	body, err := json.Marshal(graphQLRequest{OperationName: op, Query: query, Variables: vars})
	if err != nil {
		outcome = "failure"
		return fmt.Errorf("marshal %s: %w", op, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		outcome = "failure"
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		outcome = "failure"
		return fmt.Errorf("%s request: %w", op, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil && c.logger != nil {
			c.logger.Warn("failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		outcome = "failure"
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%s: http %d: %s", op, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var envelope graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		outcome = "failure"
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	if len(envelope.Errors) > 0 {
		outcome = "error"
		return &GraphQLError{Operation: op, Errors: envelope.Errors}
	}
	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		outcome = "failure"
		return fmt.Errorf("decode %s data: %w", op, err)
	}
	return nil
}

