package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/patrickwarner/pubreport/internal/config"
	"github.com/patrickwarner/pubreport/internal/lens"
	"github.com/patrickwarner/pubreport/internal/observability"
	"github.com/patrickwarner/pubreport/internal/ratelimit"
	"github.com/patrickwarner/pubreport/internal/report"
	"github.com/patrickwarner/pubreport/internal/session"
	"go.uber.org/zap"
)

// GetPublicationInput selects the publication to preview.
type GetPublicationInput struct {
	ID string `json:"id"`
}

// PublicationOutput is the flattened preview of a publication.
type PublicationOutput struct {
	ID                  string `json:"id"`
	Author              string `json:"author"`
	Handle              string `json:"handle"`
	Title               string `json:"title,omitempty"`
	Content             string `json:"content"`
	CreatedAt           string `json:"created_at"`
	Comments            int    `json:"comments"`
	Mirrors             int    `json:"mirrors"`
	Collects            int    `json:"collects"`
	ViewerFollowsAuthor bool   `json:"viewer_follows_author"`
}

// ReportPublicationInput is a report as an agent submits it.
type ReportPublicationInput struct {
	ID                 string  `json:"id"`
	Reason             string  `json:"reason,omitempty"`
	Subreason          string  `json:"subreason,omitempty"`
	AdditionalComments *string `json:"additional_comments,omitempty"`
}

// FieldErrorOutput mirrors a form validation error.
type FieldErrorOutput struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ReportPublicationOutput describes how the submission ended.
type ReportPublicationOutput struct {
	State       string             `json:"state"`
	FieldErrors []FieldErrorOutput `json:"field_errors,omitempty"`
}

// ReportTools exposes the report workflow as MCP tools for a single viewer.
type ReportTools struct {
	reports *report.Service
	viewer  *session.Session
	logger  *zap.Logger
}

// GetPublication loads the publication preview.
func (t *ReportTools) GetPublication(ctx context.Context, req *mcp.CallToolRequest, input GetPublicationInput) (*mcp.CallToolResult, PublicationOutput, error) {
	target, err := report.ParseTarget(input.ID)
	if err != nil {
		return nil, PublicationOutput{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := t.reports.LoadPublication(ctx, target, t.viewer)
	if err != nil {
		return nil, PublicationOutput{}, fmt.Errorf("failed to load post: %w", err)
	}
	return nil, publicationOutput(res), nil
}

func publicationOutput(res *lens.PublicationResult) PublicationOutput {
	p := res.Publication
	return PublicationOutput{
		ID:                  p.ID,
		Author:              p.Profile.DisplayName(),
		Handle:              p.Profile.Handle,
		Title:               p.Metadata.Name,
		Content:             p.Metadata.Content,
		CreatedAt:           p.CreatedAt.UTC().Format(time.RFC3339),
		Comments:            p.Stats.TotalAmountOfComments,
		Mirrors:             p.Stats.TotalAmountOfMirrors,
		Collects:            p.Stats.TotalAmountOfCollects,
		ViewerFollowsAuthor: res.ViewerFollowsAuthor(),
	}
}

// ReportPublication validates and submits a report. Validation failures are
// returned as field errors; a refused mutation is a tool error.
func (t *ReportTools) ReportPublication(ctx context.Context, req *mcp.CallToolRequest, input ReportPublicationInput) (*mcp.CallToolResult, ReportPublicationOutput, error) {
	if t.viewer == nil {
		return nil, ReportPublicationOutput{}, report.ErrNotSignedIn
	}
	target, err := report.ParseTarget(input.ID)
	if err != nil {
		return nil, ReportPublicationOutput{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	sub := t.reports.Submit(ctx, t.viewer, target, report.Form{
		Reason:             input.Reason,
		Subreason:          input.Subreason,
		AdditionalComments: input.AdditionalComments,
	})
	if sub.State == report.StateFailed {
		return nil, ReportPublicationOutput{}, fmt.Errorf("failed to report: %w", sub.Err)
	}

	out := ReportPublicationOutput{State: sub.State.String()}
	for _, fe := range sub.FieldErrors {
		out.FieldErrors = append(out.FieldErrors, FieldErrorOutput{Field: fe.Field, Message: fe.Message})
	}
	return nil, out, nil
}

func newMCPServer(tools *ReportTools) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "pubreport",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_publication",
		Description: "Load a Lens publication the way the report screen previews it",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Publication id in the form <profileId>-<publicationId>, e.g. 0x01-0x42",
				},
			},
			"required": []string{"id"},
		},
	}, tools.GetPublication)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "report_publication",
		Description: "Report a Lens publication for a policy violation",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Publication id",
				},
				"reason": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"ILLEGAL", "FRAUD", "SENSITIVE", "SPAM"},
					"description": "Reason category (used when the server runs the selected reason policy)",
				},
				"subreason": map[string]interface{}{
					"type":        "string",
					"description": "Sub-reason within the category",
				},
				"additional_comments": map[string]interface{}{
					"type":        "string",
					"maxLength":   report.MaxCommentLength,
					"description": "Optional free-text comment",
				},
			},
			"required": []string{"id"},
		},
	}, tools.ReportPublication)

	return server
}

func main() {
	cfg := config.Load()

	// stdout carries MCP frames
	logger, err := observability.InitStderrLogger(cfg.ServiceName + "-mcp")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(logger, cfg); err != nil {
		logger.Error("mcp server error", zap.Error(err))
		os.Exit(1)
	}
}

func run(logger *zap.Logger, cfg config.Config) error {
	metrics := observability.NewNoOpRegistry()
	client := lens.NewClient(cfg.LensAPIURL, cfg.LensTimeout, logger.Named("lens"), metrics)
	limiter := ratelimit.NewViewerLimiter(ratelimit.Config{
		Capacity:       cfg.RateLimitCapacity,
		RefillInterval: cfg.RateLimitRefillInterval,
		Enabled:        cfg.RateLimitEnabled,
	}, metrics)

	tools := &ReportTools{
		reports: report.NewService(client, nil, report.ParseReasonPolicy(cfg.ReasonPolicy), limiter, logger, metrics),
		viewer:  viewerFromConfig(cfg),
		logger:  logger,
	}
	if tools.viewer == nil {
		logger.Warn("LENS_VIEWER_ADDRESS or LENS_ACCESS_TOKEN unset, report_publication is disabled")
	}

	var logBuffer bytes.Buffer
	transport := &mcp.LoggingTransport{
		Transport: &mcp.StdioTransport{},
		Writer:    &logBuffer,
	}

	logger.Info("MCP server running via stdio", zap.String("lens_api", cfg.LensAPIURL))
	if err := newMCPServer(tools).Run(context.Background(), transport); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w (mcp log: %s)", err, logBuffer.String())
	}
	return nil
}

// viewerFromConfig builds the fixed viewer the tools act as. Both an address
// and an access token are needed.
func viewerFromConfig(cfg config.Config) *session.Session {
	if cfg.LensViewerAddress == "" || cfg.LensAccessToken == "" {
		return nil
	}
	return &session.Session{
		ID:          "mcp",
		Address:     cfg.LensViewerAddress,
		AccessToken: cfg.LensAccessToken,
		CreatedAt:   time.Now(),
	}
}
