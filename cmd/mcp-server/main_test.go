package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/patrickwarner/pubreport/internal/config"
	"github.com/patrickwarner/pubreport/internal/lens"
	"github.com/patrickwarner/pubreport/internal/observability"
	"github.com/patrickwarner/pubreport/internal/report"
	"github.com/patrickwarner/pubreport/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubBackend struct {
	follow    lens.FollowRequest
	reports   []lens.ReportPublicationRequest
	reportErr error
}

func (b *stubBackend) Publication(ctx context.Context, req lens.PublicationRequest, follow lens.FollowRequest) (*lens.PublicationResult, error) {
	b.follow = follow
	return &lens.PublicationResult{
		Publication: &lens.Publication{
			ID:        req.PublicationID,
			CreatedAt: time.Date(2022, 10, 1, 12, 0, 0, 0, time.UTC),
			Profile:   lens.Profile{Handle: "stani.lens"},
			Metadata:  lens.Metadata{Content: "gm"},
			Stats:     lens.Stats{TotalAmountOfComments: 3},
		},
		DoesFollow: []lens.FollowStatus{{Follows: true}},
	}, nil
}

func (b *stubBackend) ReportPublication(ctx context.Context, accessToken string, req lens.ReportPublicationRequest) error {
	b.reports = append(b.reports, req)
	return b.reportErr
}

func newTools(backend report.Backend, viewer *session.Session) *ReportTools {
	svc := report.NewService(backend, nil, report.ReasonPolicyFixed, nil, zap.NewNop(), observability.NewNoOpRegistry())
	return &ReportTools{reports: svc, viewer: viewer, logger: zap.NewNop()}
}

var viewer = &session.Session{Address: "0xabc", AccessToken: "jwt"}

func TestGetPublication(t *testing.T) {
	backend := &stubBackend{}
	tools := newTools(backend, viewer)

	_, out, err := tools.GetPublication(context.Background(), nil, GetPublicationInput{ID: "1-42"})
	require.NoError(t, err)

	assert.Equal(t, "1-42", out.ID)
	assert.Equal(t, "stani.lens", out.Author)
	assert.Equal(t, "2022-10-01T12:00:00Z", out.CreatedAt)
	assert.Equal(t, 3, out.Comments)
	assert.True(t, out.ViewerFollowsAuthor)
	assert.Equal(t, "0xabc", backend.follow.FollowInfos[0].FollowerAddress)
	assert.Equal(t, "1", backend.follow.FollowInfos[0].ProfileID)
}

func TestGetPublication_MissingID(t *testing.T) {
	tools := newTools(&stubBackend{}, viewer)

	_, _, err := tools.GetPublication(context.Background(), nil, GetPublicationInput{})
	assert.ErrorIs(t, err, report.ErrMissingID)
}

func TestReportPublication(t *testing.T) {
	backend := &stubBackend{}
	tools := newTools(backend, viewer)
	comment := "bot"

	_, out, err := tools.ReportPublication(context.Background(), nil, ReportPublicationInput{ID: "1-42", AdditionalComments: &comment})
	require.NoError(t, err)

	assert.Equal(t, "submitted", out.State)
	require.Len(t, backend.reports, 1)
	assert.Equal(t, "1-42", backend.reports[0].PublicationID)
	assert.Equal(t, &comment, backend.reports[0].AdditionalComments)
}

func TestReportPublication_TooLong(t *testing.T) {
	backend := &stubBackend{}
	tools := newTools(backend, viewer)
	comment := strings.Repeat("x", 261)

	_, out, err := tools.ReportPublication(context.Background(), nil, ReportPublicationInput{ID: "1-42", AdditionalComments: &comment})
	require.NoError(t, err)

	assert.Equal(t, "idle", out.State)
	require.Len(t, out.FieldErrors, 1)
	assert.Equal(t, report.CommentTooLongMessage, out.FieldErrors[0].Message)
	assert.Empty(t, backend.reports)
}

func TestReportPublication_BackendFailure(t *testing.T) {
	tools := newTools(&stubBackend{reportErr: errors.New("rejected")}, viewer)

	_, _, err := tools.ReportPublication(context.Background(), nil, ReportPublicationInput{ID: "1-42"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to report: rejected")
}

func TestReportPublication_NoViewer(t *testing.T) {
	backend := &stubBackend{}
	tools := newTools(backend, nil)

	_, _, err := tools.ReportPublication(context.Background(), nil, ReportPublicationInput{ID: "1-42"})
	assert.ErrorIs(t, err, report.ErrNotSignedIn)
	assert.Empty(t, backend.reports)
}

func TestViewerFromConfig(t *testing.T) {
	assert.Nil(t, viewerFromConfig(config.Config{LensViewerAddress: "0xabc"}))

	v := viewerFromConfig(config.Config{LensViewerAddress: "0xabc", LensAccessToken: "jwt"})
	require.NotNil(t, v)
	assert.Equal(t, "0xabc", v.Address)
}

func TestNewMCPServerRegistersTools(t *testing.T) {
	assert.NotNil(t, newMCPServer(newTools(&stubBackend{}, viewer)))
}
