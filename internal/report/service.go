// Package report implements the publication report workflow: the access
// guard, the post preview loader and the validated report submission.
package report

import (
	"context"
	"errors"

	"github.com/patrickwarner/pubreport/internal/lens"
	"github.com/patrickwarner/pubreport/internal/observability"
	"github.com/patrickwarner/pubreport/internal/session"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// ErrRateLimited is the submission error when a viewer reports too often.
var ErrRateLimited = errors.New("too many reports, try again later")

// Report outcomes, used as metric labels.
const (
	OutcomeSubmitted   = "submitted"
	OutcomeFailed      = "failed"
	OutcomeInvalid     = "invalid"
	OutcomeRateLimited = "rate_limited"
)

// Backend is the subset of the Lens API the workflow needs.
type Backend interface {
	Publication(ctx context.Context, req lens.PublicationRequest, follow lens.FollowRequest) (*lens.PublicationResult, error)
	ReportPublication(ctx context.Context, accessToken string, req lens.ReportPublicationRequest) error
}

// Limiter decides whether a viewer may submit another report.
type Limiter interface {
	Allow(address string) bool
}

// Service runs the report workflow against a Backend.
type Service struct {
	backend Backend
	catalog *Catalog
	policy  ReasonPolicy
	limiter Limiter
	logger  *zap.Logger
	metrics observability.MetricsRegistry
}

// NewService constructs a Service. A nil catalog selects DefaultCatalog and
// a nil limiter disables rate limiting.
func NewService(backend Backend, catalog *Catalog, policy ReasonPolicy, limiter Limiter, logger *zap.Logger, metrics observability.MetricsRegistry) *Service {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if policy != ReasonPolicySelected {
		policy = ReasonPolicyFixed
	}
	return &Service{
		backend: backend,
		catalog: catalog,
		policy:  policy,
		limiter: limiter,
		logger:  logger,
		metrics: metrics,
	}
}

// Catalog returns the reasons offered in the selector.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// Policy returns the configured reason policy.
func (s *Service) Policy() ReasonPolicy {
	return s.policy
}

// LoadPublication issues the single preview query for target.
func (s *Service) LoadPublication(ctx context.Context, target Target, viewer *session.Session) (*lens.PublicationResult, error) {
	ctx, span := observability.Tracer("report").Start(ctx, "report.LoadPublication")
	defer span.End()
	span.SetAttributes(attribute.String("publication.id", target.PublicationID))

	res, err := s.backend.Publication(ctx, target.PublicationRequest(), target.FollowRequest(viewer))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Warn("failed to load publication",
			zap.String("publication_id", target.PublicationID),
			zap.Error(err))
		return nil, err
	}
	return res, nil
}

// Submit validates form and, when valid, sends the report. The returned
// submission is idle with field errors when validation failed, failed with
// the cause when the backend or limiter refused it, and submitted otherwise.
func (s *Service) Submit(ctx context.Context, viewer *session.Session, target Target, form Form) *Submission {
	ctx, span := observability.Tracer("report").Start(ctx, "report.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("publication.id", target.PublicationID))

	sub := NewSubmission(form)
	log := s.logger.With(zap.String("publication_id", target.PublicationID))

	if viewer == nil {
		_ = sub.Begin()
		_ = sub.Fail(ErrNotSignedIn)
		return sub
	}

	v := Validate(form)
	if !v.Valid() {
		sub.Reject(v.Errors)
		s.metrics.IncrementReports(OutcomeInvalid)
		return sub
	}

	req, err := BuildRequest(target, form, v, s.policy, s.catalog)
	if err != nil {
		sub.Reject([]FieldError{{Field: FieldReason, Message: ReasonRequiredMessage}})
		s.metrics.IncrementReports(OutcomeInvalid)
		return sub
	}

	if err := sub.Begin(); err != nil {
		log.Error("submission out of order", zap.Error(err))
		return sub
	}

	if s.limiter != nil && !s.limiter.Allow(viewer.Address) {
		_ = sub.Fail(ErrRateLimited)
		s.metrics.IncrementReports(OutcomeRateLimited)
		log.Info("report rate limited", zap.String("viewer", viewer.Address))
		return sub
	}

	if err := s.backend.ReportPublication(ctx, viewer.AccessToken, req); err != nil {
		span.SetStatus(codes.Error, err.Error())
		_ = sub.Fail(err)
		s.metrics.IncrementReports(OutcomeFailed)
		log.Warn("report submission failed", zap.Error(err))
		return sub
	}

	_ = sub.Succeed()
	s.metrics.IncrementReports(OutcomeSubmitted)
	log.Info("publication reported",
		zap.String("reason", req.Reason.Category),
		zap.String("subreason", req.Reason.Subcategory))
	return sub
}
