package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/patrickwarner/pubreport/internal/lens"
	"github.com/patrickwarner/pubreport/internal/report"
	"github.com/patrickwarner/pubreport/internal/session"

	"go.uber.org/zap"
)

// fragmentHeader marks responses that are preview fragments. The page script
// inserts only those into the preview slot.
const fragmentHeader = "X-Report-Fragment"

// maxFormBytes bounds the report form body. A 260 character comment plus the
// reason fields fits comfortably.
const maxFormBytes = 16 << 10

// guard runs the access check for the report routes. When it fails the
// not-found page is written, or for fragment requests an inline load error,
// and ok is false.
func (s *Server) guard(w http.ResponseWriter, r *http.Request, endpoint string, fragment bool, start time.Time) (viewer *session.Session, target report.Target, ok bool) {
	viewer, _ = session.FromContext(r.Context())
	target, err := report.CheckAccess(viewer, routeID(r))
	if err == nil {
		return viewer, target, true
	}

	reason := "no_id"
	if errors.Is(err, report.ErrNotSignedIn) {
		reason = "no_session"
	}
	s.Metrics.IncrementAccessDenied(reason)
	s.logger(r).Debug("report access denied", zap.String("reason", reason))
	if fragment {
		s.renderPreview(w, r, http.StatusNotFound, previewView{Error: newErrorMessage(loadErrorTitle, err)})
	} else {
		s.notFound(w, r)
	}
	s.observe(endpoint, r.Method, http.StatusNotFound, start)
	return nil, report.Target{}, false
}

// ReportPageHandler handles GET /posts/{id}/report. The post itself is not
// fetched here; the page carries a skeleton and loads the preview fragment.
func (s *Server) ReportPageHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "report_page"

	_, target, ok := s.guard(w, r, endpoint, false, start)
	if !ok {
		return
	}

	s.render(w, r, s.pages.report, "layout", http.StatusOK, s.newReportView(target, nil))
	s.observe(endpoint, r.Method, http.StatusOK, start)
}

// ReportSubmitHandler handles POST /posts/{id}/report.
func (s *Server) ReportSubmitHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "report_submit"

	viewer, target, ok := s.guard(w, r, endpoint, false, start)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.logger(r).Warn("invalid report form", zap.Error(err))
		http.Error(w, "invalid form", http.StatusBadRequest)
		s.observe(endpoint, r.Method, http.StatusBadRequest, start)
		return
	}

	sub := s.Reports.Submit(r.Context(), viewer, target, formFromRequest(r))
	status := submissionStatus(sub)
	s.render(w, r, s.pages.report, "layout", status, s.newReportView(target, sub))
	s.observe(endpoint, r.Method, status, start)
}

// formFromRequest reads the report form. A comment field that was not sent
// stays nil so it reaches the API as null. Browsers submit textarea line
// breaks as CRLF; they are folded to LF so each counts as one character.
func formFromRequest(r *http.Request) report.Form {
	form := report.Form{
		Reason:    r.PostForm.Get(report.FieldReason),
		Subreason: r.PostForm.Get(report.FieldSubreason),
	}
	if vals, ok := r.PostForm[report.FieldAdditionalComments]; ok && len(vals) > 0 {
		comment := strings.ReplaceAll(vals[0], "\r\n", "\n")
		form.AdditionalComments = &comment
	}
	return form
}

func submissionStatus(sub *report.Submission) int {
	switch {
	case len(sub.FieldErrors) > 0:
		return http.StatusUnprocessableEntity
	case errors.Is(sub.Err, report.ErrRateLimited):
		return http.StatusTooManyRequests
	case sub.State == report.StateFailed:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

// PreviewHandler handles GET /posts/{id}/preview: the post on success or an
// inline error with the cause.
func (s *Server) PreviewHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "preview"

	viewer, target, ok := s.guard(w, r, endpoint, true, start)
	if !ok {
		return
	}

	res, err := s.Reports.LoadPublication(r.Context(), target, viewer)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, lens.ErrPublicationNotFound) {
			status = http.StatusNotFound
		}
		s.renderPreview(w, r, status, previewView{Error: newErrorMessage(loadErrorTitle, err)})
		s.observe(endpoint, r.Method, status, start)
		return
	}

	s.renderPreview(w, r, http.StatusOK, previewView{Publication: res.Publication})
	s.observe(endpoint, r.Method, http.StatusOK, start)
}

func (s *Server) renderPreview(w http.ResponseWriter, r *http.Request, status int, view previewView) {
	w.Header().Set(fragmentHeader, "preview")
	s.render(w, r, s.pages.preview, "preview", status, view)
}

// NotFoundHandler renders the not-found page for unknown routes.
func (s *Server) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.notFound(w, r)
	s.observe("not_found", r.Method, http.StatusNotFound, start)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, s.pages.notFound, "layout", http.StatusNotFound, notFoundView{Title: "Not found • " + s.Config.AppName})
}
