package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/patrickwarner/pubreport/internal/lens"
	"github.com/patrickwarner/pubreport/internal/report"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page texts of the report screen.
const (
	reportHeading     = "Report publication"
	reportDescription = "Help us understand the problem. What is going on with this publication?"
	loadErrorTitle    = "Failed to load post"
	submitErrorTitle  = "Failed to report"
)

// pages holds one template set per page; every set shares the layout.
type pages struct {
	report   *template.Template
	preview  *template.Template
	notFound *template.Template
}

func parsePages() (*pages, error) {
	base, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	page := func(name string) (*template.Template, error) {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		t, err := clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		return t, nil
	}

	p := &pages{}
	if p.report, err = page("report.html"); err != nil {
		return nil, err
	}
	if p.preview, err = page("preview.html"); err != nil {
		return nil, err
	}
	if p.notFound, err = page("notfound.html"); err != nil {
		return nil, err
	}
	return p, nil
}

// errorMessage is the inline error box: a title and the raw cause.
type errorMessage struct {
	Title string
	Cause string
}

func newErrorMessage(title string, err error) *errorMessage {
	if err == nil {
		return nil
	}
	return &errorMessage{Title: title, Cause: err.Error()}
}

// reportView is the data behind report.html.
type reportView struct {
	Title        string
	Heading      string
	Description  string
	PreviewURL   string
	Action       string
	Categories   []report.Category
	Reason       string
	Subreason    string
	Comment      string
	SubmitError  *errorMessage
	CommentError string
	ReasonError  string
	State        string
	Busy         bool
	Disabled     bool
}

func (s *Server) newReportView(target report.Target, sub *report.Submission) reportView {
	v := reportView{
		Title:       "Report • " + s.Config.AppName,
		Heading:     reportHeading,
		Description: reportDescription,
		PreviewURL:  "/posts/" + url.PathEscape(target.PublicationID) + "/preview",
		Action:      "/posts/" + url.PathEscape(target.PublicationID) + "/report",
		Categories:  s.Reports.Catalog().Categories,
	}
	if sub == nil {
		sub = report.NewSubmission(report.Form{})
	}
	v.Reason = sub.Form.Reason
	v.Subreason = sub.Form.Subreason
	if sub.Form.AdditionalComments != nil {
		v.Comment = *sub.Form.AdditionalComments
	}
	v.SubmitError = newErrorMessage(submitErrorTitle, sub.Err)
	v.CommentError = sub.FieldMessage(report.FieldAdditionalComments)
	v.ReasonError = sub.FieldMessage(report.FieldReason)
	v.State = sub.State.String()
	v.Busy = sub.Busy()
	v.Disabled = !sub.CanSubmit()
	return v
}

// notFoundView is the data behind notfound.html.
type notFoundView struct {
	Title string
}

// previewView is the data behind preview.html.
type previewView struct {
	Publication *lens.Publication
	Error       *errorMessage
}

// render executes a template into a buffer first so a template failure turns
// into a clean 500 instead of a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, t *template.Template, name string, status int, data any) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger(r).Error("render template", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger(r).Warn("write response", zap.Error(err))
	}
}
