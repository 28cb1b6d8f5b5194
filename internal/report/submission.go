package report

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a submission is driven out of order.
var ErrInvalidTransition = errors.New("invalid submission transition")

// State is the lifecycle of a single report submission.
//
//	Idle -> Submitting -> Failed | Submitted
//	Failed -> Submitting
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateFailed
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateFailed:
		return "failed"
	case StateSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Submission tracks one attempt to report a publication along with what the
// form should show afterwards.
type Submission struct {
	State       State
	Form        Form
	FieldErrors []FieldError
	Err         error
}

// NewSubmission starts an idle submission for form.
func NewSubmission(form Form) *Submission {
	return &Submission{State: StateIdle, Form: form}
}

// Reject records validation errors. The submission stays idle.
func (s *Submission) Reject(errs []FieldError) {
	s.FieldErrors = errs
}

// Begin moves an idle or failed submission to submitting.
func (s *Submission) Begin() error {
	if !s.CanSubmit() {
		return fmt.Errorf("%w: begin from %s", ErrInvalidTransition, s.State)
	}
	s.State = StateSubmitting
	s.Err = nil
	s.FieldErrors = nil
	return nil
}

// Fail records the cause of a failed submission.
func (s *Submission) Fail(err error) error {
	if s.State != StateSubmitting {
		return fmt.Errorf("%w: fail from %s", ErrInvalidTransition, s.State)
	}
	s.State = StateFailed
	s.Err = err
	return nil
}

// Succeed marks the submission as done. Submitted is terminal.
func (s *Submission) Succeed() error {
	if s.State != StateSubmitting {
		return fmt.Errorf("%w: succeed from %s", ErrInvalidTransition, s.State)
	}
	s.State = StateSubmitted
	return nil
}

// Busy reports whether the submit control should be disabled with a busy
// indicator.
func (s *Submission) Busy() bool {
	return s.State == StateSubmitting
}

// CanSubmit reports whether the submit control accepts input.
func (s *Submission) CanSubmit() bool {
	return s.State == StateIdle || s.State == StateFailed
}

// FieldMessage returns the validation message for field, if any.
func (s *Submission) FieldMessage(field string) string {
	return FieldMessage(s.FieldErrors, field)
}
