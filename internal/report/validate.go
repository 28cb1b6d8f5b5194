package report

import (
	"fmt"
	"unicode/utf16"
)

// MaxCommentLength is the longest additional comment accepted, in UTF-16
// code units.
const MaxCommentLength = 260

// Field names of the report form.
const (
	FieldReason             = "reason"
	FieldSubreason          = "subreason"
	FieldAdditionalComments = "additionalComments"
)

// CommentTooLongMessage is shown under the comment field when it is too long.
var CommentTooLongMessage = fmt.Sprintf("Additional comments should not exceed %d characters", MaxCommentLength)

// ReasonRequiredMessage is shown when the selected reason is not usable.
const ReasonRequiredMessage = "Select a reason and a sub-reason"

// Form is the raw report form as submitted by the viewer. A nil
// AdditionalComments means the field was not sent at all.
type Form struct {
	Reason             string
	Subreason          string
	AdditionalComments *string
}

// FieldError is a validation failure attached to one form field.
type FieldError struct {
	Field   string
	Message string
}

// Validation is the typed result of Validate: either a valid comment or a
// list of field errors.
type Validation struct {
	AdditionalComments *string
	Errors             []FieldError
}

// Valid reports whether the form passed validation.
func (v Validation) Valid() bool {
	return len(v.Errors) == 0
}

// Validate checks the form. Only the comment is constrained here: it is
// optional and at most MaxCommentLength long. The value is passed through
// unchanged so an empty comment stays empty and a missing one stays nil.
func Validate(form Form) Validation {
	if form.AdditionalComments != nil && commentLength(*form.AdditionalComments) > MaxCommentLength {
		return Validation{Errors: []FieldError{{Field: FieldAdditionalComments, Message: CommentTooLongMessage}}}
	}
	return Validation{AdditionalComments: form.AdditionalComments}
}

// commentLength counts UTF-16 code units, the unit browsers use for string
// length and for a textarea maxlength.
func commentLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// FieldMessage returns the first error message for field, or "".
func FieldMessage(errs []FieldError, field string) string {
	for _, e := range errs {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}
