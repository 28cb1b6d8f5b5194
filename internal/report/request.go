package report

import (
	"strings"

	"github.com/patrickwarner/pubreport/internal/lens"
)

// ReasonPolicy selects which reason a submitted report carries.
type ReasonPolicy string

const (
	// ReasonPolicyFixed sends FixedReason and ignores the selector.
	ReasonPolicyFixed ReasonPolicy = "fixed"
	// ReasonPolicySelected sends the reason picked in the selector.
	ReasonPolicySelected ReasonPolicy = "selected"
)

// ParseReasonPolicy maps a configured policy name onto a ReasonPolicy.
// Case and surrounding space are ignored; unknown names select
// ReasonPolicyFixed.
func ParseReasonPolicy(name string) ReasonPolicy {
	if ReasonPolicy(strings.ToLower(strings.TrimSpace(name))) == ReasonPolicySelected {
		return ReasonPolicySelected
	}
	return ReasonPolicyFixed
}

// FixedReason is sent under ReasonPolicyFixed.
var FixedReason = lens.ReportingReason{Category: "SENSITIVE", Subcategory: "OFFENSIVE"}

// BuildRequest assembles the mutation input for a validated form. Under the
// selected policy the form's reason must be in the catalog.
func BuildRequest(target Target, form Form, v Validation, policy ReasonPolicy, catalog *Catalog) (lens.ReportPublicationRequest, error) {
	reason := FixedReason
	if policy == ReasonPolicySelected {
		r, err := catalog.Reason(form.Reason, form.Subreason)
		if err != nil {
			return lens.ReportPublicationRequest{}, err
		}
		reason = r
	}
	return lens.ReportPublicationRequest{
		PublicationID:      target.PublicationID,
		Reason:             reason,
		AdditionalComments: v.AdditionalComments,
	}, nil
}
