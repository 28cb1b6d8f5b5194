package report

import (
	"testing"

	"github.com/patrickwarner/pubreport/internal/lens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequest_FixedPolicyIgnoresSelection(t *testing.T) {
	target := Target{PublicationID: "1-42", ProfileID: "1"}
	form := Form{Reason: "SPAM", Subreason: "REPETITIVE", AdditionalComments: strPtr("again")}

	req, err := BuildRequest(target, form, Validate(form), ReasonPolicyFixed, DefaultCatalog())
	require.NoError(t, err)
	assert.Equal(t, "1-42", req.PublicationID)
	assert.Equal(t, lens.ReportingReason{Category: "SENSITIVE", Subcategory: "OFFENSIVE"}, req.Reason)
	require.NotNil(t, req.AdditionalComments)
	assert.Equal(t, "again", *req.AdditionalComments)
}

func TestBuildRequest_SelectedPolicy(t *testing.T) {
	target := Target{PublicationID: "1-42", ProfileID: "1"}
	form := Form{Reason: "SPAM", Subreason: "REPETITIVE"}

	req, err := BuildRequest(target, form, Validate(form), ReasonPolicySelected, DefaultCatalog())
	require.NoError(t, err)
	assert.Equal(t, lens.ReportingReason{Category: "SPAM", Subcategory: "REPETITIVE"}, req.Reason)
	assert.Nil(t, req.AdditionalComments)

	form.Subreason = "NSFW"
	_, err = BuildRequest(target, form, Validate(form), ReasonPolicySelected, DefaultCatalog())
	assert.ErrorIs(t, err, ErrUnknownReason)
}

func TestParseReasonPolicy(t *testing.T) {
	tests := map[string]ReasonPolicy{
		"":           ReasonPolicyFixed,
		"fixed":      ReasonPolicyFixed,
		"selected":   ReasonPolicySelected,
		" Selected ": ReasonPolicySelected,
		"whatever":   ReasonPolicyFixed,
		"SELECTED\n": ReasonPolicySelected,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseReasonPolicy(in), "input %q", in)
	}
}
