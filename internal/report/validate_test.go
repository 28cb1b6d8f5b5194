package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		comment *string
		valid   bool
	}{
		{"missing", nil, true},
		{"empty", strPtr(""), true},
		{"short", strPtr("looks like a scam"), true},
		{"exactly max", strPtr(strings.Repeat("a", MaxCommentLength)), true},
		{"one over max", strPtr(strings.Repeat("a", MaxCommentLength+1)), false},
		{"multibyte within limit", strPtr(strings.Repeat("é", MaxCommentLength)), true},
		// each emoji is two UTF-16 code units
		{"astral over limit", strPtr(strings.Repeat("😀", MaxCommentLength/2+1)), false},
		{"astral at limit", strPtr(strings.Repeat("😀", MaxCommentLength/2)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Validate(Form{AdditionalComments: tt.comment})
			assert.Equal(t, tt.valid, v.Valid())
			if tt.valid {
				assert.Equal(t, tt.comment, v.AdditionalComments)
				return
			}
			assert.Nil(t, v.AdditionalComments)
			assert.Equal(t, "Additional comments should not exceed 260 characters",
				FieldMessage(v.Errors, FieldAdditionalComments))
		})
	}
}

func TestCommentLength(t *testing.T) {
	assert.Equal(t, 0, commentLength(""))
	assert.Equal(t, 3, commentLength("abc"))
	assert.Equal(t, 1, commentLength("é"))
	assert.Equal(t, 2, commentLength("😀"))
}
