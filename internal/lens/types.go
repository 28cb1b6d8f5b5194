package lens

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ZeroAddress stands in for the follower address when no viewer is known.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// PublicationRequest identifies the publication to load.
type PublicationRequest struct {
	PublicationID string `json:"publicationId"`
}

// FollowInfo asks whether FollowerAddress follows the profile ProfileID.
type FollowInfo struct {
	FollowerAddress string `json:"followerAddress"`
	ProfileID       string `json:"profileId"`
}

// FollowRequest carries the follow relationship context sent alongside a
// publication fetch.
type FollowRequest struct {
	FollowInfos []FollowInfo `json:"followInfos"`
}

// FollowStatus is one answer to a FollowInfo.
type FollowStatus struct {
	FollowerAddress string `json:"followerAddress"`
	ProfileID       string `json:"profileId"`
	Follows         bool   `json:"follows"`
}

// Profile is the author of a publication.
type Profile struct {
	ID      string `json:"id"`
	Handle  string `json:"handle"`
	Name    string `json:"name"`
	OwnedBy string `json:"ownedBy"`
}

// DisplayName returns the profile name, falling back to the handle.
func (p Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Handle
}

// Metadata is the user-authored content of a publication.
type Metadata struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Stats holds engagement counters.
type Stats struct {
	TotalAmountOfComments int `json:"totalAmountOfComments"`
	TotalAmountOfMirrors  int `json:"totalAmountOfMirrors"`
	TotalAmountOfCollects int `json:"totalAmountOfCollects"`
}

// Publication is the read-only display shape of a post, comment or mirror.
type Publication struct {
	Typename  string    `json:"__typename"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Hidden    bool      `json:"hidden"`
	Profile   Profile   `json:"profile"`
	Metadata  Metadata  `json:"metadata"`
	Stats     Stats     `json:"stats"`
}

// PublicationResult is the outcome of a publication query: the publication
// and the follow relationship context requested with it.
type PublicationResult struct {
	Publication *Publication   `json:"publication"`
	DoesFollow  []FollowStatus `json:"doesFollow"`
}

// ViewerFollowsAuthor reports whether any follow status came back positive.
func (r *PublicationResult) ViewerFollowsAuthor() bool {
	if r == nil {
		return false
	}
	for _, f := range r.DoesFollow {
		if f.Follows {
			return true
		}
	}
	return false
}

// ReportingReason is a category with one of its subcategories. The API
// expects it keyed by category, e.g.
//
//	{"sensitiveReason": {"reason": "SENSITIVE", "subreason": "OFFENSIVE"}}
type ReportingReason struct {
	Category    string
	Subcategory string
}

type reasonBody struct {
	Reason    string `json:"reason"`
	Subreason string `json:"subreason"`
}

// InputKey is the field name the API uses for this reason's category.
func (r ReportingReason) InputKey() string {
	return strings.ToLower(r.Category) + "Reason"
}

func (r ReportingReason) MarshalJSON() ([]byte, error) {
	if r.Category == "" || r.Subcategory == "" {
		return nil, fmt.Errorf("reporting reason requires category and subcategory")
	}
	return json.Marshal(map[string]reasonBody{
		r.InputKey(): {Reason: r.Category, Subreason: r.Subcategory},
	})
}

func (r *ReportingReason) UnmarshalJSON(data []byte) error {
	var m map[string]reasonBody
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return fmt.Errorf("reporting reason must have exactly one category, got %d", len(m))
	}
	for _, body := range m {
		r.Category = body.Reason
		r.Subcategory = body.Subreason
	}
	return nil
}

// ReportPublicationRequest is the mutation input for a report.
type ReportPublicationRequest struct {
	PublicationID      string          `json:"publicationId"`
	Reason             ReportingReason `json:"reason"`
	AdditionalComments *string         `json:"additionalComments"`
}
