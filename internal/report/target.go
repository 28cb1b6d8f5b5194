package report

import (
	"errors"
	"strings"

	"github.com/patrickwarner/pubreport/internal/lens"
	"github.com/patrickwarner/pubreport/internal/session"
)

var (
	// ErrMissingID is returned when the route carries no publication id.
	ErrMissingID = errors.New("missing publication id")
	// ErrNotSignedIn is returned when there is no authenticated viewer.
	ErrNotSignedIn = errors.New("not signed in")
)

// Target is the publication a report is about. Route ids have the form
// <profileId>-<publicationId>.
type Target struct {
	PublicationID string
	ProfileID     string
}

// ParseTarget parses a route id.
func ParseTarget(id string) (Target, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Target{}, ErrMissingID
	}
	profileID, _, _ := strings.Cut(id, "-")
	return Target{PublicationID: id, ProfileID: profileID}, nil
}

// CheckAccess is the access guard of the report screen: a viewer and a route
// id are both required. It has no side effects.
func CheckAccess(viewer *session.Session, id string) (Target, error) {
	if viewer == nil || viewer.Address == "" {
		return Target{}, ErrNotSignedIn
	}
	return ParseTarget(id)
}

// PublicationRequest is the query input for the target.
func (t Target) PublicationRequest() lens.PublicationRequest {
	return lens.PublicationRequest{PublicationID: t.PublicationID}
}

// FollowRequest builds the follow context for the target's author as seen by
// viewer. Without a viewer the zero address is used.
func (t Target) FollowRequest(viewer *session.Session) lens.FollowRequest {
	follower := lens.ZeroAddress
	if viewer != nil && viewer.Address != "" {
		follower = viewer.Address
	}
	return lens.FollowRequest{FollowInfos: []lens.FollowInfo{{
		FollowerAddress: follower,
		ProfileID:       t.ProfileID,
	}}}
}
