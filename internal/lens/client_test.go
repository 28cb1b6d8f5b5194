package lens

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/patrickwarner/pubreport/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturedRequest struct {
	OperationName string          `json:"operationName"`
	Query         string          `json:"query"`
	Variables     json.RawMessage `json:"variables"`
}

func newTestClient(url string) *Client {
	return NewClient(url, time.Second, zap.NewNop(), observability.NewNoOpRegistry())
}

func TestClient_Publication(t *testing.T) {
	var got capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST method, got %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("Expected no Authorization header on queries, got %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode request: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{
			"publication":{"__typename":"Post","id":"0x01-0x42","createdAt":"2022-05-01T10:00:00Z",
				"profile":{"id":"0x01","handle":"alice.lens","name":"Alice","ownedBy":"0xdef"},
				"metadata":{"content":"gm"},
				"stats":{"totalAmountOfComments":3}},
			"doesFollow":[{"followerAddress":"0xabc","profileId":"0x01","follows":true}]}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	res, err := client.Publication(context.Background(),
		PublicationRequest{PublicationID: "0x01-0x42"},
		FollowRequest{FollowInfos: []FollowInfo{{FollowerAddress: "0xabc", ProfileID: "0x01"}}})
	require.NoError(t, err)

	assert.Equal(t, OpPublication, got.OperationName)
	assert.Contains(t, got.Query, "doesFollow(request: $followRequest)")
	assert.JSONEq(t, `{"request":{"publicationId":"0x01-0x42"},
		"followRequest":{"followInfos":[{"followerAddress":"0xabc","profileId":"0x01"}]}}`, string(got.Variables))

	require.NotNil(t, res.Publication)
	assert.Equal(t, "Post", res.Publication.Typename)
	assert.Equal(t, "gm", res.Publication.Metadata.Content)
	assert.Equal(t, "Alice", res.Publication.Profile.DisplayName())
	assert.Equal(t, 3, res.Publication.Stats.TotalAmountOfComments)
	assert.True(t, res.ViewerFollowsAuthor())
}

func TestClient_PublicationNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"publication":null,"doesFollow":[]}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Publication(context.Background(), PublicationRequest{PublicationID: "x"}, FollowRequest{})
	assert.ErrorIs(t, err, ErrPublicationNotFound)
}

func TestClient_ReportPublication(t *testing.T) {
	var got capturedRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"data":{"reportPublication":null}}`))
	}))
	defer server.Close()

	comment := "spam everywhere"
	err := newTestClient(server.URL).ReportPublication(context.Background(), "tok-1", ReportPublicationRequest{
		PublicationID:      "0x01-0x42",
		Reason:             ReportingReason{Category: "SENSITIVE", Subcategory: "OFFENSIVE"},
		AdditionalComments: &comment,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-1", auth)
	assert.Equal(t, OpReportPublication, got.OperationName)
	assert.JSONEq(t, `{"request":{"publicationId":"0x01-0x42",
		"reason":{"sensitiveReason":{"reason":"SENSITIVE","subreason":"OFFENSIVE"}},
		"additionalComments":"spam everywhere"}}`, string(got.Variables))
}

func TestClient_ReportPublicationNullComment(t *testing.T) {
	var got capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"data":{"reportPublication":null}}`))
	}))
	defer server.Close()

	err := newTestClient(server.URL).ReportPublication(context.Background(), "tok", ReportPublicationRequest{
		PublicationID: "1-42",
		Reason:        ReportingReason{Category: "SPAM", Subcategory: "REPETITIVE"},
	})
	require.NoError(t, err)
	assert.Contains(t, string(got.Variables), `"additionalComments":null`)
	assert.Contains(t, string(got.Variables), `"spamReason"`)
}

func TestClient_GraphQLErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":null,"errors":[{"message":"User not authenticated","extensions":{"code":"UNAUTHENTICATED"}}]}`))
	}))
	defer server.Close()

	err := newTestClient(server.URL).ReportPublication(context.Background(), "", ReportPublicationRequest{
		PublicationID: "1-42",
		Reason:        ReportingReason{Category: "SENSITIVE", Subcategory: "OFFENSIVE"},
	})
	var gqlErr *GraphQLError
	require.True(t, errors.As(err, &gqlErr), "expected GraphQLError, got %v", err)
	assert.Equal(t, OpReportPublication, gqlErr.Operation)
	assert.Equal(t, "ReportPublication: User not authenticated", err.Error())
}

func TestClient_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Publication(context.Background(), PublicationRequest{PublicationID: "1-42"}, FollowRequest{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "http 502"), "unexpected error: %v", err)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestClient_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 200*time.Millisecond, zap.NewNop(), observability.NewNoOpRegistry())
	_, err := client.Publication(context.Background(), PublicationRequest{PublicationID: "1-42"}, FollowRequest{})
	assert.Error(t, err)
}

func TestReportingReasonJSON(t *testing.T) {
	data, err := json.Marshal(ReportingReason{Category: "FRAUD", Subcategory: "SCAM"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"fraudReason":{"reason":"FRAUD","subreason":"SCAM"}}`, string(data))

	var r ReportingReason
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, ReportingReason{Category: "FRAUD", Subcategory: "SCAM"}, r)

	_, err = json.Marshal(ReportingReason{Category: "FRAUD"})
	assert.Error(t, err)

	assert.Error(t, json.Unmarshal([]byte(`{"a":{},"b":{}}`), &r))
}
