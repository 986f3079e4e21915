package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"parley/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTransport plays a canned Elasticsearch response and records requests.
type stubTransport struct {
	status   int
	body     string
	requests []*http.Request
	bodies   []string
}

func (t *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.requests = append(t.requests, req)
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		t.bodies = append(t.bodies, string(b))
	} else {
		t.bodies = append(t.bodies, "")
	}

	header := http.Header{}
	// the v8 client verifies it is talking to a real cluster
	header.Set("X-Elastic-Product", "Elasticsearch")
	header.Set("Content-Type", "application/json")

	return &http.Response{
		StatusCode: t.status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(t.body)),
		Request:    req,
	}, nil
}

func TestSplitHashtags(t *testing.T) {
	assert.Equal(t, []string{"go", "testing"}, SplitHashtags("#go, #Testing"))
	assert.Equal(t, []string{"solo"}, SplitHashtags("solo"))
	assert.Empty(t, SplitHashtags(""))
	assert.Empty(t, SplitHashtags(" , "))
}

func TestIndexDiscussion(t *testing.T) {
	transport := &stubTransport{status: http.StatusCreated, body: `{"result":"created"}`}
	client, err := NewClientWithTransport(transport)
	require.NoError(t, err)

	err = client.IndexDiscussion(context.Background(), &models.Discussion{
		ID: 7, Text: "go rocks", Hashtags: "#go,#dev", UserID: 3,
	})
	require.NoError(t, err)

	require.Len(t, transport.requests, 1)
	req := transport.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/discussions/_doc/7", req.URL.Path)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(transport.bodies[0]), &doc))
	assert.Equal(t, "go rocks", doc["text"])
	assert.Equal(t, []any{"go", "dev"}, doc["hashtags"])
}

func TestDeleteDiscussionMissingIsNotAnError(t *testing.T) {
	transport := &stubTransport{status: http.StatusNotFound, body: `{"result":"not_found"}`}
	client, err := NewClientWithTransport(transport)
	require.NoError(t, err)

	assert.NoError(t, client.DeleteDiscussion(context.Background(), 42))
}

func TestSearchHashtagBuildsTermQuery(t *testing.T) {
	body := `{"hits":{"hits":[{"_id":"7","_source":{"id":7,"text":"go rocks"}}]}}`
	transport := &stubTransport{status: http.StatusOK, body: body}
	client, err := NewClientWithTransport(transport)
	require.NoError(t, err)

	hits, err := client.SearchHashtag(context.Background(), "#Go")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "7", hits[0].ID)

	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(transport.bodies[0]), &q))
	term := q["query"].(map[string]any)["term"].(map[string]any)
	assert.Equal(t, "go", term["hashtags"], "tag is lowercased and stripped of '#'")
}

func TestSearchDiscussionsEmptyResult(t *testing.T) {
	transport := &stubTransport{status: http.StatusOK, body: `{"hits":{"hits":[]}}`}
	client, err := NewClientWithTransport(transport)
	require.NoError(t, err)

	hits, err := client.SearchDiscussions(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.NotNil(t, hits, "empty result is [] not null")
}

func TestSearchErrorStatus(t *testing.T) {
	transport := &stubTransport{status: http.StatusInternalServerError, body: `{"error":"boom"}`}
	client, err := NewClientWithTransport(transport)
	require.NoError(t, err)

	_, err = client.SearchUsers(context.Background(), "alice")
	assert.Error(t, err)
}
