// Package search wraps the Elasticsearch index used for discussions and user
// names, and hosts the search service's HTTP surface.
package search

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"parley/internal/config"
	"parley/internal/models"
	"parley/internal/observability"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const (
	discussionIndex = "discussions"
	userIndex       = "users"
)

// Client is a thin adapter over the official Elasticsearch client.
type Client struct {
	es *elasticsearch.Client
}

// discussionDoc is the indexed shape of a discussion. Hashtags are stored
// split so exact-tag queries can use a term match.
type discussionDoc struct {
	ID       uint     `json:"id"`
	Text     string   `json:"text"`
	Hashtags []string `json:"hashtags"`
	UserID   uint     `json:"user_id"`
}

type userDoc struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// Hit is one search result: the document ID and its raw source.
type Hit struct {
	ID     string          `json:"_id"`
	Source json.RawMessage `json:"_source"`
}

// NewClient builds a Client from configuration. When SSL verification is
// disabled the HTTP transport skips certificate checks (self-signed dev
// clusters).
func NewClient(cfg *config.Config) (*Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.ElasticsearchURL},
	}
	if !cfg.ElasticsearchSSLVerify {
		esCfg.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &Client{es: es}, nil
}

// NewClientWithTransport builds a Client over a custom transport. Tests use
// this to stub the cluster.
func NewClientWithTransport(rt http.RoundTripper) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://stub:9200"},
		Transport: rt,
	})
	if err != nil {
		return nil, err
	}
	return &Client{es: es}, nil
}

// SplitHashtags turns the comma-separated hashtags column into index terms.
// Leading '#' and surrounding whitespace are stripped; empties dropped.
func SplitHashtags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tag := strings.TrimPrefix(strings.TrimSpace(p), "#")
		if tag != "" {
			tags = append(tags, strings.ToLower(tag))
		}
	}
	return tags
}

// IndexDiscussion writes (or overwrites) the discussion document.
func (c *Client) IndexDiscussion(ctx context.Context, d *models.Discussion) error {
	doc := discussionDoc{
		ID:       d.ID,
		Text:     d.Text,
		Hashtags: SplitHashtags(d.Hashtags),
		UserID:   d.UserID,
	}
	return c.index(ctx, discussionIndex, strconv.FormatUint(uint64(d.ID), 10), doc)
}

// DeleteDiscussion removes the discussion document. A missing document is not
// an error.
func (c *Client) DeleteDiscussion(ctx context.Context, id uint) error {
	return c.delete(ctx, discussionIndex, strconv.FormatUint(uint64(id), 10))
}

// IndexUser writes (or overwrites) the user-name document.
func (c *Client) IndexUser(ctx context.Context, u *models.User) error {
	return c.index(ctx, userIndex, strconv.FormatUint(uint64(u.ID), 10), userDoc{ID: u.ID, Name: u.Name})
}

// DeleteUser removes the user document. A missing document is not an error.
func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	return c.delete(ctx, userIndex, strconv.FormatUint(uint64(id), 10))
}

// SearchDiscussions runs a free-text match over discussion text.
func (c *Client) SearchDiscussions(ctx context.Context, query string) ([]Hit, error) {
	body := map[string]any{
		"query": map[string]any{
			"match": map[string]any{"text": query},
		},
	}
	return c.search(ctx, discussionIndex, body)
}

// SearchHashtag runs an exact-term query over discussion hashtags.
func (c *Client) SearchHashtag(ctx context.Context, tag string) ([]Hit, error) {
	tag = strings.ToLower(strings.TrimPrefix(tag, "#"))
	body := map[string]any{
		"query": map[string]any{
			"term": map[string]any{"hashtags": tag},
		},
	}
	return c.search(ctx, discussionIndex, body)
}

// SearchUsers runs a free-text match over user names.
func (c *Client) SearchUsers(ctx context.Context, name string) ([]Hit, error) {
	body := map[string]any{
		"query": map[string]any{
			"match": map[string]any{"name": name},
		},
	}
	return c.search(ctx, userIndex, body)
}

func (c *Client) index(ctx context.Context, index, id string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := c.es.Index(index, strings.NewReader(string(payload)),
		c.es.Index.WithDocumentID(id),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		observability.SearchIndexOps.WithLabelValues("index", "error").Inc()
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		observability.SearchIndexOps.WithLabelValues("index", "error").Inc()
		return fmt.Errorf("index %s/%s: %s", index, id, res.Status())
	}
	observability.SearchIndexOps.WithLabelValues("index", "ok").Inc()
	return nil
}

func (c *Client) delete(ctx context.Context, index, id string) error {
	res, err := c.es.Delete(index, id, c.es.Delete.WithContext(ctx))
	if err != nil {
		observability.SearchIndexOps.WithLabelValues("delete", "error").Inc()
		return err
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		observability.SearchIndexOps.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("delete %s/%s: %s", index, id, res.Status())
	}
	observability.SearchIndexOps.WithLabelValues("delete", "ok").Inc()
	return nil
}

func (c *Client) search(ctx context.Context, index string, body map[string]any) ([]Hit, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(strings.NewReader(string(payload))),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", index, res.Status())
	}

	return decodeHits(res)
}

func decodeHits(res *esapi.Response) ([]Hit, error) {
	var envelope struct {
		Hits struct {
			Hits []Hit `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if envelope.Hits.Hits == nil {
		return []Hit{}, nil
	}
	return envelope.Hits.Hits, nil
}
