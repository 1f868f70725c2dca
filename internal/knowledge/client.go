// Package knowledge queries a training-theory search service and turns the
// passages into skeleton citations.
package knowledge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alexanderramin/velo/internal/domain"
)

// Passage is one search hit.
type Passage struct {
	Source string  `json:"source"`
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
}

// Config configures the search client.
type Config struct {
	Endpoint    string
	Timeout     time.Duration
	Limit       int     // hits per query
	MinScore    float64 // hits below are dropped by the server
	MaxPassages int     // citations kept after merging all queries
	Workers     int
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

type searchRequest struct {
	Query    string  `json:"query"`
	Limit    int     `json:"limit"`
	MinScore float64 `json:"min_score"`
}

type searchResponse struct {
	Results []Passage `json:"results"`
}

// Search runs one query against POST {endpoint}/search.
func (c *Client) Search(ctx context.Context, query string, limit int, minScore float64) ([]Passage, error) {
	body, err := json.Marshal(searchRequest{Query: query, Limit: limit, MinScore: minScore})
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w: %w", query, domain.ErrCollaboratorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("searching %q: status %d: %s: %w", query, resp.StatusCode, bytes.TrimSpace(msg), domain.ErrCollaboratorUnavailable)
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	return out.Results, nil
}
