// Package letters fetches wartime letters from the external archive by id.
package letters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

// ErrNotFound is returned when the archive has no usable record for an id
var ErrNotFound = errors.New("letter not found")

// Record is one letter entry; only Text is consumed
type Record struct {
	ID    json.RawMessage `json:"id,omitempty"`
	Title string          `json:"title,omitempty"`
	Text  string          `json:"text"`
}

// Source resolves a letter id to its text
type Source interface {
	Letter(ctx context.Context, id string) (string, error)
}

// Client reads letters over HTTP and caches them for CacheTTL
type Client struct {
	baseURL string
	client  *http.Client
	cache   *cache.Cache
}

// NewClient creates a letter archive client
func NewClient(cfg types.LettersConfig) *Client {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = types.DefaultLetterCacheTTL
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		cache:   cache.New(ttl, 2*ttl),
	}
}

// Letter returns the text of the first record stored under id
func (c *Client) Letter(ctx context.Context, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", types.NewUserError(types.MsgLetterNotFound)
	}
	if cached, ok := c.cache.Get(id); ok {
		return cached.(string), nil
	}
	if c.baseURL == "" {
		return "", types.NewUnavailable(types.MsgLetterNotFound, errors.New("letters base_url is not configured"))
	}

	records, err := c.fetch(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", types.NewUserError(types.MsgLetterNotFound)
		}
		return "", types.NewUnavailable(types.MsgTryAgainLater, err)
	}
	if len(records) == 0 || strings.TrimSpace(records[0].Text) == "" {
		return "", types.NewUserError(types.MsgLetterNotFound)
	}

	text := records[0].Text
	c.cache.Set(id, text, cache.DefaultExpiration)
	log.Printf("[Letters] fetched letter %s (%d records)", id, len(records))
	return text, nil
}

func (c *Client) fetch(ctx context.Context, id string) ([]Record, error) {
	endpoint := fmt.Sprintf("%s/letters/%s", c.baseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("letter lookup failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("letter lookup returned %d: %s", resp.StatusCode, body)
	}

	var records []Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode letter records: %w", err)
	}
	log.Printf("[Letters] lookup %s took %v", id, time.Since(start))
	return records, nil
}
