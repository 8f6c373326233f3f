package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

// Vendor statuses that end a music poll
const (
	musicSuccess = "success"
	musicFailed  = "failed"
)

// MusicRequest is one song submission. Lyrics are left out when empty.
type MusicRequest struct {
	Title        string `json:"title"`
	Tags         string `json:"tags"`
	Lyrics       string `json:"lyrics,omitempty"`
	Instrumental bool   `json:"instrumental"`
}

// MusicGenerator turns a song request into asset references
type MusicGenerator interface {
	Generate(ctx context.Context, req MusicRequest) ([]string, error)
}

type musicSubmitResponse struct {
	RequestID string `json:"request_id"`
}

type musicStatusResponse struct {
	Status string   `json:"status"`
	Result []string `json:"result"`
}

// MusicClient submits songs and polls until the vendor reports success or failure
type MusicClient struct {
	apiKey  string
	baseURL string
	tags    string
	policy  PollPolicy
	client  *http.Client
}

// NewMusicClient creates a music client from config
func NewMusicClient(cfg types.MusicConfig) *MusicClient {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = types.DefaultMusicPollInterval
	}
	tags := cfg.Tags
	if tags == "" {
		tags = types.DefaultMusicTags
	}

	return &MusicClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		tags:    tags,
		policy:  UnboundedPolicy(interval, musicSuccess, musicFailed),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Policy returns the polling policy in use
func (c *MusicClient) Policy() PollPolicy {
	return c.policy
}

// Tags joins the configured genre/mood tags with the resolved tone
func (c *MusicClient) Tags(tones types.ToneSet) string {
	if tones.IsEmpty() {
		return c.tags
	}
	return c.tags + ", " + tones.String()
}

func (c *MusicClient) setHeaders(h http.Header) {
	h.Set("Authorization", "Bearer "+c.apiKey)
}

// Submit starts a music job and returns its handle
func (c *MusicClient) Submit(ctx context.Context, req MusicRequest) (*types.JobHandle, error) {
	if c.baseURL == "" {
		return nil, errors.New("music vendor base_url is not configured")
	}

	var resp musicSubmitResponse
	if err := doJSON(ctx, c.client, http.MethodPost, c.baseURL, c.setHeaders, req, &resp); err != nil {
		return nil, err
	}
	if resp.RequestID == "" {
		return nil, fmt.Errorf("music submit response has no request_id")
	}
	return &types.JobHandle{JobID: resp.RequestID, Vendor: types.VendorMusic, Status: types.JobPending}, nil
}

func (c *MusicClient) status(handle *types.JobHandle) CheckFunc[[]string] {
	url := c.baseURL + "/" + handle.JobID
	return func(ctx context.Context) (Snapshot[[]string], error) {
		var resp musicStatusResponse
		if err := doJSON(ctx, c.client, http.MethodGet, url, c.setHeaders, nil, &resp); err != nil {
			return Snapshot[[]string]{}, err
		}
		return Snapshot[[]string]{Status: resp.Status, Result: resp.Result}, nil
	}
}

// Generate submits req and waits, without an attempt bound, for the song.
// Callers bound the wait through ctx.
func (c *MusicClient) Generate(ctx context.Context, req MusicRequest) ([]string, error) {
	handle, err := c.Submit(ctx, req)
	if err != nil {
		log.Printf("[Music] submit failed: %v", err)
		return nil, types.NewUnavailable(types.MsgMusicFailed, err)
	}
	log.Printf("[Music] submitted request %s (lyrics: %t)", handle.JobID, req.Lyrics != "")

	refs, err := Poll(ctx, c.policy, handle, c.status(handle))
	if err != nil {
		log.Printf("[Music] request %s: %v", handle.JobID, err)
		return nil, types.AsUnavailable(types.MsgMusicFailed, err)
	}
	if len(refs) == 0 {
		return nil, types.NewUnavailable(types.MsgMusicFailed, errors.New("completed job returned no assets"))
	}
	return refs, nil
}
