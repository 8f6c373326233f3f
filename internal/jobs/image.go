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

// imageCompleted is the vendor status that ends an image poll
const imageCompleted = "COMPLETED"

// ImageGenerator turns a prompt into asset references
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) ([]string, error)
}

// imageRequest carries the fixed generation parameters sent with every prompt
type imageRequest struct {
	Prompt            string `json:"prompt"`
	StructureStrength int    `json:"structure_strength"`
	Adherence         int    `json:"adherence"`
	HDR               int    `json:"hdr"`
	Resolution        string `json:"resolution"`
	AspectRatio       string `json:"aspect_ratio"`
	Model             string `json:"model"`
	CreativeDetailing int    `json:"creative_detailing"`
	Engine            string `json:"engine"`
	FixedGeneration   bool   `json:"fixed_generation"`
	FilterNSFW        bool   `json:"filter_nsfw"`
}

func newImageRequest(prompt string) imageRequest {
	return imageRequest{
		Prompt:            prompt,
		StructureStrength: 50,
		Adherence:         50,
		HDR:               50,
		Resolution:        "1k",
		AspectRatio:       "social_story_9_16",
		Model:             "realism",
		CreativeDetailing: 33,
		Engine:            "automatic",
		FixedGeneration:   false,
		FilterNSFW:        true,
	}
}

type imageSubmitResponse struct {
	Data struct {
		TaskID string `json:"task_id"`
	} `json:"data"`
}

type imageStatusResponse struct {
	Data struct {
		Status    string   `json:"status"`
		Generated []string `json:"generated"`
	} `json:"data"`
}

// ImageClient submits prompts to the image vendor and polls a bounded number of times
type ImageClient struct {
	apiKey  string
	baseURL string
	policy  PollPolicy
	client  *http.Client
}

// NewImageClient creates an image client from config
func NewImageClient(cfg types.ImageConfig) *ImageClient {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = types.DefaultImagePollInterval
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = types.DefaultImageMaxAttempts
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = types.DefaultImageBaseURL
	}

	return &ImageClient{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		policy:  BoundedPolicy(attempts, interval, imageCompleted),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Policy returns the polling policy in use
func (c *ImageClient) Policy() PollPolicy {
	return c.policy
}

func (c *ImageClient) setHeaders(h http.Header) {
	h.Set("x-freepik-api-key", c.apiKey)
}

// Submit starts an image job and returns its handle
func (c *ImageClient) Submit(ctx context.Context, prompt string) (*types.JobHandle, error) {
	var resp imageSubmitResponse
	if err := doJSON(ctx, c.client, http.MethodPost, c.baseURL, c.setHeaders, newImageRequest(prompt), &resp); err != nil {
		return nil, err
	}
	if resp.Data.TaskID == "" {
		return nil, fmt.Errorf("image submit response has no task_id")
	}
	return &types.JobHandle{JobID: resp.Data.TaskID, Vendor: types.VendorImage, Status: types.JobPending}, nil
}

func (c *ImageClient) status(handle *types.JobHandle) CheckFunc[[]string] {
	url := c.baseURL + "/" + handle.JobID
	return func(ctx context.Context) (Snapshot[[]string], error) {
		var resp imageStatusResponse
		if err := doJSON(ctx, c.client, http.MethodGet, url, c.setHeaders, nil, &resp); err != nil {
			return Snapshot[[]string]{}, err
		}
		return Snapshot[[]string]{Status: resp.Data.Status, Result: resp.Data.Generated}, nil
	}
}

// Generate submits prompt and waits for the generated asset references
func (c *ImageClient) Generate(ctx context.Context, prompt string) ([]string, error) {
	handle, err := c.Submit(ctx, prompt)
	if err != nil {
		log.Printf("[Image] submit failed: %v", err)
		return nil, types.NewUnavailable(types.MsgImageNotReady, err)
	}
	log.Printf("[Image] submitted task %s", handle.JobID)

	refs, err := Poll(ctx, c.policy, handle, c.status(handle))
	if err != nil {
		log.Printf("[Image] task %s: %v", handle.JobID, err)
		return nil, types.AsUnavailable(types.MsgImageNotReady, err)
	}
	if len(refs) == 0 {
		return nil, types.NewUnavailable(types.MsgImageNotReady, errors.New("completed job returned no assets"))
	}
	return refs, nil
}
