package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

type fakeImageVendor struct {
	t        *testing.T
	statuses []string
	polls    atomic.Int32
	submit   int
	lastBody map[string]any
}

func (v *fakeImageVendor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	assert.Equal(v.t, "test-key", r.Header.Get("x-freepik-api-key"))

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/mystic":
		if v.submit != 0 {
			w.WriteHeader(v.submit)
			return
		}
		require.NoError(v.t, json.NewDecoder(r.Body).Decode(&v.lastBody))
		_, _ = w.Write([]byte(`{"data":{"task_id":"task-42","status":"CREATED"}}`))
	case r.Method == http.MethodGet && r.URL.Path == "/mystic/task-42":
		n := int(v.polls.Add(1))
		status := v.statuses[len(v.statuses)-1]
		if n <= len(v.statuses) {
			status = v.statuses[n-1]
		}
		generated := "[]"
		if strings.EqualFold(status, "COMPLETED") {
			generated = fmt.Sprintf(`["https://cdn.example.com/poll-%d.png"]`, n)
		}
		_, _ = w.Write([]byte(`{"data":{"status":"` + status + `","generated":` + generated + `}}`))
	default:
		http.NotFound(w, r)
	}
}

func newImageClientFor(t *testing.T, vendor *fakeImageVendor) *ImageClient {
	vendor.t = t
	srv := httptest.NewServer(vendor)
	t.Cleanup(srv.Close)

	return NewImageClient(types.ImageConfig{
		APIKey:       "test-key",
		BaseURL:      srv.URL + "/mystic",
		PollInterval: time.Millisecond,
		MaxAttempts:  3,
		Timeout:      time.Second,
	})
}

func TestImageClient_CompletedOnSecondPoll(t *testing.T) {
	vendor := &fakeImageVendor{statuses: []string{"IN_PROGRESS", "COMPLETED", "COMPLETED"}}
	c := newImageClientFor(t, vendor)

	refs, err := c.Generate(context.Background(), "A soldier writes a letter. It all happened during WWII.")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/poll-2.png"}, refs)
	assert.EqualValues(t, 2, vendor.polls.Load())

	assert.Equal(t, "A soldier writes a letter. It all happened during WWII.", vendor.lastBody["prompt"])
	assert.Equal(t, "1k", vendor.lastBody["resolution"])
	assert.Equal(t, "social_story_9_16", vendor.lastBody["aspect_ratio"])
	assert.Equal(t, "realism", vendor.lastBody["model"])
	assert.Equal(t, true, vendor.lastBody["filter_nsfw"])
}

func TestImageClient_NeverCompletes(t *testing.T) {
	vendor := &fakeImageVendor{statuses: []string{"IN_PROGRESS"}}
	c := newImageClientFor(t, vendor)

	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, types.IsUnavailable(err))
	assert.Equal(t, types.MsgImageNotReady, types.MessageOf(err))
	assert.ErrorIs(t, err, ErrNotCompleted)
	assert.EqualValues(t, 3, vendor.polls.Load())
}

func TestImageClient_SubmitRejected(t *testing.T) {
	vendor := &fakeImageVendor{submit: http.StatusPaymentRequired}
	c := newImageClientFor(t, vendor)

	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, types.IsUnavailable(err))

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusPaymentRequired, statusErr.StatusCode)
	assert.EqualValues(t, 0, vendor.polls.Load())
}

func TestNewImageClient_Defaults(t *testing.T) {
	c := NewImageClient(types.ImageConfig{})

	assert.Equal(t, types.DefaultImageBaseURL, c.baseURL)
	assert.Equal(t, types.DefaultImageMaxAttempts, c.Policy().MaxAttempts)
	assert.Equal(t, types.DefaultImagePollInterval, c.Policy().Interval)
}
