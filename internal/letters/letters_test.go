package letters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhe.chen/agent-letter-story/pkg/types"
)

func newArchive(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return NewClient(types.LettersConfig{BaseURL: srv.URL, CacheTTL: time.Minute, Timeout: time.Second}), &hits
}

func TestClient_Letter_FirstRecordAndCache(t *testing.T) {
	c, hits := newArchive(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/letters/17", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":17,"text":"Дорогая мама!"},{"id":18,"text":"второе"}]`))
	})

	text, err := c.Letter(context.Background(), "17")
	require.NoError(t, err)
	assert.Equal(t, "Дорогая мама!", text)

	text, err = c.Letter(context.Background(), "17")
	require.NoError(t, err)
	assert.Equal(t, "Дорогая мама!", text)
	assert.EqualValues(t, 1, hits.Load())
}

func TestClient_Letter_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"404", func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) }},
		{"empty list", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`[]`)) }},
		{"blank text", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`[{"text":"  "}]`)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newArchive(t, tt.handler)

			_, err := c.Letter(context.Background(), "3")
			require.Error(t, err)
			assert.True(t, types.IsUserError(err))
			assert.Equal(t, types.MsgLetterNotFound, types.MessageOf(err))
		})
	}
}

func TestClient_Letter_ArchiveDown(t *testing.T) {
	c, _ := newArchive(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Letter(context.Background(), "3")
	require.Error(t, err)
	assert.True(t, types.IsUnavailable(err))
}

func TestClient_Letter_BlankID(t *testing.T) {
	c, hits := newArchive(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := c.Letter(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, types.IsUserError(err))
	assert.EqualValues(t, 0, hits.Load())
}
