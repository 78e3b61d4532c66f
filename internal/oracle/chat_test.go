package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, call int32)) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler(w, r, calls.Add(1))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func writeChoice(w http.ResponseWriter, content string) {
	resp := map[string]any{
		"id":      "chatcmpl-1",
		"choices": []map[string]any{{"index": 0, "message": map[string]string{"role": "assistant", "content": content}}},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func newTestChat(t *testing.T, url string) *ChatProvider {
	t.Helper()
	p, err := NewChatProvider(ChatConfig{
		BaseURL:     url + "/v1",
		APIKey:      "sk-test",
		Model:       "gpt-test",
		Temperature: 0.3,
		MaxRetries:  3,
		RetryDelay:  time.Millisecond,
	})
	require.NoError(t, err)
	return p
}

func TestChatProviderComplete(t *testing.T) {
	srv, calls := chatServer(t, func(w http.ResponseWriter, r *http.Request, _ int32) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "versealign/"))

		var req ChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-test", req.Model)
		assert.InDelta(t, 0.3, req.Temperature, 1e-9)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "hello", req.Messages[0].Content)
		}

		writeChoice(w, "world")
	})

	got, err := newTestChat(t, srv.URL).Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "world", got)
	assert.Equal(t, int32(1), calls.Load())
}

func TestChatProviderRetriesServerErrors(t *testing.T) {
	srv, calls := chatServer(t, func(w http.ResponseWriter, _ *http.Request, call int32) {
		if call < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		writeChoice(w, "ok")
	})

	got, err := newTestChat(t, srv.URL).Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, int32(3), calls.Load())
}

func TestChatProviderGivesUp(t *testing.T) {
	srv, calls := chatServer(t, func(w http.ResponseWriter, _ *http.Request, _ int32) {
		http.Error(w, "overloaded", http.StatusBadGateway)
	})

	_, err := newTestChat(t, srv.URL).Complete(context.Background(), "hello")
	assert.ErrorContains(t, err, "max retries exceeded")
	assert.Equal(t, int32(3), calls.Load())
}

func TestChatProviderStopsOnClientErrors(t *testing.T) {
	srv, calls := chatServer(t, func(w http.ResponseWriter, _ *http.Request, _ int32) {
		http.Error(w, `{"error":{"message":"model not found"}}`, http.StatusNotFound)
	})

	_, err := newTestChat(t, srv.URL).Complete(context.Background(), "hello")
	assert.ErrorIs(t, err, errPermanent)
	assert.ErrorContains(t, err, "status 404")
	assert.Equal(t, int32(1), calls.Load())
}

func TestChatProviderEmptyChoices(t *testing.T) {
	srv, _ := chatServer(t, func(w http.ResponseWriter, _ *http.Request, _ int32) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	_, err := newTestChat(t, srv.URL).Complete(context.Background(), "hello")
	assert.ErrorContains(t, err, "no choices in response")
}

func TestNewChatProviderValidates(t *testing.T) {
	_, err := NewChatProvider(ChatConfig{Model: "m"})
	assert.Error(t, err)
	_, err = NewChatProvider(ChatConfig{BaseURL: "http://localhost"})
	assert.Error(t, err)
}
