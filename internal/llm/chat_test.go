package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"news_podcast/internal/config"
	"news_podcast/internal/llm"

	"github.com/stretchr/testify/require"
)

func TestComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req struct {
			Model       string        `json:"model"`
			Messages    []llm.Message `json:"messages"`
			Temperature float64       `json:"temperature"`
			MaxTokens   int           `json:"max_tokens"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "gpt-4o-mini", req.Model)
		require.Equal(t, 0.7, req.Temperature)
		require.Equal(t, 1000, req.MaxTokens)
		require.Equal(t, []llm.Message{{Role: "system", Content: "sys"}, {Role: "user", Content: "usr"}}, req.Messages)

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Host A: Hi\n"}}]}`))
	}))
	defer server.Close()

	client := llm.NewChatClient(config.ChatConfig{
		Endpoint: server.URL, Model: "gpt-4o-mini", APIKey: "key", Temperature: 0.7, MaxTokens: 1000,
	}, 5*time.Second)

	out, err := client.Complete(context.Background(), "sys", "usr")
	require.NoError(t, err)
	require.Equal(t, "Host A: Hi", out)
}

func TestComplete_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "upstream error", status: http.StatusTooManyRequests, body: `{"error":"slow down"}`, wantErr: "429"},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`, wantErr: "no content"},
		{name: "bad json", status: http.StatusOK, body: `nope`, wantErr: "decode completion"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := llm.NewChatClient(config.ChatConfig{Endpoint: server.URL, Model: "m", APIKey: "k"}, time.Second)
			_, err := client.Complete(context.Background(), "s", "u")
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestComplete_Misconfigured(t *testing.T) {
	client := llm.NewChatClient(config.ChatConfig{Endpoint: "http://x", Model: "m"}, time.Second)
	_, err := client.Complete(context.Background(), "s", "u")
	require.ErrorIs(t, err, llm.ErrMisconfigured)
}
