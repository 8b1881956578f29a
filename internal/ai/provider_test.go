package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavyamurthy/logscope/internal/config"
	"github.com/kavyamurthy/logscope/pkg/models"
)

func sampleStats() models.ReportStats {
	return models.ReportStats{
		TotalCount: 100,
		SeverityCounts: map[string]int{
			models.SeverityError: 5,
			models.SeverityWarn:  12,
			models.SeverityInfo:  83,
		},
		TopPatterns: []models.PatternCount{
			{Pattern: "connection refused to host <n>", Count: 4},
		},
	}
}

func TestNewNarrator(t *testing.T) {
	tests := []struct {
		provider string
		wantErr  bool
		wantName string
	}{
		{"ollama", false, "ollama"},
		{"openai", false, "openai"},
		{"mock", false, "mock"},
		{"gemini", true, ""},
		{"", true, ""},
	}
	for _, tt := range tests {
		t.Run("provider_"+tt.provider, func(t *testing.T) {
			n, err := NewNarrator(config.AIConfig{Provider: tt.provider})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, n.Name())
		})
	}
}

func TestBuildPrompt_NumericOnly(t *testing.T) {
	prompt := BuildPrompt(sampleStats())

	assert.Contains(t, prompt, "Total records: 100")
	assert.Contains(t, prompt, "ERROR: 5")
	assert.Contains(t, prompt, "WARN: 12")
	assert.Contains(t, prompt, "connection refused to host <n>")
	assert.Contains(t, prompt, "not determinable")
}

func TestOllamaProvider_Narrate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)
		assert.False(t, req.Stream)
		assert.Contains(t, req.Prompt, "Total records: 100")

		json.NewEncoder(w).Encode(generateResponse{Response: "All quiet on the log front."})
	}))
	defer srv.Close()

	p := NewOllamaProvider(config.OllamaConfig{BaseURL: srv.URL, Model: "llama3"})
	out, err := p.Narrate(context.Background(), sampleStats())
	require.NoError(t, err)
	assert.Equal(t, "All quiet on the log front.", out)
}

func TestOllamaProvider_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOllamaProvider(config.OllamaConfig{BaseURL: srv.URL, Model: "llama3"})
	_, err := p.Narrate(context.Background(), sampleStats())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestOllamaProvider_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Response: "   "})
	}))
	defer srv.Close()

	p := NewOllamaProvider(config.OllamaConfig{BaseURL: srv.URL, Model: "llama3"})
	_, err := p.Narrate(context.Background(), sampleStats())
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestOpenAIProvider_Narrate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)

		resp := chatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message chatMessage `json:"message"`
		}{Message: chatMessage{Role: "assistant", Content: "Error volume is low."}})
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := NewOpenAIProvider(config.OpenAIConfig{BaseURL: srv.URL, APIKey: "sk-test", Model: "gpt-4o-mini"})
	out, err := p.Narrate(context.Background(), sampleStats())
	require.NoError(t, err)
	assert.Equal(t, "Error volume is low.", out)
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer srv.Close()

	p := NewOpenAIProvider(config.OpenAIConfig{BaseURL: srv.URL, APIKey: "sk-test", Model: "gpt-4o-mini"})
	_, err := p.Narrate(context.Background(), sampleStats())
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestOllamaProvider_Cancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewOllamaProvider(config.OllamaConfig{BaseURL: srv.URL, Model: "llama3"})
	_, err := p.Narrate(ctx, sampleStats())
	if !errors.Is(err, ErrInferenceTimeout) && !strings.Contains(err.Error(), "context canceled") {
		t.Errorf("expected a cancellation error, got %v", err)
	}
}
