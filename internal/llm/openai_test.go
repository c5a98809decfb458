package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func openaiServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-123",
			Object: "chat.completion",
			Model:  "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Index: 0,
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: content,
					},
					FinishReason: "stop",
				},
			},
			Usage: openai.Usage{
				TotalTokens: 100,
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIProvider_Rewrite_Success(t *testing.T) {
	server := openaiServer(t, "Mercy General took over St. Luke's Clinic.")
	defer server.Close()

	config := Config{
		APIKey:         "test-key",
		BaseURL:        server.URL,
		Model:          "gpt-4o-mini",
		Timeout:        5,
		StrictEntities: true,
	}
	provider, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	req := RewriteRequest{
		Text:             "Mercy General acquired St. Luke's Clinic.",
		Style:            "paraphrase",
		RequiredEntities: []string{"Mercy General", "St. Luke's Clinic"},
	}

	resp, err := provider.Rewrite(context.Background(), req)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}

	if resp.Text != "Mercy General took over St. Luke's Clinic." {
		t.Errorf("Unexpected text: %s", resp.Text)
	}
	if resp.TokensUsed != 100 {
		t.Errorf("Unexpected token usage: %d", resp.TokensUsed)
	}
}

func TestOpenAIProvider_Rewrite_EntityLoss(t *testing.T) {
	server := openaiServer(t, "One hospital took over another.")
	defer server.Close()

	config := Config{
		APIKey:         "test-key",
		BaseURL:        server.URL,
		Timeout:        5,
		StrictEntities: true,
	}
	provider, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	req := RewriteRequest{
		Text:             "Mercy General acquired St. Luke's Clinic.",
		Style:            "paraphrase",
		RequiredEntities: []string{"Mercy General"},
	}

	_, err = provider.Rewrite(context.Background(), req)
	if err == nil {
		t.Fatal("Expected entity-loss error, got nil")
	}
	if !strings.Contains(err.Error(), "Mercy General") {
		t.Errorf("Expected error to name the dropped entity, got %v", err)
	}
}

func TestOpenAIProvider_Rewrite_UnknownStyle(t *testing.T) {
	server := openaiServer(t, "irrelevant")
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Rewrite(context.Background(), RewriteRequest{Text: "x", Style: "haiku"})
	if err == nil {
		t.Fatal("Expected error for unknown style")
	}
}

func TestOpenAIProvider_Rewrite_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "Internal Server Error", "type": "server_error"}}`))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Rewrite(context.Background(), RewriteRequest{Text: "x", Style: "paraphrase"})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestNewOpenAIProvider_MissingKey(t *testing.T) {
	_, err := NewOpenAIProvider(Config{})
	if err == nil {
		t.Fatal("Expected error for missing API key")
	}
}
