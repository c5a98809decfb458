package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func ollamaServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}

		resp := ollamaResponse{
			Model:           "qwen2.5:3b",
			Response:        content,
			Done:            true,
			PromptEvalCount: 40,
			EvalCount:       20,
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOllamaProvider_Rewrite_Success(t *testing.T) {
	server := ollamaServer(t, "Mercy General took over St. Luke's Clinic.")
	defer server.Close()

	config := Config{
		BaseURL:        server.URL,
		Model:          "qwen2.5:3b",
		Timeout:        5,
		StrictEntities: true,
	}
	provider, err := NewOllamaProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	req := RewriteRequest{
		Text:             "Mercy General acquired St. Luke's Clinic.",
		Style:            "informal",
		RequiredEntities: []string{"Mercy General", "St. Luke's Clinic"},
	}

	resp, err := provider.Rewrite(context.Background(), req)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}

	if resp.Text != "Mercy General took over St. Luke's Clinic." {
		t.Errorf("Unexpected text: %s", resp.Text)
	}
	if resp.TokensUsed != 60 {
		t.Errorf("Unexpected token usage: %d", resp.TokensUsed)
	}
}

func TestOllamaProvider_Rewrite_MissingModel(t *testing.T) {
	server := ollamaServer(t, "irrelevant")
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Rewrite(context.Background(), RewriteRequest{Text: "x", Style: "noise"})
	if err == nil {
		t.Fatal("Expected error for missing model name")
	}
}

func TestOllamaProvider_Rewrite_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": "model not found"}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Model: "qwen2.5:3b", Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Rewrite(context.Background(), RewriteRequest{Text: "x", Style: "noise"})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected provider to be available")
	}
}
