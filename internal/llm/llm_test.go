package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TommyMandex/timestomper/internal/config"
	"github.com/rs/zerolog"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.LLMConfig
		expectError bool
	}{
		{
			name: "valid config",
			cfg: config.LLMConfig{
				Ollama: config.OllamaConfig{Host: "http://localhost:11434", Model: "llama3.2"},
			},
		},
		{
			name: "empty host uses environment",
			cfg:  config.LLMConfig{},
		},
		{
			name: "invalid host",
			cfg: config.LLMConfig{
				Ollama: config.OllamaConfig{Host: "://invalid-url"},
			},
			expectError: true,
		},
		{
			name: "invalid keep alive",
			cfg: config.LLMConfig{
				Ollama: config.OllamaConfig{Host: "http://localhost:11434", KeepAlive: "forever"},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.cfg, zerolog.Nop())
			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider() error = %v", err)
			}
			if provider == nil {
				t.Fatal("NewProvider() returned nil provider")
			}
		})
	}
}

func TestAdapterChat(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Format   string `json:"format"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model":             got.Model,
			"message":           map[string]string{"role": "assistant", "content": `{"pattern": "%b %e %H:%M:%S"}`},
			"done":              true,
			"prompt_eval_count": 7,
			"eval_count":        5,
		})
	}))
	defer server.Close()

	provider, err := NewProvider(config.LLMConfig{
		Ollama: config.OllamaConfig{Host: server.URL, Model: "llama3.2"},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	resp, err := provider.Chat(context.Background(), []Message{
		{Role: "system", Content: "rules"},
		{Role: "user", Content: "samples"},
		{Role: "assistant", Content: "{"},
	}, &ChatOptions{Model: "qwen2.5", JSON: true})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if resp.Content != `{"pattern": "%b %e %H:%M:%S"}` {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Model != "qwen2.5" {
		t.Errorf("Model = %q, want qwen2.5", resp.Model)
	}
	if resp.TokensPrompt != 7 || resp.TokensTotal != 12 {
		t.Errorf("tokens = %d/%d, want 7/12", resp.TokensPrompt, resp.TokensTotal)
	}
	if got.Format != "json" {
		t.Errorf("request format = %q, want json", got.Format)
	}
	if len(got.Messages) != 3 || got.Messages[2].Role != "assistant" {
		t.Errorf("messages not passed through: %+v", got.Messages)
	}
}

func TestAdapterUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	provider, err := NewProvider(config.LLMConfig{
		Ollama: config.OllamaConfig{Host: url},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	if err := provider.Heartbeat(context.Background()); !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("Heartbeat() error = %v, want ErrProviderUnavailable", err)
	}
	if _, err := provider.ModelAvailable(context.Background(), "llama3.2"); !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("ModelAvailable() error = %v, want ErrProviderUnavailable", err)
	}
}

func TestAdapterModelAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"models": []map[string]any{{"name": "llama3.2:latest", "model": "llama3.2:latest"}},
		})
	}))
	defer server.Close()

	provider, err := NewProvider(config.LLMConfig{
		Ollama: config.OllamaConfig{Host: server.URL},
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	ok, err := provider.ModelAvailable(context.Background(), "llama3.2")
	if err != nil || !ok {
		t.Errorf("ModelAvailable(llama3.2) = %v, %v; want true", ok, err)
	}
	ok, err = provider.ModelAvailable(context.Background(), "mistral")
	if err != nil || ok {
		t.Errorf("ModelAvailable(mistral) = %v, %v; want false", ok, err)
	}
}
