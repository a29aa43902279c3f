package llm

import (
	"context"
	"errors"

	"github.com/TommyMandex/timestomper/internal/config"
	"github.com/TommyMandex/timestomper/internal/llm/ollama"
	"github.com/rs/zerolog"
)

// Provider defines the interface for LLM interactions.
type Provider interface {
	// Chat sends messages and returns the complete response.
	Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error)

	// Heartbeat returns nil when the provider is reachable.
	Heartbeat(ctx context.Context) error

	// ModelAvailable reports whether model can be used without pulling it
	// first.
	ModelAvailable(ctx context.Context, model string) (bool, error)
}

// Message is a single turn of a conversation.
type Message struct {
	// Role is "system", "user" or "assistant".
	Role    string
	Content string
}

// ChatOptions configures a request. A nil *ChatOptions uses provider
// defaults.
type ChatOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int

	// JSON asks the model to reply with a single JSON value.
	JSON bool
}

// Response is a complete reply.
type Response struct {
	Content      string
	Model        string
	TokensPrompt int
	TokensTotal  int
}

var (
	ErrProviderUnavailable = ollama.ErrProviderUnavailable
	ErrModelNotFound       = errors.New("requested model is not available")
	ErrInvalidResponse     = errors.New("provider returned invalid response")
)

// NewProvider creates the provider described by cfg.
func NewProvider(cfg config.LLMConfig, logger zerolog.Logger) (Provider, error) {
	p, err := ollama.New(ollama.Config{
		Host:      cfg.Ollama.Host,
		Model:     cfg.Ollama.Model,
		KeepAlive: cfg.Ollama.KeepAlive,
		NumCtx:    cfg.Ollama.NumCtx,
	}, logger.With().Str("provider", "ollama").Logger())
	if err != nil {
		return nil, err
	}
	return &ollamaAdapter{provider: p}, nil
}

// ollamaAdapter bridges ollama.Provider, which cannot import this package.
type ollamaAdapter struct {
	provider *ollama.Provider
}

func (a *ollamaAdapter) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	msgs := make([]ollama.Message, len(messages))
	for i, m := range messages {
		msgs[i] = ollama.Message{Role: m.Role, Content: m.Content}
	}

	var o *ollama.ChatOptions
	if opts != nil {
		o = &ollama.ChatOptions{
			Model:       opts.Model,
			Temperature: opts.Temperature,
			MaxTokens:   opts.MaxTokens,
			JSON:        opts.JSON,
		}
	}

	resp, err := a.provider.Chat(ctx, msgs, o)
	if err != nil {
		return nil, err
	}
	return &Response{
		Content:      resp.Content,
		Model:        resp.Model,
		TokensPrompt: resp.TokensPrompt,
		TokensTotal:  resp.TokensTotal,
	}, nil
}

func (a *ollamaAdapter) Heartbeat(ctx context.Context) error {
	return a.provider.Heartbeat(ctx)
}

func (a *ollamaAdapter) ModelAvailable(ctx context.Context, model string) (bool, error) {
	return a.provider.ModelAvailable(ctx, model)
}
