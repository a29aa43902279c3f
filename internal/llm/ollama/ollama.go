// Package ollama implements the llm.Provider interface on top of a local
// Ollama server.
//
// To avoid an import cycle with the parent package, this package declares
// its own message and response types; llm adapts them.
package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/rs/zerolog"
)

// DefaultModel is used when the configuration names none.
const DefaultModel = "llama3.2"

// Provider talks to one Ollama server.
type Provider struct {
	client    *api.Client
	config    Config
	keepAlive *api.Duration
	logger    zerolog.Logger
}

// Config holds Ollama-specific configuration.
type Config struct {
	// Host is the API endpoint, e.g. "http://localhost:11434". Empty means
	// OLLAMA_HOST or the library default.
	Host string

	// Model is the default model name.
	Model string

	// KeepAlive is how long the server keeps the model loaded, e.g. "5m".
	KeepAlive string

	// NumCtx overrides the model's context window when positive.
	NumCtx int
}

// Message is a single turn of a conversation.
type Message struct {
	Role    string
	Content string
}

// ChatOptions configures a single request.
type ChatOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int
	JSON        bool
}

// Response is a complete reply.
type Response struct {
	Content      string
	Model        string
	TokensPrompt int
	TokensTotal  int
}

var (
	ErrProviderUnavailable = errors.New("llm provider is not reachable")
	ErrContextCanceled     = errors.New("operation was canceled")
)

// New creates a provider. The configuration is checked but the server is
// not contacted.
func New(cfg Config, logger zerolog.Logger) (*Provider, error) {
	client, err := api.ClientFromEnvironment()
	if err != nil {
		logger.Error().Err(err).Msg("failed to create ollama client from environment")
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	if cfg.Host != "" {
		parsed, err := url.Parse(cfg.Host)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama host: %w", err)
		}
		client = api.NewClient(parsed, http.DefaultClient)
		logger.Debug().Str("host", cfg.Host).Msg("created ollama client with explicit host")
	} else {
		logger.Debug().Msg("created ollama client from environment")
	}

	var keepAlive *api.Duration
	if cfg.KeepAlive != "" {
		d, err := time.ParseDuration(cfg.KeepAlive)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama keep_alive: %w", err)
		}
		keepAlive = &api.Duration{Duration: d}
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
		logger.Debug().Str("model", cfg.Model).Msg("using default model")
	}

	return &Provider{
		client:    client,
		config:    cfg,
		keepAlive: keepAlive,
		logger:    logger,
	}, nil
}

// Model returns the default model name.
func (p *Provider) Model() string {
	return p.config.Model
}

// Chat sends messages and waits for the complete reply.
func (p *Provider) Chat(ctx context.Context, messages []Message, opts *ChatOptions) (*Response, error) {
	if len(messages) == 0 {
		return nil, errors.New("messages cannot be empty")
	}

	model := p.config.Model
	var o ChatOptions
	if opts != nil {
		o = *opts
		if o.Model != "" {
			model = o.Model
		}
	}

	msgs := make([]api.Message, len(messages))
	for i, m := range messages {
		msgs[i] = api.Message{Role: m.Role, Content: m.Content}
	}

	req := &api.ChatRequest{
		Model:     model,
		Messages:  msgs,
		KeepAlive: p.keepAlive,
		Options: map[string]any{
			"temperature": o.Temperature,
		},
		Stream: new(bool),
	}
	if p.config.NumCtx > 0 {
		req.Options["num_ctx"] = p.config.NumCtx
	}
	if o.MaxTokens > 0 {
		req.Options["num_predict"] = o.MaxTokens
	}
	if o.JSON {
		req.Format = json.RawMessage(`"json"`)
	}

	p.logger.Debug().
		Str("model", model).
		Int("messages", len(messages)).
		Float32("temperature", o.Temperature).
		Msg("sending chat request")

	var resp api.ChatResponse
	err := p.client.Chat(ctx, req, func(r api.ChatResponse) error {
		resp = r
		return nil
	})
	if err != nil {
		p.logger.Error().Err(err).Str("model", model).Msg("chat request failed")
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %v", ErrContextCanceled, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	p.logger.Debug().
		Str("model", resp.Model).
		Int("prompt_tokens", resp.PromptEvalCount).
		Int("eval_tokens", resp.EvalCount).
		Msg("chat request completed")

	return &Response{
		Content:      resp.Message.Content,
		Model:        resp.Model,
		TokensPrompt: resp.PromptEvalCount,
		TokensTotal:  resp.PromptEvalCount + resp.EvalCount,
	}, nil
}

// Heartbeat checks that the server is reachable.
func (p *Provider) Heartbeat(ctx context.Context) error {
	if err := p.client.Heartbeat(ctx); err != nil {
		p.logger.Error().Err(err).Msg("ollama heartbeat failed")
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return nil
}

// ModelAvailable reports whether model has been pulled.
func (p *Provider) ModelAvailable(ctx context.Context, model string) (bool, error) {
	list, err := p.client.List(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	// an untagged name refers to the latest tag
	tagged := model
	if !strings.Contains(model, ":") {
		tagged = model + ":latest"
	}

	for _, m := range list.Models {
		if m.Name == model || m.Model == model || m.Name == tagged || m.Model == tagged {
			return true, nil
		}
	}

	p.logger.Debug().Str("model", model).Int("available", len(list.Models)).Msg("model not found")
	return false, nil
}
