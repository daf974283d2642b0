package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Claude defaults.
const (
	DefaultClaudeModel     = "claude-sonnet-4-20250514"
	DefaultClaudeMaxTokens = 256
)

// ErrNoText is returned when a Claude reply carries no text block.
var ErrNoText = errors.New("ai: no text in reply")

// ClaudeConfig configures ClaudeGenerator.
type ClaudeConfig struct {
	APIKey    string
	Model     string
	BaseURL   string // empty uses the SDK default
	MaxTokens int
}

// ClaudeGenerator calls the Anthropic Messages API. Request timeouts come from
// the caller's context; the SDK's own retries are disabled so the caller keeps
// control of the retry budget.
type ClaudeGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewClaudeGenerator builds a generator from cfg. An API key is required.
func NewClaudeGenerator(cfg ClaudeConfig) (*ClaudeGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ai: claude api key required")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultClaudeModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultClaudeMaxTokens
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &ClaudeGenerator{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: int64(maxTokens),
	}, nil
}

// PromptVersion implements Generator.
func (g *ClaudeGenerator) PromptVersion() string { return PromptVersion }

// Generate sends one Messages request and returns the first text block,
// trimmed.
func (g *ClaudeGenerator) Generate(ctx context.Context, req Request) (string, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: SystemPromptFor(req.Strict)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(
				BuildUserPrompt(req.Situation, req.Emotion, req.Energy),
			)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude messages: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", ErrNoText
}
