package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/trail1897/internal/config"
	"github.com/jwebster45206/trail1897/pkg/chat"
)

// LLMService defines the interface for interacting with a language model.
type LLMService interface {
	// InitModel prepares the model on startup.
	InitModel(ctx context.Context, modelName string) error

	// Chat sends a conversation and returns the model's reply.
	Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)

	// Close releases the client's connections.
	Close() error
}

// NewLLMService builds the provider selected in cfg.
func NewLLMService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (LLMService, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return NewOpenAIService(cfg.OpenAIAPIKey, cfg.ModelName, logger), nil
	case config.ProviderAnthropic:
		return NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, logger), nil
	case config.ProviderOllama:
		return NewOllamaService(cfg.OllamaURL, cfg.ModelName, logger), nil
	case config.ProviderGemini:
		return NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.ModelName, logger)
	case config.ProviderMock:
		return NewMockLLMAPI(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

// splitChatMessages extracts and combines all system messages into a single
// system prompt and returns the remaining non-system messages.
func splitChatMessages(messages []chat.ChatMessage) (string, []chat.ChatMessage) {
	var systemParts []string
	var nonSystemMessages []chat.ChatMessage

	for _, msg := range messages {
		if msg.Role == chat.ChatRoleSystem {
			systemParts = append(systemParts, msg.Content)
		} else {
			nonSystemMessages = append(nonSystemMessages, msg)
		}
	}

	return strings.Join(systemParts, "\n\n"), nonSystemMessages
}
