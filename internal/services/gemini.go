package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jwebster45206/trail1897/pkg/chat"
)

const DefaultGeminiTemperature = 0.7

// GeminiService implements LLMService on the Google Gemini SDK.
type GeminiService struct {
	client    *genai.Client
	modelName string
	logger    *slog.Logger
}

func NewGeminiService(ctx context.Context, apiKey string, modelName string, logger *slog.Logger) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiService{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}, nil
}

func (g *GeminiService) InitModel(ctx context.Context, modelName string) error {
	return nil
}

func (g *GeminiService) Close() error {
	return g.client.Close()
}

func (g *GeminiService) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	systemPrompt, history, last, err := toGeminiContents(messages)
	if err != nil {
		return nil, err
	}

	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(DefaultGeminiTemperature)
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	}

	cs := model.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, genai.Text(last))
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	text := geminiText(resp)
	if text == "" {
		g.logger.Warn("Gemini returned no text", "model", g.modelName)
	}
	return &chat.ChatResponse{Message: text}, nil
}

// toGeminiContents splits a transcript into a system instruction, prior
// turns and the final user message. Gemini calls the assistant "model".
func toGeminiContents(messages []chat.ChatMessage) (string, []*genai.Content, string, error) {
	systemPrompt, rest := splitChatMessages(messages)
	if len(rest) == 0 {
		return "", nil, "", fmt.Errorf("no messages provided")
	}

	last := rest[len(rest)-1]
	if last.Role != chat.ChatRoleUser {
		return "", nil, "", fmt.Errorf("last message must come from the user, got %q", last.Role)
	}

	history := make([]*genai.Content, 0, len(rest)-1)
	for _, msg := range rest[:len(rest)-1] {
		role := "user"
		if msg.Role == chat.ChatRoleAgent {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return systemPrompt, history, last.Content, nil
}

func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
