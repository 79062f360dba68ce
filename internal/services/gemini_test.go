package services

import (
	"testing"

	"github.com/google/generative-ai-go/genai"

	"github.com/jwebster45206/trail1897/pkg/chat"
)

func TestToGeminiContents(t *testing.T) {
	system, history, last, err := toGeminiContents([]chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: "Narrate."},
		{Role: chat.ChatRoleUser, Content: "look"},
		{Role: chat.ChatRoleAgent, Content: "Hemlocks."},
		{Role: chat.ChatRoleUser, Content: "walk north"},
	})
	if err != nil {
		t.Fatalf("toGeminiContents: %v", err)
	}
	if system != "Narrate." {
		t.Errorf("system = %q", system)
	}
	if last != "walk north" {
		t.Errorf("last = %q", last)
	}
	if len(history) != 2 || history[0].Role != "user" || history[1].Role != "model" {
		t.Errorf("unexpected history %+v", history)
	}
	if text, ok := history[1].Parts[0].(genai.Text); !ok || string(text) != "Hemlocks." {
		t.Errorf("unexpected part %#v", history[1].Parts[0])
	}
}

func TestToGeminiContents_Errors(t *testing.T) {
	if _, _, _, err := toGeminiContents([]chat.ChatMessage{{Role: chat.ChatRoleSystem, Content: "x"}}); err == nil {
		t.Error("expected error without conversation messages")
	}
	if _, _, _, err := toGeminiContents([]chat.ChatMessage{{Role: chat.ChatRoleAgent, Content: "x"}}); err == nil {
		t.Error("expected error when the last message is not from the user")
	}
}

func TestGeminiText(t *testing.T) {
	if got := geminiText(nil); got != "" {
		t.Errorf("geminiText(nil) = %q", got)
	}
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Rain "), genai.Text("falls.")}},
		}},
	}
	if got := geminiText(resp); got != "Rain falls." {
		t.Errorf("geminiText = %q", got)
	}
}
