package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jwebster45206/trail1897/pkg/chat"
)

func TestOpenAIService_Chat(t *testing.T) {
	var got OpenAIChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"A creek runs cold."}}]}`))
	}))
	defer server.Close()

	service := NewOpenAIService("sk-test", "gpt-test", discardLogger()).WithBaseURL(server.URL)
	resp, err := service.Chat(context.Background(), []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: "Narrate."},
		{Role: chat.ChatRoleUser, Content: "drink"},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Message != "A creek runs cold." {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if len(got.Messages) != 2 || got.Model != "gpt-test" {
		t.Errorf("system messages should be sent inline, got %+v", got)
	}
}

func TestOpenAIService_ChatErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusInternalServerError, `oops`},
		{"api error", http.StatusOK, `{"error":{"message":"bad model"}}`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"refusal", http.StatusOK, `{"choices":[{"message":{"refusal":"no"}}]}`},
		{"bad json", http.StatusOK, `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			service := NewOpenAIService("k", "m", discardLogger()).WithBaseURL(server.URL)
			if _, err := service.Chat(context.Background(), []chat.ChatMessage{{Role: chat.ChatRoleUser, Content: "hi"}}); err == nil {
				t.Error("expected error")
			}
		})
	}

	service := NewOpenAIService("k", "m", discardLogger())
	if _, err := service.Chat(context.Background(), nil); err == nil {
		t.Error("expected error for empty messages")
	}
}
