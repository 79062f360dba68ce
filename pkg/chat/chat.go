package chat

import "strings"

// ChatResponse is the text a language model returned for one request.
type ChatResponse struct {
	Message string `json:"message,omitempty"`
}

const (
	ChatRoleUser   = "user"      // Player
	ChatRoleAgent  = "assistant" // Narrator or NPC
	ChatRoleSystem = "system"    // Instructions
)

// ChatMessage represents a single chat message in the conversation.
// The shape matches what the chat-completion providers accept, so a
// transcript can be sent as-is.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// FormatWithSpeaker prefixes message with "speaker: " unless the message
// already opens with a short speaker tag of its own.
func FormatWithSpeaker(message, speaker string) string {
	if HasSpeakerPrefix(message) {
		return message
	}
	return speaker + ": " + message
}

// HasSpeakerPrefix reports whether message starts with a one- or two-word
// name followed by a colon.
func HasSpeakerPrefix(message string) bool {
	idx := strings.Index(message, ":")
	if idx <= 0 || idx > 20 {
		return false
	}
	words := strings.Fields(message[:idx])
	return len(words) > 0 && len(words) <= 2
}
