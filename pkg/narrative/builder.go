package narrative

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/trail1897/pkg/chat"
)

// DefaultHistoryLimit bounds how much transcript goes into a prompt.
const DefaultHistoryLimit = 10

// Builder constructs chat messages for one narrator request using a fluent
// interface.
type Builder struct {
	system       []string
	context      []string
	history      []chat.ChatMessage
	historyLimit int
	userMessage  string
	reminder     string
}

// New creates a new prompt builder with default settings.
func New() *Builder {
	return &Builder{historyLimit: DefaultHistoryLimit}
}

// WithSystem adds a block of instructions to the system prompt.
func (b *Builder) WithSystem(instructions string) *Builder {
	if s := strings.TrimSpace(instructions); s != "" {
		b.system = append(b.system, s)
	}
	return b
}

// WithContext adds a labelled block of game context to the system prompt.
// Empty values are skipped.
func (b *Builder) WithContext(label, value string) *Builder {
	if v := strings.TrimSpace(value); v != "" {
		b.context = append(b.context, label+": "+v)
	}
	return b
}

// WithHistory sets prior transcript lines. System lines are dropped.
func (b *Builder) WithHistory(history []chat.ChatMessage) *Builder {
	b.history = history
	return b
}

// WithHistoryLimit sets the chat history window size.
func (b *Builder) WithHistoryLimit(limit int) *Builder {
	b.historyLimit = limit
	return b
}

// WithUserMessage sets the player's message.
func (b *Builder) WithUserMessage(message string) *Builder {
	b.userMessage = message
	return b
}

// WithReminder adds a short system message after the user message.
func (b *Builder) WithReminder(reminder string) *Builder {
	b.reminder = reminder
	return b
}

// Build constructs and returns the final message array.
func (b *Builder) Build() ([]chat.ChatMessage, error) {
	if len(b.system) == 0 {
		return nil, fmt.Errorf("system instructions are required")
	}
	if strings.TrimSpace(b.userMessage) == "" {
		return nil, fmt.Errorf("user message is required")
	}

	messages := make([]chat.ChatMessage, 0, len(b.history)+3)

	system := strings.Join(b.system, "\n\n")
	if len(b.context) > 0 {
		system += "\n\n" + strings.Join(b.context, "\n")
	}
	messages = append(messages, chat.ChatMessage{Role: chat.ChatRoleSystem, Content: system})

	messages = append(messages, b.windowedHistory()...)

	messages = append(messages, chat.ChatMessage{Role: chat.ChatRoleUser, Content: b.userMessage})

	if b.reminder != "" {
		messages = append(messages, chat.ChatMessage{Role: chat.ChatRoleSystem, Content: b.reminder})
	}
	return messages, nil
}

func (b *Builder) windowedHistory() []chat.ChatMessage {
	kept := make([]chat.ChatMessage, 0, len(b.history))
	for _, m := range b.history {
		if m.Role == chat.ChatRoleSystem || strings.TrimSpace(m.Content) == "" {
			continue
		}
		kept = append(kept, m)
	}
	if b.historyLimit >= 0 && len(kept) > b.historyLimit {
		kept = kept[len(kept)-b.historyLimit:]
	}
	return kept
}
