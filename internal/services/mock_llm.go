package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/trail1897/pkg/chat"
)

// MockLLMAPI is a mock implementation of LLMService for testing and for
// offline play. Replies are taken from Responses in order, then from
// ChatFunc, then "Mock response".
type MockLLMAPI struct {
	InitModelFunc func(ctx context.Context, modelName string) error
	ChatFunc      func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error)
	Responses     []string

	// Track calls for testing
	InitModelCalls []string
	ChatCalls      []ChatCall
	CloseCalls     int

	mu sync.Mutex // protects all fields above
}

type ChatCall struct {
	Messages []chat.ChatMessage
}

// NewMockLLMAPI creates a new mock LLM service
func NewMockLLMAPI(responses ...string) *MockLLMAPI {
	return &MockLLMAPI{
		Responses:      responses,
		InitModelCalls: make([]string, 0),
		ChatCalls:      make([]ChatCall, 0),
	}
}

// Close records the call.
func (m *MockLLMAPI) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalls++
	return nil
}

// InitModel mocks model initialization
func (m *MockLLMAPI) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)
	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

// Chat mocks response generation
func (m *MockLLMAPI) Chat(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]chat.ChatMessage, len(messages))
	copy(copied, messages)
	m.ChatCalls = append(m.ChatCalls, ChatCall{Messages: copied})

	if len(m.Responses) > 0 {
		next := m.Responses[0]
		m.Responses = m.Responses[1:]
		return &chat.ChatResponse{Message: next}, nil
	}
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages)
	}
	return &chat.ChatResponse{Message: "Mock response"}, nil
}

// Queue appends scripted replies.
func (m *MockLLMAPI) Queue(responses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses = append(m.Responses, responses...)
}

// Reset clears all call tracking and queued replies
func (m *MockLLMAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitModelCalls = make([]string, 0)
	m.ChatCalls = make([]ChatCall, 0)
	m.CloseCalls = 0
	m.Responses = nil
}

// SetInitModelError sets up the mock to return an error on InitModel
func (m *MockLLMAPI) SetInitModelError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitModelFunc = func(ctx context.Context, modelName string) error {
		return err
	}
}

// SetChatError sets up the mock to return an error on Chat once the queue
// is empty
func (m *MockLLMAPI) SetChatError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage) (*chat.ChatResponse, error) {
		return nil, err
	}
}

// GetCalls returns a copy of the call tracking data in a thread-safe way
func (m *MockLLMAPI) GetCalls() ([]string, []ChatCall) {
	m.mu.Lock()
	defer m.mu.Unlock()

	initCalls := make([]string, len(m.InitModelCalls))
	copy(initCalls, m.InitModelCalls)

	chatCalls := make([]ChatCall, len(m.ChatCalls))
	copy(chatCalls, m.ChatCalls)

	return initCalls, chatCalls
}
