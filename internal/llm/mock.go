package llm

import (
	"context"
	"sync"
)

// MockProvider is a test double that returns canned responses and records prompts.
type MockProvider struct {
	Response string
	Err      error

	mu       sync.Mutex
	prompts  []string
	settings []Settings
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Generate(_ context.Context, prompt string, s Settings) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.settings = append(m.settings, s)
	m.mu.Unlock()
	return m.Response, m.Err
}

// Calls returns how many times Generate was invoked.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// LastPrompt returns the most recent prompt, or "" if none.
func (m *MockProvider) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// LastSettings returns the most recent settings.
func (m *MockProvider) LastSettings() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.settings) == 0 {
		return Settings{}
	}
	return m.settings[len(m.settings)-1]
}
