package provider

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is a deterministic provider for tests and dry runs.
// Unknown texts come back bracketed, placeholders intact.
type MockProvider struct {
	Translations map[string]string // Map of source text to translation

	mu          sync.Mutex
	callCount   int
	lastRequest *TranslateRequest
}

// NewMockProvider creates a mock provider with a few French UI strings.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Hello":           "Bonjour",
			"Save":            "Enregistrer",
			"Cancel":          "Annuler",
			"Welcome, {name}": "Bienvenue, {name}",
		},
	}
}

// Translate returns mock translations.
func (m *MockProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.lastRequest = &req

	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		if translation, ok := m.Translations[text]; ok {
			results[i] = translation
		} else {
			results[i] = fmt.Sprintf("[%s]", text)
		}
	}

	return results, nil
}

// CallCount returns the number of Translate calls.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastRequest returns the most recent request, or nil.
func (m *MockProvider) LastRequest() *TranslateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// Reset resets the call count and last request.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastRequest = nil
}

// Verify MockProvider implements AIProvider
var _ AIProvider = (*MockProvider)(nil)
