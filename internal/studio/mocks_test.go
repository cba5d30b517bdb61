package studio

import (
	"context"
	"sync"
)

// mockImageAPI 是 gemini.ImageAPI 的测试替身
type mockImageAPI struct {
	generateFunc  func(ctx context.Context, prompt string) (string, error)
	transformFunc func(ctx context.Context, imageB64, mimeType, prompt string) (string, error)

	mu             sync.Mutex
	generateCalls  int
	transformCalls int
	lastPrompt     string
	lastImage      string
	lastMimeType   string
}

func (m *mockImageAPI) GenerateFromText(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.generateCalls++
	m.lastPrompt = prompt
	m.mu.Unlock()

	if m.generateFunc != nil {
		return m.generateFunc(ctx, prompt)
	}
	return "generated", nil
}

func (m *mockImageAPI) TransformImage(ctx context.Context, imageB64, mimeType, prompt string) (string, error) {
	m.mu.Lock()
	m.transformCalls++
	m.lastPrompt = prompt
	m.lastImage = imageB64
	m.lastMimeType = mimeType
	m.mu.Unlock()

	if m.transformFunc != nil {
		return m.transformFunc(ctx, imageB64, mimeType, prompt)
	}
	return "transformed", nil
}

func (m *mockImageAPI) calls() (generate, transform int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generateCalls, m.transformCalls
}

// mockPublisher 是 Publisher 的测试替身
type mockPublisher struct {
	publishFunc func(ctx context.Context, result *Result) (string, error)
	calls       int
}

func (m *mockPublisher) Publish(ctx context.Context, result *Result) (string, error) {
	m.calls++
	if m.publishFunc != nil {
		return m.publishFunc(ctx, result)
	}
	return "https://bucket.example.com/" + result.FileName(), nil
}
