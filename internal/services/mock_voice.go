package services

import (
	"context"
	"sync"
)

// MockVoiceService is a mock implementation of VoiceService for
// testing
type MockVoiceService struct {
	SynthesizeFunc  func(ctx context.Context, voiceID, text string) ([]byte, error)
	TranscribeFunc  func(ctx context.Context, audio []byte, mimeType string) (string, error)
	DesignVoiceFunc func(ctx context.Context, description, sampleText string) (string, error)
	CreateVoiceFunc func(ctx context.Context, name, description, previewID string) (string, error)

	SynthesizeCalls []string // synthesized texts
	TranscribeCalls int
	DesignCalls     int
	CreateCalls     int

	mu sync.Mutex
}

// Ensure MockVoiceService implements VoiceService
var _ VoiceService = (*MockVoiceService)(nil)

func NewMockVoiceService() *MockVoiceService {
	return &MockVoiceService{}
}

func (m *MockVoiceService) Synthesize(ctx context.Context, voiceID string, text string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SynthesizeCalls = append(m.SynthesizeCalls, text)

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, voiceID, text)
	}
	return []byte("mock-audio:" + text), nil
}

func (m *MockVoiceService) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TranscribeCalls++

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audio, mimeType)
	}
	return "mock transcript", nil
}

func (m *MockVoiceService) DesignVoice(ctx context.Context, description string, sampleText string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DesignCalls++

	if m.DesignVoiceFunc != nil {
		return m.DesignVoiceFunc(ctx, description, sampleText)
	}
	return "mock-preview-id", nil
}

func (m *MockVoiceService) CreateVoice(ctx context.Context, name string, description string, previewID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++

	if m.CreateVoiceFunc != nil {
		return m.CreateVoiceFunc(ctx, name, description, previewID)
	}
	return "mock-voice-id", nil
}

// SynthesizedTexts returns a copy of the synthesized texts.
func (m *MockVoiceService) SynthesizedTexts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.SynthesizeCalls))
	copy(out, m.SynthesizeCalls)
	return out
}
