package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	elevenLabsBaseURL = "https://api.elevenlabs.io/v1"

	ttsOutputFormat  = "mp3_44100_128"
	voiceDesignModel = "eleven_multilingual_ttv_v2"
)

// ElevenLabsService implements VoiceService against the ElevenLabs
// speech APIs.
type ElevenLabsService struct {
	apiKey     string
	ttsModel   string
	sttModel   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure ElevenLabsService implements VoiceService
var _ VoiceService = (*ElevenLabsService)(nil)

func NewElevenLabsService(apiKey, ttsModel, sttModel string, logger *slog.Logger) *ElevenLabsService {
	return &ElevenLabsService{
		apiKey:   apiKey,
		ttsModel: ttsModel,
		sttModel: sttModel,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

// Synthesize converts text to speech, returning the full audio
// payload.
func (e *ElevenLabsService) Synthesize(ctx context.Context, voiceID string, text string) ([]byte, error) {
	reqBody, err := json.Marshal(map[string]string{
		"text":     text,
		"model_id": e.ttsModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s?output_format=%s", elevenLabsBaseURL, voiceID, ttsOutputFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TTS request failed with status %d: %s", resp.StatusCode, string(body))
	}

	e.logger.Debug("Speech synthesized", "voice_id", voiceID, "text_length", len(text), "audio_bytes", len(body))
	return body, nil
}

// Transcribe converts recorded audio to text via the speech-to-text
// endpoint.
func (e *ElevenLabsService) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "audio/webm"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("model_id", e.sttModel); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}

	ext := "webm"
	if parts := strings.SplitN(mimeType, "/", 2); len(parts) == 2 && parts[1] != "" {
		ext = parts[1]
	}
	part, err := writer.CreateFormFile("file", "recording."+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, elevenLabsBaseURL+"/speech-to-text", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("STT request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var sttResp struct {
		Text          string `json:"text"`
		Transcription string `json:"transcription"`
	}
	if err := json.Unmarshal(body, &sttResp); err != nil {
		return "", fmt.Errorf("failed to parse transcript: %w", err)
	}
	if sttResp.Text != "" {
		return sttResp.Text, nil
	}
	return sttResp.Transcription, nil
}

// DesignVoice generates voice previews from a description and returns
// the first preview's generated voice id.
func (e *ElevenLabsService) DesignVoice(ctx context.Context, description string, sampleText string) (string, error) {
	reqBody, err := json.Marshal(map[string]string{
		"voice_description": description,
		"text":              sampleText,
		"model_id":          voiceDesignModel,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := e.postJSON(ctx, "/text-to-voice/design", reqBody)
	if err != nil {
		return "", err
	}

	var designResp struct {
		Previews []struct {
			GeneratedVoiceID string `json:"generated_voice_id"`
		} `json:"previews"`
	}
	if err := json.Unmarshal(body, &designResp); err != nil {
		return "", fmt.Errorf("failed to parse voice design response: %w", err)
	}
	if len(designResp.Previews) == 0 {
		return "", fmt.Errorf("no voice preview generated")
	}
	return designResp.Previews[0].GeneratedVoiceID, nil
}

// CreateVoice promotes a designed preview to a durable voice.
func (e *ElevenLabsService) CreateVoice(ctx context.Context, name string, description string, previewID string) (string, error) {
	reqBody, err := json.Marshal(map[string]string{
		"voice_name":         name,
		"voice_description":  description,
		"generated_voice_id": previewID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := e.postJSON(ctx, "/text-to-voice", reqBody)
	if err != nil {
		return "", err
	}

	var createResp struct {
		VoiceID string `json:"voice_id"`
	}
	if err := json.Unmarshal(body, &createResp); err != nil {
		return "", fmt.Errorf("failed to parse voice create response: %w", err)
	}
	if createResp.VoiceID == "" {
		return "", fmt.Errorf("no voice id in create response")
	}

	e.logger.Info("Narrator voice created", "voice_id", createResp.VoiceID)
	return createResp.VoiceID, nil
}

func (e *ElevenLabsService) postJSON(ctx context.Context, path string, reqBody []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, elevenLabsBaseURL+path, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
