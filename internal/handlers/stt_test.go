package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dungeondj/dungeon-dj/internal/services"
)

func speechRouter(voice *services.MockVoiceService) *mux.Router {
	h := NewSpeechHandler(voice, slog.Default())
	r := mux.NewRouter()
	r.HandleFunc("/v1/speech-to-text", h.Transcribe).Methods(http.MethodPost)
	return r
}

func TestTranscribe(t *testing.T) {
	voice := services.NewMockVoiceService()
	voice.TranscribeFunc = func(ctx context.Context, audio []byte, mimeType string) (string, error) {
		assert.Equal(t, []byte("fake-audio"), audio)
		assert.Equal(t, "audio/webm", mimeType)
		return "I open the door.", nil
	}

	rec := postJSON(t, speechRouter(voice), "/v1/speech-to-text", TranscribeRequest{
		Audio: base64.StdEncoding.EncodeToString([]byte("fake-audio")),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TranscribeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "I open the door.", resp.Text)
}

func TestTranscribeMissingAudio(t *testing.T) {
	rec := postJSON(t, speechRouter(services.NewMockVoiceService()), "/v1/speech-to-text", TranscribeRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranscribeInvalidBase64(t *testing.T) {
	rec := postJSON(t, speechRouter(services.NewMockVoiceService()), "/v1/speech-to-text", TranscribeRequest{
		Audio: "not base64!!!",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTranscribeUpstreamFailure(t *testing.T) {
	voice := services.NewMockVoiceService()
	voice.TranscribeFunc = func(ctx context.Context, audio []byte, mimeType string) (string, error) {
		return "", fmt.Errorf("stt unavailable")
	}

	rec := postJSON(t, speechRouter(voice), "/v1/speech-to-text", TranscribeRequest{
		Audio: base64.StdEncoding.EncodeToString([]byte("fake-audio")),
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
