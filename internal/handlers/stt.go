package handlers

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dungeondj/dungeon-dj/internal/services"
)

// SpeechHandler serves speech-to-text transcription.
type SpeechHandler struct {
	voice  services.VoiceService
	logger *slog.Logger
}

func NewSpeechHandler(voice services.VoiceService, logger *slog.Logger) *SpeechHandler {
	return &SpeechHandler{
		voice:  voice,
		logger: logger,
	}
}

type TranscribeRequest struct {
	Audio    string `json:"audio"` // base64
	MimeType string `json:"mime_type,omitempty"`
}

type TranscribeResponse struct {
	Text string `json:"text"`
}

// Transcribe handles POST /v1/speech-to-text.
func (h *SpeechHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	var req TranscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.Audio == "" {
		writeError(w, h.logger, http.StatusBadRequest, "audio is required")
		return
	}

	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "audio must be base64-encoded")
		return
	}
	if req.MimeType == "" {
		req.MimeType = "audio/webm"
	}

	text, err := h.voice.Transcribe(r.Context(), audio, req.MimeType)
	if err != nil {
		h.logger.Error("Transcription failed", "error", err)
		writeError(w, h.logger, http.StatusBadGateway, "Transcription failed")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, TranscribeResponse{Text: text})
}
