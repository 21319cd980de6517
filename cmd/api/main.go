package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/dungeondj/dungeon-dj/internal/config"
	"github.com/dungeondj/dungeon-dj/internal/facilitator"
	"github.com/dungeondj/dungeon-dj/internal/handlers"
	"github.com/dungeondj/dungeon-dj/internal/logger"
	"github.com/dungeondj/dungeon-dj/internal/middleware"
	"github.com/dungeondj/dungeon-dj/internal/services"
	"github.com/dungeondj/dungeon-dj/internal/store"
	"github.com/dungeondj/dungeon-dj/pkg/textfilter"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting Dungeon DJ API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"model", cfg.OpenAIModel,
		"character_model", cfg.OpenAICharacterModel)

	if cfg.OpenAIAPIKey == "" {
		log.Error("OPENAI_API_KEY is required")
		os.Exit(1)
	}
	if cfg.ElevenLabsAPIKey == "" {
		log.Error("ELEVENLABS_API_KEY is required")
		os.Exit(1)
	}

	chatService := services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel, log)
	characterChat := services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAICharacterModel, log)
	voiceService := services.NewElevenLabsService(cfg.ElevenLabsAPIKey, cfg.TTSModel, cfg.STTModel, log)

	persister := store.NewRedisPersister(cfg.RedisURL, log)
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer startupCancel()
	if err := persister.WaitForConnection(startupCtx); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	sessionStore := store.NewSessionStore(persister, log)

	var filter *textfilter.NarrationFilter
	if cfg.FilterNarration() {
		filter = textfilter.NewNarrationFilter()
		log.Info("Narration filtering enabled", "content_rating", cfg.ContentRating)
	}

	sceneService := services.NewSceneService(chatService, voiceService, log)
	characterService := services.NewCharacterService(characterChat, log)
	agent := facilitator.NewAgent(chatService, voiceService, sessionStore, filter, log)

	gamesHandler := handlers.NewGamesHandler(sessionStore, sceneService, log)
	charactersHandler := handlers.NewCharactersHandler(sessionStore, characterService, log)
	narrationHandler := handlers.NewNarrationHandler(agent, log)
	speechHandler := handlers.NewSpeechHandler(voiceService, log)
	healthHandler := handlers.NewHealthHandler(sessionStore, log)

	r := mux.NewRouter()
	r.Handle("/health", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/v1/games", gamesHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/v1/games/join", gamesHandler.Join).Methods(http.MethodPost)
	r.HandleFunc("/v1/games/ready", gamesHandler.Ready).Methods(http.MethodPost)
	r.HandleFunc("/v1/games/{roomCode}", gamesHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/v1/games/{roomCode}/scene", gamesHandler.Scene).Methods(http.MethodPost)
	r.HandleFunc("/v1/characters/generate", charactersHandler.Generate).Methods(http.MethodPost)
	r.HandleFunc("/v1/narration", narrationHandler.Narrate).Methods(http.MethodPost)
	r.HandleFunc("/v1/speech-to-text", speechHandler.Transcribe).Methods(http.MethodPost)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: middleware.Logger(r),
		// Generation endpoints hold the connection while the model
		// works, so write timeouts stay generous.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := sessionStore.Close(); err != nil {
		log.Error("Error closing store", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
