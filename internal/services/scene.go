package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/dungeondj/dungeon-dj/pkg/chat"
	"github.com/dungeondj/dungeon-dj/pkg/game"
	"github.com/dungeondj/dungeon-dj/pkg/prompts"
	"github.com/dungeondj/dungeon-dj/pkg/room"
)

const (
	narratorVoiceName = "DnD Legend Narrator"

	// The voice design endpoint rejects descriptions past this length.
	maxVoiceDescriptionLen = 900
)

// GeneratedScene is the complete output of world generation: the
// narrative, the room plan with grids attached, and the narrator
// voice id.
type GeneratedScene struct {
	Story           string
	Plan            *room.Plan
	NarratorVoiceID string
}

// SceneService orchestrates world generation: one story call, then a
// parallel pair of room-plan and narrator-voice pipelines.
type SceneService struct {
	chat   ChatService
	voice  VoiceService
	logger *slog.Logger
}

func NewSceneService(chatService ChatService, voiceService VoiceService, logger *slog.Logger) *SceneService {
	return &SceneService{
		chat:   chatService,
		voice:  voiceService,
		logger: logger,
	}
}

// SetTheGameScene generates everything a game needs before narration
// can begin. Any failure is fatal for the call; the caller decides
// how to mark the game.
func (s *SceneService) SetTheGameScene(ctx context.Context, g *game.Game) (*GeneratedScene, error) {
	story, err := s.generateStory(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("story generation failed: %w", err)
	}

	var plan *room.Plan
	var voiceID string

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		p, err := s.generateRoomPlan(egCtx, story)
		if err != nil {
			return err
		}
		plan = p
		return nil
	})
	eg.Go(func() error {
		id, err := s.generateNarratorVoice(egCtx, story, g.WorldData.FacilitatorPersona)
		if err != nil {
			return err
		}
		voiceID = id
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if err := plan.AttachGrids(); err != nil {
		return nil, fmt.Errorf("grid generation failed: %w", err)
	}

	s.logger.Info("Game scene generated",
		"room_code", g.RoomCode,
		"rooms", len(plan.Rooms),
		"story_length", len(story))

	return &GeneratedScene{
		Story:           story,
		Plan:            plan,
		NarratorVoiceID: voiceID,
	}, nil
}

func (s *SceneService) generateStory(ctx context.Context, g *game.Game) (string, error) {
	return s.chat.Chat(ctx, []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: prompts.StorySystemPrompt},
		{Role: chat.ChatRoleUser, Content: prompts.StoryUserPrompt(g.WorldData)},
	})
}

func (s *SceneService) generateRoomPlan(ctx context.Context, story string) (*room.Plan, error) {
	content, err := s.chat.ChatWithSchema(ctx, []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: prompts.MapSystemPrompt},
		{Role: chat.ChatRoleUser, Content: prompts.MapUserPrompt(story)},
	}, &chat.ResponseSchema{
		Name:   "RoomsPlanResponse",
		Schema: room.PlanSchema(),
	})
	if err != nil {
		return nil, err
	}

	var plan room.Plan
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse room plan response as JSON: %w", err)
	}
	if len(plan.Rooms) == 0 {
		return nil, fmt.Errorf("room plan response contains no rooms")
	}
	return &plan, nil
}

// generateNarratorVoice produces a voice description from the story,
// then runs the two-step design/create flow against the voice
// endpoint.
func (s *SceneService) generateNarratorVoice(ctx context.Context, story, facilitatorPersona string) (string, error) {
	description, err := s.chat.Chat(ctx, []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: prompts.VoiceSystemPrompt},
		{Role: chat.ChatRoleUser, Content: prompts.VoiceUserPrompt(story, facilitatorPersona)},
	})
	if err != nil {
		return "", fmt.Errorf("voice description generation failed: %w", err)
	}
	if len(description) > maxVoiceDescriptionLen {
		cut := maxVoiceDescriptionLen
		for cut > 0 && !utf8.RuneStart(description[cut]) {
			cut--
		}
		description = description[:cut]
	}

	sampleText := facilitatorPersona
	if sampleText == "" {
		sampleText = story
	}
	previewID, err := s.voice.DesignVoice(ctx, description, sampleText)
	if err != nil {
		return "", fmt.Errorf("voice design failed: %w", err)
	}

	voiceID, err := s.voice.CreateVoice(ctx, narratorVoiceName, description, previewID)
	if err != nil {
		return "", fmt.Errorf("voice creation failed: %w", err)
	}
	return voiceID, nil
}
