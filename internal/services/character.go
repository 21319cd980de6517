package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dungeondj/dungeon-dj/pkg/chat"
	"github.com/dungeondj/dungeon-dj/pkg/game"
	"github.com/dungeondj/dungeon-dj/pkg/prompts"
)

// CharacterService generates character sheets from player backgrounds.
type CharacterService struct {
	chat   ChatService
	logger *slog.Logger
}

func NewCharacterService(chatService ChatService, logger *slog.Logger) *CharacterService {
	return &CharacterService{
		chat:   chatService,
		logger: logger,
	}
}

// GenerateCharacterSheet produces a sheet for the player from their
// freeform background. The caller is responsible for applying the
// sheet and updating generation status.
func (s *CharacterService) GenerateCharacterSheet(ctx context.Context, g *game.Game, p *game.Player, background string) (*game.CharacterSheet, error) {
	content, err := s.chat.ChatWithSchema(ctx, []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: prompts.CharacterSystemPrompt},
		{Role: chat.ChatRoleUser, Content: prompts.CharacterUserPrompt(g, p, background)},
	}, &chat.ResponseSchema{
		Name:   "CharacterSheetResponse",
		Schema: game.SheetSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("character sheet generation failed: %w", err)
	}

	var sheet game.CharacterSheet
	if err := json.Unmarshal([]byte(content), &sheet); err != nil {
		return nil, fmt.Errorf("failed to parse character sheet response as JSON: %w", err)
	}

	// A sheet the dice engine cannot build an actor from is not
	// accepted as a result.
	if _, err := sheet.NewActor(p.ID); err != nil {
		return nil, fmt.Errorf("generated character sheet is unplayable: %w", err)
	}

	s.logger.Info("Character sheet generated",
		"room_code", g.RoomCode,
		"player", p.CharacterName,
		"ancestry", sheet.Ancestry,
		"class", sheet.CharacterClass)

	return &sheet, nil
}
