package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dungeondj/dungeon-dj/pkg/chat"
	"github.com/dungeondj/dungeon-dj/pkg/game"
)

const testRoomPlanJSON = `{
	"rooms": [
		{
			"npc": {"npc_name": "Skeleton Archivist", "disposition": "neutral", "damage": 2},
			"room_description": "A dusty archive lit by floating candles.",
			"equipments": ["Rusty Key", "Torch"]
		},
		{
			"npc": {"npc_name": "Gloom Warden", "disposition": "bad", "damage": 4},
			"room_description": "A flooded cellar with a cracked altar.",
			"equipments": ["Silver Dagger"]
		}
	]
}`

func testGame() *game.Game {
	return &game.Game{
		RoomCode: "ABC234",
		Status:   game.StatusGenerating,
		WorldData: game.WorldData{
			Genre:              "dark fantasy",
			TeamBackground:     "Grave robbers with a conscience",
			StoryGoal:          "Recover the stolen bell",
			FacilitatorPersona: "A weary dwarven chronicler",
		},
	}
}

func TestSetTheGameScene(t *testing.T) {
	chatSvc := NewMockChatService()
	chatSvc.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		if strings.Contains(messages[0].Content, "voice") || strings.Contains(messages[0].Content, "Voice") {
			return "A gravelly, deliberate narrator voice.", nil
		}
		return "### INTRODUCTION\nThe bell has been silent for a year.\n---\nThe rest of the story.", nil
	}
	chatSvc.ChatWithSchemaFunc = func(ctx context.Context, messages []chat.ChatMessage, schema *chat.ResponseSchema) (string, error) {
		assert.Equal(t, "RoomsPlanResponse", schema.Name)
		return testRoomPlanJSON, nil
	}
	voiceSvc := NewMockVoiceService()

	svc := NewSceneService(chatSvc, voiceSvc, slog.Default())
	scene, err := svc.SetTheGameScene(context.Background(), testGame())
	require.NoError(t, err)

	assert.Contains(t, scene.Story, "### INTRODUCTION")
	assert.Equal(t, "mock-voice-id", scene.NarratorVoiceID)
	require.Len(t, scene.Plan.Rooms, 2)
	assert.Equal(t, 1, voiceSvc.DesignCalls)
	assert.Equal(t, 1, voiceSvc.CreateCalls)

	// Grids must be attached to every room before the scene is returned.
	for i, r := range scene.Plan.Rooms {
		require.NotNil(t, r.Grid, "room %d has no grid", i)
		assert.Len(t, r.Grid.EquipmentPositions, len(r.Equipment))
	}
}

func TestSetTheGameSceneStoryFailure(t *testing.T) {
	chatSvc := NewMockChatService()
	chatSvc.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return "", fmt.Errorf("model overloaded")
	}
	voiceSvc := NewMockVoiceService()

	svc := NewSceneService(chatSvc, voiceSvc, slog.Default())
	_, err := svc.SetTheGameScene(context.Background(), testGame())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "story generation failed")

	// Nothing downstream runs when the story call fails.
	_, schemaCalls, _ := chatSvc.CallCounts()
	assert.Zero(t, schemaCalls)
	assert.Zero(t, voiceSvc.DesignCalls)
}

func TestSetTheGameSceneBadRoomPlanJSON(t *testing.T) {
	chatSvc := NewMockChatService()
	chatSvc.ChatWithSchemaFunc = func(ctx context.Context, messages []chat.ChatMessage, schema *chat.ResponseSchema) (string, error) {
		return "not json at all", nil
	}

	svc := NewSceneService(chatSvc, NewMockVoiceService(), slog.Default())
	_, err := svc.SetTheGameScene(context.Background(), testGame())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse room plan response")
}

func TestSetTheGameSceneEmptyRoomPlan(t *testing.T) {
	chatSvc := NewMockChatService()
	chatSvc.ChatWithSchemaFunc = func(ctx context.Context, messages []chat.ChatMessage, schema *chat.ResponseSchema) (string, error) {
		return `{"rooms": []}`, nil
	}

	svc := NewSceneService(chatSvc, NewMockVoiceService(), slog.Default())
	_, err := svc.SetTheGameScene(context.Background(), testGame())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rooms")
}

func TestSetTheGameSceneTruncatesVoiceDescription(t *testing.T) {
	// A description over the limit is cut on a rune boundary, never
	// mid-character.
	long := "a" + strings.Repeat("é", 600) // 1201 bytes, byte 900 falls mid-rune

	chatSvc := NewMockChatService()
	chatSvc.ChatFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		if strings.Contains(messages[0].Content, "voice") || strings.Contains(messages[0].Content, "Voice") {
			return long, nil
		}
		return "The story.", nil
	}
	chatSvc.ChatWithSchemaFunc = func(ctx context.Context, messages []chat.ChatMessage, schema *chat.ResponseSchema) (string, error) {
		return testRoomPlanJSON, nil
	}

	voiceSvc := NewMockVoiceService()
	var designDescription string
	voiceSvc.DesignVoiceFunc = func(ctx context.Context, description, sampleText string) (string, error) {
		designDescription = description
		return "mock-preview-id", nil
	}

	svc := NewSceneService(chatSvc, voiceSvc, slog.Default())
	_, err := svc.SetTheGameScene(context.Background(), testGame())
	require.NoError(t, err)

	assert.LessOrEqual(t, len(designDescription), 900)
	assert.True(t, utf8.ValidString(designDescription))
	assert.True(t, strings.HasSuffix(designDescription, "é"))
}

func TestSetTheGameSceneVoiceDesignFailure(t *testing.T) {
	chatSvc := NewMockChatService()
	chatSvc.ChatWithSchemaFunc = func(ctx context.Context, messages []chat.ChatMessage, schema *chat.ResponseSchema) (string, error) {
		return testRoomPlanJSON, nil
	}
	voiceSvc := NewMockVoiceService()
	voiceSvc.DesignVoiceFunc = func(ctx context.Context, description, sampleText string) (string, error) {
		return "", fmt.Errorf("no voice preview generated")
	}

	svc := NewSceneService(chatSvc, voiceSvc, slog.Default())
	_, err := svc.SetTheGameScene(context.Background(), testGame())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "voice design failed")
	assert.Zero(t, voiceSvc.CreateCalls)
}
