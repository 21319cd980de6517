package facilitator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dungeondj/dungeon-dj/internal/services"
	"github.com/dungeondj/dungeon-dj/internal/store"
	"github.com/dungeondj/dungeon-dj/pkg/chat"
	"github.com/dungeondj/dungeon-dj/pkg/game"
	"github.com/dungeondj/dungeon-dj/pkg/room"
)

type agentFixture struct {
	agent *Agent
	chat  *services.MockChatService
	voice *services.MockVoiceService
	store *store.MockStore
}

func newAgentFixture(t *testing.T) *agentFixture {
	t.Helper()
	chatSvc := services.NewMockChatService()
	voiceSvc := services.NewMockVoiceService()
	st := store.NewMockStore()
	return &agentFixture{
		agent: NewAgent(chatSvc, voiceSvc, st, nil, slog.Default()),
		chat:  chatSvc,
		voice: voiceSvc,
		store: st,
	}
}

// narrationGame builds a two-room game ready for narration, with
// grids attached and both players placed.
func narrationGame(t *testing.T, withState bool) *game.Game {
	t.Helper()

	plan := &room.Plan{Rooms: []room.Room{
		{
			NPC:         room.NPC{Name: "Skeleton Archivist", Disposition: "neutral", Damage: 2},
			Description: "A dusty archive.",
			Equipment:   []string{"Torch", "Rope"},
		},
		{
			NPC:         room.NPC{Name: "Gloom Warden", Disposition: "bad", Damage: 4},
			Description: "A flooded cellar.",
			Equipment:   []string{"Silver Dagger"},
		},
	}}
	require.NoError(t, plan.AttachGrids())
	for i := range plan.Rooms {
		plan.Rooms[i].Grid = plan.Rooms[i].Grid.InitializePlayerPositions(
			[]string{"Anna", "Brom"}, slog.Default())
	}
	planJSON, err := json.Marshal(plan)
	require.NoError(t, err)

	g := &game.Game{
		RoomCode:        "ABCDEF",
		Status:          game.StatusInProgress,
		Story:           "### INTRODUCTION\nThe bell fell silent.\n---\nChapter one. Chapter two.",
		RoomPlanJSON:    string(planJSON),
		NarratorVoiceID: "voice-1",
		Players: []*game.Player{
			{ID: "p1", CharacterName: "Anna", IsHost: true},
			{ID: "p2", CharacterName: "Brom"},
		},
	}
	if withState {
		g.GameState = game.NewGameState([]game.Heading{
			{Heading: "The Archive", StoryPart: "Dust hangs in the air of the archive."},
			{Heading: "The Cellar", StoryPart: "Water drips in the dark cellar."},
		})
	} else {
		g.Status = game.StatusReady
	}
	return g
}

func TestNarrateReplayUsesNoModelCall(t *testing.T) {
	f := newAgentFixture(t)
	g := narrationGame(t, true)
	f.store.Put(g)

	result, err := f.agent.Narrate(context.Background(), "ABCDEF", "")
	require.NoError(t, err)

	assert.Equal(t, "Dust hangs in the air of the archive.", result.Text)
	assert.Equal(t, []byte("mock-audio:Dust hangs in the air of the archive."), result.Audio)
	assert.Equal(t, 0, result.SectionID)
	require.NotNil(t, result.Room)
	assert.Equal(t, "A dusty archive.", result.Room.Description)

	chatCalls, schemaCalls, toolsCalls := f.chat.CallCounts()
	assert.Zero(t, chatCalls)
	assert.Zero(t, schemaCalls)
	assert.Zero(t, toolsCalls)
}

func TestNarrateInitializesGameState(t *testing.T) {
	f := newAgentFixture(t)
	g := narrationGame(t, false)
	f.store.Put(g)

	f.chat.ChatWithSchemaFunc = func(ctx context.Context, messages []chat.ChatMessage, schema *chat.ResponseSchema) (string, error) {
		assert.Equal(t, "StoryHeadingsResponse", schema.Name)
		return `{"headings": [
			{"heading": "The Archive", "story_part": "Dust hangs in the air."},
			{"heading": "The Cellar", "story_part": "Water drips below."}
		]}`, nil
	}

	result, err := f.agent.Narrate(context.Background(), "ABCDEF", "")
	require.NoError(t, err)

	assert.Equal(t, "Dust hangs in the air.", result.Text)
	assert.Equal(t, game.StatusInProgress, g.Status)
	require.NotNil(t, g.GameState)
	require.Len(t, g.GameState.Sections, 2)
	assert.Equal(t, game.SectionBeingNarrated, g.GameState.Sections[0].Status)
	assert.Equal(t, game.SectionPending, g.GameState.Sections[1].Status)
}

func TestNarrateReplyAction(t *testing.T) {
	f := newAgentFixture(t)
	g := narrationGame(t, true)
	f.store.Put(g)

	f.chat.ChatWithToolsFunc = func(ctx context.Context, messages []chat.ChatMessage, tools []chat.ToolDefinition) (*chat.ChatResult, error) {
		// Both equipment items remain, so all three tools are offered.
		assert.Len(t, tools, 3)
		return &chat.ChatResult{Content: "The archivist eyes you warily."}, nil
	}

	result, err := f.agent.Narrate(context.Background(), "ABCDEF", "I greet the skeleton.")
	require.NoError(t, err)
	assert.Equal(t, "The archivist eyes you warily.", result.Text)

	// The turn is recorded on the active section: user then assistant.
	interactions := g.GameState.Sections[0].Interactions
	require.GreaterOrEqual(t, len(interactions), 3)
	assert.Equal(t, chat.ChatRoleUser, interactions[len(interactions)-2].Role)
	assert.Equal(t, "I greet the skeleton.", interactions[len(interactions)-2].Content)
	assert.Equal(t, chat.ChatRoleAgent, interactions[len(interactions)-1].Role)

	assert.Equal(t, 1, f.store.SaveCalls)
}

func TestNarrateFinishSectionAdvances(t *testing.T) {
	f := newAgentFixture(t)
	g := narrationGame(t, true)
	f.store.Put(g)

	f.chat.ChatWithToolsFunc = func(ctx context.Context, messages []chat.ChatMessage, tools []chat.ToolDefinition) (*chat.ChatResult, error) {
		return toolCallResult(toolFinishSection,
			`{"smooth_transition_message": "You descend the stairs."}`), nil
	}

	result, err := f.agent.Narrate(context.Background(), "ABCDEF", "We move on.")
	require.NoError(t, err)

	// Only the transition is spoken; the next section's narration
	// arrives via the no-utterance replay.
	assert.Equal(t, "You descend the stairs.", result.Text)
	assert.Equal(t, game.SectionCompleted, g.GameState.Sections[0].Status)
	assert.Equal(t, game.SectionBeingNarrated, g.GameState.Sections[1].Status)
	assert.Equal(t, game.StatusInProgress, g.Status)

	completed := g.GameState.Sections[0].Interactions
	require.NotEmpty(t, completed)
	assert.Equal(t, "You descend the stairs.", completed[len(completed)-1].Content)

	replay, err := f.agent.Narrate(context.Background(), "ABCDEF", "")
	require.NoError(t, err)
	assert.Equal(t, "Water drips in the dark cellar.", replay.Text)
	assert.Equal(t, 1, replay.SectionID)
}

func TestNarrateFinishLastSectionCompletesGame(t *testing.T) {
	f := newAgentFixture(t)
	g := narrationGame(t, true)
	g.GameState.AdvanceSection() // section 1 active
	f.store.Put(g)

	f.chat.ChatWithToolsFunc = func(ctx context.Context, messages []chat.ChatMessage, tools []chat.ToolDefinition) (*chat.ChatResult, error) {
		return toolCallResult(toolFinishSection,
			`{"smooth_transition_message": "The bell rings once more."}`), nil
	}

	result, err := f.agent.Narrate(context.Background(), "ABCDEF", "We finish the job.")
	require.NoError(t, err)
	assert.Equal(t, "The bell rings once more.", result.Text)
	assert.Equal(t, game.StatusCompleted, g.Status)

	_, err = f.agent.Narrate(context.Background(), "ABCDEF", "Encore?")
	assert.ErrorIs(t, err, ErrGameCompleted)
}

func TestNarrateProvideEquipmentRemovesItem(t *testing.T) {
	f := newAgentFixture(t)
	g := narrationGame(t, true)
	f.store.Put(g)

	f.chat.ChatWithToolsFunc = func(ctx context.Context, messages []chat.ChatMessage, tools []chat.ToolDefinition) (*chat.ChatResult, error) {
		return toolCallResult(toolProvideEquipment,
			`{"provided_equipment": "Torch", "message": "Anna lifts the torch from its sconce."}`), nil
	}

	result, err := f.agent.Narrate(context.Background(), "ABCDEF", "I take the torch.")
	require.NoError(t, err)
	assert.Equal(t, "Anna lifts the torch from its sconce.", result.Text)

	// The persisted plan no longer carries the torch.
	var plan room.Plan
	require.NoError(t, json.Unmarshal([]byte(g.RoomPlanJSON), &plan))
	assert.Equal(t, []string{"Rope"}, plan.Rooms[0].Equipment)
	assert.Len(t, plan.Rooms[0].Grid.EquipmentPositions, 1)
}

func TestNarrateMovePlayer(t *testing.T) {
	f := newAgentFixture(t)
	g := narrationGame(t, true)
	f.store.Put(g)

	f.chat.ChatWithToolsFunc = func(ctx context.Context, messages []chat.ChatMessage, tools []chat.ToolDefinition) (*chat.ChatResult, error) {
		return toolCallResult(toolMovePlayer,
			`{"player_name": "Anna", "target_type": "npc", "message": "Anna approaches the archivist."}`), nil
	}

	result, err := f.agent.Narrate(context.Background(), "ABCDEF", "I walk up to it.")
	require.NoError(t, err)
	assert.Equal(t, "Anna approaches the archivist.", result.Text)
}

func TestNarrateMoveUnknownPlayerFailsWithoutPersisting(t *testing.T) {
	f := newAgentFixture(t)
	g := narrationGame(t, true)
	f.store.Put(g)

	f.chat.ChatWithToolsFunc = func(ctx context.Context, messages []chat.ChatMessage, tools []chat.ToolDefinition) (*chat.ChatResult, error) {
		return toolCallResult(toolMovePlayer,
			`{"player_name": "Zed", "target_type": "npc", "message": "Zed moves."}`), nil
	}

	_, err := f.agent.Narrate(context.Background(), "ABCDEF", "Zed walks forward.")
	require.Error(t, err)
	assert.Zero(t, f.store.SaveCalls)
	assert.Empty(t, f.voice.SynthesizedTexts())
	assert.Empty(t, g.GameState.Sections[0].Interactions[1:])
}

func TestNarrateFailedTurnCanBeRetried(t *testing.T) {
	f := newAgentFixture(t)
	g := narrationGame(t, true)
	f.store.Put(g)
	before := len(g.GameState.Sections[0].Interactions)

	f.chat.ChatWithToolsFunc = func(ctx context.Context, messages []chat.ChatMessage, tools []chat.ToolDefinition) (*chat.ChatResult, error) {
		return nil, fmt.Errorf("model unavailable")
	}
	_, err := f.agent.Narrate(context.Background(), "ABCDEF", "I open the door.")
	require.Error(t, err)
	assert.Len(t, g.GameState.Sections[0].Interactions, before)

	f.chat.ChatWithToolsFunc = func(ctx context.Context, messages []chat.ChatMessage, tools []chat.ToolDefinition) (*chat.ChatResult, error) {
		return &chat.ChatResult{Content: "The door creaks open."}, nil
	}
	_, err = f.agent.Narrate(context.Background(), "ABCDEF", "I open the door.")
	require.NoError(t, err)

	// The retried turn is recorded exactly once.
	interactions := g.GameState.Sections[0].Interactions
	require.Len(t, interactions, before+2)
	assert.Equal(t, "I open the door.", interactions[len(interactions)-2].Content)
	assert.Equal(t, "The door creaks open.", interactions[len(interactions)-1].Content)
}

func TestNarrateGameNotReady(t *testing.T) {
	f := newAgentFixture(t)
	g := narrationGame(t, true)
	g.Status = game.StatusGenerating
	f.store.Put(g)

	_, err := f.agent.Narrate(context.Background(), "ABCDEF", "")
	assert.ErrorIs(t, err, ErrGameNotReady)
}

func TestNarrateGameNotFound(t *testing.T) {
	f := newAgentFixture(t)
	_, err := f.agent.Narrate(context.Background(), "ZZZZZZ", "")
	assert.ErrorIs(t, err, store.ErrGameNotFound)
}

func TestNarrateSynthesisFailureFailsTurn(t *testing.T) {
	f := newAgentFixture(t)
	g := narrationGame(t, true)
	f.store.Put(g)

	f.voice.SynthesizeFunc = func(ctx context.Context, voiceID, text string) ([]byte, error) {
		return nil, fmt.Errorf("tts unavailable")
	}

	_, err := f.agent.Narrate(context.Background(), "ABCDEF", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "speech synthesis failed")
}
