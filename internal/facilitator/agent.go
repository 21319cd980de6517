package facilitator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dungeondj/dungeon-dj/internal/services"
	"github.com/dungeondj/dungeon-dj/internal/store"
	"github.com/dungeondj/dungeon-dj/pkg/chat"
	"github.com/dungeondj/dungeon-dj/pkg/game"
	"github.com/dungeondj/dungeon-dj/pkg/prompts"
	"github.com/dungeondj/dungeon-dj/pkg/room"
	"github.com/dungeondj/dungeon-dj/pkg/textfilter"
)

var (
	// ErrGameCompleted is returned when narration is requested for a
	// game whose last section has finished.
	ErrGameCompleted = errors.New("game has completed")
	// ErrGameNotReady is returned while world generation has not
	// succeeded yet.
	ErrGameNotReady = errors.New("game is not ready for narration")
	// ErrNoActiveSection signals a corrupted game state: a live game
	// with no section being narrated.
	ErrNoActiveSection = errors.New("no active story section")
)

// NarrationResult is one facilitator turn: the narration text, its
// synthesized audio and a snapshot of the room the players are in.
type NarrationResult struct {
	Text      string
	Audio     []byte
	Room      *room.Room
	SectionID int
}

// Agent drives the narrated session. One Narrate call is one turn:
// load the game, run the interaction through the model, apply exactly
// one action, then synthesize speech and persist concurrently. Turns
// for the same room code are serialized; a half-applied turn is never
// persisted.
type Agent struct {
	chat   services.ChatService
	voice  services.VoiceService
	store  store.Store
	filter *textfilter.NarrationFilter // nil disables filtering
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewAgent(chatSvc services.ChatService, voiceSvc services.VoiceService, st store.Store, filter *textfilter.NarrationFilter, logger *slog.Logger) *Agent {
	return &Agent{
		chat:   chatSvc,
		voice:  voiceSvc,
		store:  st,
		filter: filter,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (a *Agent) roomLock(roomCode string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.locks[roomCode]
	if !ok {
		l = &sync.Mutex{}
		a.locks[roomCode] = l
	}
	return l
}

// Narrate runs one facilitator turn. An empty utterance replays the
// active section's narration without consulting the model.
func (a *Agent) Narrate(ctx context.Context, roomCode string, utterance string) (*NarrationResult, error) {
	lock := a.roomLock(roomCode)
	lock.Lock()
	defer lock.Unlock()

	g, err := a.store.LoadGame(ctx, roomCode)
	if err != nil {
		return nil, err
	}

	switch g.Status {
	case game.StatusCompleted:
		return nil, ErrGameCompleted
	case game.StatusReady, game.StatusInProgress:
		// narration may proceed
	default:
		return nil, ErrGameNotReady
	}

	plan, err := loadPlan(g)
	if err != nil {
		return nil, err
	}

	if g.GameState == nil {
		if err := a.initGameState(ctx, g, plan); err != nil {
			return nil, fmt.Errorf("story segmentation failed: %w", err)
		}
	}

	section := g.GameState.ActiveSection()
	if section == nil {
		return nil, ErrNoActiveSection
	}
	currentRoom := roomForSection(plan, section.ID)

	var text string
	if utterance == "" {
		// Replay: late joiners and reconnects hear the section again.
		text = section.StoryPart
	} else {
		text, err = a.runInteraction(ctx, g, plan, section, currentRoom, utterance)
		if err != nil {
			return nil, err
		}
	}

	result := &NarrationResult{
		Text:      text,
		Room:      currentRoom,
		SectionID: section.ID,
	}

	spoken := text
	if a.filter != nil {
		spoken = a.filter.Filter(spoken)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		audio, err := a.voice.Synthesize(egCtx, g.NarratorVoiceID, spoken)
		if err != nil {
			return fmt.Errorf("speech synthesis failed: %w", err)
		}
		result.Audio = audio
		return nil
	})
	eg.Go(func() error {
		return a.store.SaveGame(egCtx, g)
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// runInteraction sends the section's conversation to the model and
// applies the single action it chooses. The game is mutated in memory
// only; the caller persists.
func (a *Agent) runInteraction(ctx context.Context, g *game.Game, plan *room.Plan, section *game.StorySection, currentRoom *room.Room, utterance string) (string, error) {
	messages := make([]chat.ChatMessage, 0, len(section.Interactions)+2)
	messages = append(messages, chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: prompts.InteractionSystemPrompt,
	})
	messages = append(messages, section.Interactions...)
	messages = append(messages, chat.ChatMessage{
		Role:    chat.ChatRoleUser,
		Content: prompts.InteractionUserPrompt(section.StoryPart, utterance),
	})

	result, err := a.chat.ChatWithTools(ctx, messages, BuildTools(currentRoom, g.CharacterNames()))
	if err != nil {
		return "", fmt.Errorf("interaction call failed: %w", err)
	}

	action, err := DecodeAction(result)
	if err != nil {
		return "", err
	}

	text, err := a.applyAction(g, plan, section, currentRoom, action)
	if err != nil {
		return "", err
	}

	// The turn is recorded only once the action succeeded, so a failed
	// call can be retried without duplicating the exchange.
	section.Interactions = append(section.Interactions,
		chat.ChatMessage{Role: chat.ChatRoleUser, Content: utterance},
		chat.ChatMessage{Role: chat.ChatRoleAgent, Content: text},
	)
	return text, nil
}

func (a *Agent) applyAction(g *game.Game, plan *room.Plan, section *game.StorySection, currentRoom *room.Room, action Action) (string, error) {
	switch act := action.(type) {
	case ReplyAction:
		return act.Text, nil

	case FinishSectionAction:
		// Only the transition is spoken here; the next section's
		// narration is delivered by the no-utterance replay path.
		next := g.GameState.AdvanceSection()
		if next == nil {
			g.Status = game.StatusCompleted
			a.logger.Info("Game completed", "room_code", g.RoomCode)
			return act.SmoothTransitionMessage, nil
		}
		a.logger.Info("Story section advanced",
			"room_code", g.RoomCode,
			"completed", section.ID,
			"active", next.ID)
		return act.SmoothTransitionMessage, nil

	case ProvideEquipmentAction:
		if !currentRoom.RemoveEquipment(act.ProvidedEquipment) {
			a.logger.Warn("Equipment not present in room, nothing removed",
				"room_code", g.RoomCode,
				"equipment", act.ProvidedEquipment)
		}
		if currentRoom.Grid != nil {
			currentRoom.Grid = currentRoom.Grid.RemoveEquipmentFromGrid(act.ProvidedEquipment, a.logger)
		}
		if err := savePlan(g, plan); err != nil {
			return "", err
		}
		return act.Narration, nil

	case MovePlayerAction:
		if currentRoom.Grid != nil {
			ng, err := currentRoom.Grid.MovePlayerOnGrid(act.PlayerName, act.Directive())
			if err != nil {
				return "", err
			}
			currentRoom.Grid = ng
			if err := savePlan(g, plan); err != nil {
				return "", err
			}
		}
		return act.Narration, nil

	default:
		return "", fmt.Errorf("unhandled action type %T", action)
	}
}

// initGameState segments the story into one section per room and
// seeds the grids with the joined players.
func (a *Agent) initGameState(ctx context.Context, g *game.Game, plan *room.Plan) error {
	descriptions := make([]string, 0, len(plan.Rooms))
	for i, r := range plan.Rooms {
		descriptions = append(descriptions, fmt.Sprintf("Room %d: %s", i+1, r.Description))
	}

	content, err := a.chat.ChatWithSchema(ctx, []chat.ChatMessage{
		{Role: chat.ChatRoleSystem, Content: prompts.HeadingsSystemPrompt},
		{Role: chat.ChatRoleUser, Content: prompts.HeadingsUserPrompt(strings.Join(descriptions, "\n"), g.Story)},
	}, &chat.ResponseSchema{
		Name:   "StoryHeadingsResponse",
		Schema: game.HeadingsSchema(),
	})
	if err != nil {
		return err
	}

	var parsed struct {
		Headings []game.Heading `json:"headings"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return fmt.Errorf("failed to parse headings response as JSON: %w", err)
	}
	if len(parsed.Headings) == 0 {
		return fmt.Errorf("headings response contains no headings")
	}

	names := g.CharacterNames()
	for i := range plan.Rooms {
		if plan.Rooms[i].Grid != nil {
			plan.Rooms[i].Grid = plan.Rooms[i].Grid.InitializePlayerPositions(names, a.logger)
		}
	}
	if err := savePlan(g, plan); err != nil {
		return err
	}

	g.GameState = game.NewGameState(parsed.Headings)
	g.Status = game.StatusInProgress

	a.logger.Info("Narration started",
		"room_code", g.RoomCode,
		"sections", len(parsed.Headings),
		"players", len(names))
	return nil
}

// roomForSection maps a section to its room. Sections and rooms are
// generated 1:1; if segmentation produced extra sections, the last
// room hosts the overflow.
func roomForSection(plan *room.Plan, sectionID int) *room.Room {
	idx := sectionID
	if idx >= len(plan.Rooms) {
		idx = len(plan.Rooms) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return &plan.Rooms[idx]
}

func loadPlan(g *game.Game) (*room.Plan, error) {
	if g.RoomPlanJSON == "" {
		return nil, fmt.Errorf("game %s has no room plan", g.RoomCode)
	}
	var plan room.Plan
	if err := json.Unmarshal([]byte(g.RoomPlanJSON), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse stored room plan: %w", err)
	}
	if len(plan.Rooms) == 0 {
		return nil, fmt.Errorf("game %s has an empty room plan", g.RoomCode)
	}
	return &plan, nil
}

func savePlan(g *game.Game, plan *room.Plan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to serialize room plan: %w", err)
	}
	g.RoomPlanJSON = string(data)
	return nil
}
