package facilitator

import (
	"encoding/json"
	"fmt"

	"github.com/dungeondj/dungeon-dj/pkg/chat"
	"github.com/dungeondj/dungeon-dj/pkg/grid"
)

// Action is the closed set of things a facilitator turn can do. The
// model's free-form tool call is decoded into exactly one of these
// before any game state is touched.
type Action interface {
	// Message returns the narration text the players hear for this
	// action.
	Message() string
}

// ReplyAction is a plain narration turn with no state change.
type ReplyAction struct {
	Text string
}

func (a ReplyAction) Message() string { return a.Text }

// FinishSectionAction completes the active story section.
type FinishSectionAction struct {
	SmoothTransitionMessage string `json:"smooth_transition_message"`
}

func (a FinishSectionAction) Message() string { return a.SmoothTransitionMessage }

// ProvideEquipmentAction hands one item from the current room to the
// players.
type ProvideEquipmentAction struct {
	ProvidedEquipment string `json:"provided_equipment"`
	Narration         string `json:"message"`
}

func (a ProvideEquipmentAction) Message() string { return a.Narration }

// MovePlayerAction relocates a player on the room grid.
type MovePlayerAction struct {
	PlayerName    string `json:"player_name"`
	TargetType    string `json:"target_type"`
	EquipmentName string `json:"equipment_name,omitempty"`
	Narration     string `json:"message"`
}

func (a MovePlayerAction) Message() string { return a.Narration }

// Directive translates the action into a grid movement directive.
func (a MovePlayerAction) Directive() grid.MoveDirective {
	d := grid.MoveDirective{Target: grid.TargetType(a.TargetType)}
	if d.Target == grid.TargetEquipment {
		d.EquipmentName = a.EquipmentName
	}
	return d
}

// DecodeAction turns a model response into exactly one Action. Tool
// calls win over plain content; unknown tool names and malformed
// arguments are errors rather than silent replies, because acting on
// a half-understood tool call would corrupt game state.
func DecodeAction(result *chat.ChatResult) (Action, error) {
	if result.Empty() {
		return nil, fmt.Errorf("model returned neither narration nor a tool call")
	}
	if len(result.ToolCalls) == 0 {
		return ReplyAction{Text: result.Content}, nil
	}

	tc := result.ToolCalls[0]
	args := []byte(tc.Function.Arguments)

	switch tc.Function.Name {
	case toolFinishSection:
		var a FinishSectionAction
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, fmt.Errorf("malformed %s arguments: %w", toolFinishSection, err)
		}
		return a, nil
	case toolProvideEquipment:
		var a ProvideEquipmentAction
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, fmt.Errorf("malformed %s arguments: %w", toolProvideEquipment, err)
		}
		if a.ProvidedEquipment == "" {
			return nil, fmt.Errorf("%s called without provided_equipment", toolProvideEquipment)
		}
		return a, nil
	case toolMovePlayer:
		var a MovePlayerAction
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, fmt.Errorf("malformed %s arguments: %w", toolMovePlayer, err)
		}
		if a.PlayerName == "" {
			return nil, fmt.Errorf("%s called without player_name", toolMovePlayer)
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown tool call %q", tc.Function.Name)
	}
}
