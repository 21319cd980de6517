package facilitator

import (
	"github.com/dungeondj/dungeon-dj/pkg/chat"
	"github.com/dungeondj/dungeon-dj/pkg/room"
)

const (
	toolFinishSection    = "finish_current_story_section"
	toolProvideEquipment = "provide_one_equipment_from_current_room"
	toolMovePlayer       = "move_player"
)

// BuildTools assembles the tool set offered to the model for one
// interaction turn. The equipment tool is only offered while the
// current room still has equipment, and its enum pins the model to
// items that actually exist.
func BuildTools(currentRoom *room.Room, playerNames []string) []chat.ToolDefinition {
	tools := []chat.ToolDefinition{
		chat.NewTool(toolFinishSection,
			"Finish the current story section and move the narration to the next one. Call this when the players have resolved the current section's events.",
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"smooth_transition_message": map[string]interface{}{
						"type":        "string",
						"description": "A short narration that wraps up the current section and leads into the next one",
					},
				},
				"required": []string{"smooth_transition_message"},
			}),
	}

	if len(currentRoom.Equipment) > 0 {
		tools = append(tools, chat.NewTool(toolProvideEquipment,
			"Give the players one piece of equipment from the current room. Call this when a player has earned or found an item.",
			map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"provided_equipment": map[string]interface{}{
						"type":        "string",
						"enum":        currentRoom.Equipment,
						"description": "The equipment to hand out, chosen from what remains in the room",
					},
					"message": map[string]interface{}{
						"type":        "string",
						"description": "Narration describing how the players obtain the equipment",
					},
				},
				"required": []string{"provided_equipment", "message"},
			}))
	}

	tools = append(tools, chat.NewTool(toolMovePlayer,
		"Move a player on the room grid toward the NPC, a piece of equipment, a wall, or in a random direction.",
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"player_name": map[string]interface{}{
					"type":        "string",
					"enum":        playerNames,
					"description": "The character who moves",
				},
				"target_type": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"npc", "equipment", "wall", "random"},
					"description": "What the player moves toward",
				},
				"equipment_name": map[string]interface{}{
					"type":        "string",
					"description": "Required when target_type is equipment",
				},
				"message": map[string]interface{}{
					"type":        "string",
					"description": "Narration describing the movement",
				},
			},
			"required": []string{"player_name", "target_type", "message"},
		}))

	return tools
}
