package room

import (
	"github.com/dungeondj/dungeon-dj/pkg/grid"
)

// NPC dispositions used by the room plan schema.
const (
	DispositionBad     = "bad"
	DispositionNeutral = "neutral"
	DispositionGood    = "good"
)

// NPC is the single non-player character of a room.
type NPC struct {
	Name        string `json:"npc_name"`
	Disposition string `json:"disposition"` // "bad", "neutral" or "good"
	Damage      int    `json:"damage"`      // 0-5
}

// Room is one element of the generated room plan. The plan's array
// order corresponds 1:1 with the story sections of the game state.
type Room struct {
	NPC         NPC               `json:"npc"`
	Description string            `json:"room_description"`
	Equipment   []string          `json:"equipments"`
	Grid        *grid.RoomGridMap `json:"grid_map,omitempty"`
}

// Plan is the full set of rooms driving both narration and the grid
// visualization.
type Plan struct {
	Rooms []Room `json:"rooms"`
}

// AttachGrids generates a fresh 9x9 grid for every room in the plan.
func (p *Plan) AttachGrids() error {
	for i := range p.Rooms {
		g, err := grid.GenerateRoomGrid(p.Rooms[i].NPC.Name, p.Rooms[i].Equipment)
		if err != nil {
			return err
		}
		p.Rooms[i].Grid = g
	}
	return nil
}

// RemoveEquipment deletes a named item from the room's equipment
// list. Returns false when the item is not present.
func (r *Room) RemoveEquipment(name string) bool {
	for i, eq := range r.Equipment {
		if eq == name {
			r.Equipment = append(r.Equipment[:i], r.Equipment[i+1:]...)
			return true
		}
	}
	return false
}

// PlanSchema is the JSON schema sent to the chat completion endpoint
// to constrain room plan generation.
func PlanSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"rooms": map[string]interface{}{
				"type":        "array",
				"description": "One room per story section, in story order",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"npc": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"npc_name": map[string]interface{}{
									"type":        "string",
									"description": "Name of the NPC in this room",
								},
								"disposition": map[string]interface{}{
									"type":        "string",
									"enum":        []string{DispositionBad, DispositionNeutral, DispositionGood},
									"description": "Attitude of the NPC toward the players",
								},
								"damage": map[string]interface{}{
									"type":        "integer",
									"minimum":     0,
									"maximum":     5,
									"description": "How much damage the NPC deals in combat",
								},
							},
							"required": []string{"npc_name", "disposition", "damage"},
						},
						"room_description": map[string]interface{}{
							"type":        "string",
							"description": "Vivid description of the room",
						},
						"equipments": map[string]interface{}{
							"type":        "array",
							"items":       map[string]interface{}{"type": "string"},
							"description": "Equipment players can find in the room",
						},
					},
					"required": []string{"npc", "room_description", "equipments"},
				},
			},
		},
		"required": []string{"rooms"},
	}
}
