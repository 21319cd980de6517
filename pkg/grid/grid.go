package grid

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
)

const (
	// GridSize is the fixed width and height of a room grid.
	GridSize = 9

	// maxPlacementAttempts bounds random placement before giving up.
	// Hitting the cap means the room holds more items than the grid
	// can reasonably fit.
	maxPlacementAttempts = 100
)

type CellType string

const (
	CellEmpty     CellType = "empty"
	CellNPC       CellType = "npc"
	CellEquipment CellType = "equipment"
	CellPlayer    CellType = "player"
)

// Position is a 0-indexed grid coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell is one square of a room grid. Name carries the NPC, equipment
// or player character name depending on the cell type.
type Cell struct {
	Type CellType `json:"type"`
	Name string   `json:"name,omitempty"`
}

type EquipmentPosition struct {
	EquipmentName string   `json:"equipment_name"`
	Position      Position `json:"position"`
}

type PlayerPosition struct {
	PlayerName string   `json:"player_name"`
	Position   Position `json:"position"`
}

// RoomGridMap is the tactical layout of a single room. Cells are
// indexed [y][x].
type RoomGridMap struct {
	Width              int                 `json:"width"`
	Height             int                 `json:"height"`
	Cells              [][]Cell            `json:"cells"`
	PlayerSpawn        Position            `json:"player_spawn_position"`
	NPCPosition        Position            `json:"npc_position"`
	EquipmentPositions []EquipmentPosition `json:"equipment_positions"`
	PlayerPositions    []PlayerPosition    `json:"player_positions,omitempty"`
}

// GenerateRoomGrid builds a 9x9 grid for a room, reserving a player
// spawn cell near one of the four walls, then placing the NPC and
// each equipment item at random non-colliding cells.
func GenerateRoomGrid(npcName string, equipment []string) (*RoomGridMap, error) {
	cells := make([][]Cell, GridSize)
	for y := range cells {
		cells[y] = make([]Cell, GridSize)
		for x := range cells[y] {
			cells[y][x] = Cell{Type: CellEmpty}
		}
	}

	used := make(map[Position]bool)

	// Players enter through doors on walls, so spawn candidates sit
	// one cell in from the midpoint of each wall.
	spawnOptions := []Position{
		{X: GridSize / 2, Y: 1},            // top
		{X: GridSize / 2, Y: GridSize - 2}, // bottom
		{X: 1, Y: GridSize / 2},            // left
		{X: GridSize - 2, Y: GridSize / 2}, // right
	}
	spawn := spawnOptions[rand.Intn(len(spawnOptions))]
	used[spawn] = true

	randomPosition := func() (Position, error) {
		for attempts := 0; attempts < maxPlacementAttempts; attempts++ {
			p := Position{X: rand.Intn(GridSize), Y: rand.Intn(GridSize)}
			if !used[p] {
				used[p] = true
				return p, nil
			}
		}
		return Position{}, fmt.Errorf("could not find empty position after %d attempts", maxPlacementAttempts)
	}

	npcPos, err := randomPosition()
	if err != nil {
		return nil, err
	}
	cells[npcPos.Y][npcPos.X] = Cell{Type: CellNPC, Name: npcName}

	equipmentPositions := make([]EquipmentPosition, 0, len(equipment))
	for _, name := range equipment {
		p, err := randomPosition()
		if err != nil {
			return nil, err
		}
		cells[p.Y][p.X] = Cell{Type: CellEquipment, Name: name}
		equipmentPositions = append(equipmentPositions, EquipmentPosition{
			EquipmentName: name,
			Position:      p,
		})
	}

	return &RoomGridMap{
		Width:              GridSize,
		Height:             GridSize,
		Cells:              cells,
		PlayerSpawn:        spawn,
		NPCPosition:        npcPos,
		EquipmentPositions: equipmentPositions,
	}, nil
}

// InitializePlayerPositions seeds every joined player at the room's
// spawn cell. Movement lookups are keyed by character name, so a
// case-insensitive duplicate gets a warning; the session still works,
// but moves resolve to whichever entry is found first.
func (g *RoomGridMap) InitializePlayerPositions(playerNames []string, logger *slog.Logger) *RoomGridMap {
	ng := g.clone()
	ng.PlayerPositions = make([]PlayerPosition, 0, len(playerNames))

	seen := make(map[string]bool)
	for _, name := range playerNames {
		key := strings.ToLower(name)
		if seen[key] && logger != nil {
			logger.Warn("Duplicate character name on grid; moves are name-keyed",
				"character", name)
		}
		seen[key] = true
		ng.PlayerPositions = append(ng.PlayerPositions, PlayerPosition{
			PlayerName: name,
			Position:   ng.PlayerSpawn,
		})
	}

	ng.refreshPlayerCells()
	return ng
}

// refreshPlayerCells rebuilds the player layer of the cell matrix from
// PlayerPositions. NPC and equipment cells are never overwritten; when
// players share a cell, the first one claims it.
func (g *RoomGridMap) refreshPlayerCells() {
	for y := range g.Cells {
		for x := range g.Cells[y] {
			if g.Cells[y][x].Type == CellPlayer {
				g.Cells[y][x] = Cell{Type: CellEmpty}
			}
		}
	}
	for _, pp := range g.PlayerPositions {
		cell := &g.Cells[pp.Position.Y][pp.Position.X]
		if cell.Type == CellEmpty {
			*cell = Cell{Type: CellPlayer, Name: pp.PlayerName}
		}
	}
}

// AddPlayerToRoomGrid places one player at the spawn cell, returning
// a new grid.
func (g *RoomGridMap) AddPlayerToRoomGrid(playerName string) *RoomGridMap {
	ng := g.clone()
	ng.PlayerPositions = append(ng.PlayerPositions, PlayerPosition{
		PlayerName: playerName,
		Position:   ng.PlayerSpawn,
	})
	ng.refreshPlayerCells()
	return ng
}

// RemoveEquipmentFromGrid clears a named equipment item. Removing an
// item that is not on the grid is harmless, so it warns and returns
// the grid unchanged instead of failing.
func (g *RoomGridMap) RemoveEquipmentFromGrid(equipmentName string, logger *slog.Logger) *RoomGridMap {
	idx := -1
	for i, eq := range g.EquipmentPositions {
		if eq.EquipmentName == equipmentName {
			idx = i
			break
		}
	}
	if idx == -1 {
		if logger != nil {
			logger.Warn("Equipment not found on grid", "equipment", equipmentName)
		}
		return g
	}

	ng := g.clone()
	p := ng.EquipmentPositions[idx].Position
	ng.Cells[p.Y][p.X] = Cell{Type: CellEmpty}
	ng.EquipmentPositions = append(ng.EquipmentPositions[:idx], ng.EquipmentPositions[idx+1:]...)
	return ng
}

// MoveNPCOnGrid relocates the NPC, returning a new grid.
func (g *RoomGridMap) MoveNPCOnGrid(newPosition Position) *RoomGridMap {
	ng := g.clone()
	old := ng.NPCPosition
	npcName := ng.Cells[old.Y][old.X].Name
	ng.Cells[old.Y][old.X] = Cell{Type: CellEmpty}
	ng.Cells[newPosition.Y][newPosition.X] = Cell{Type: CellNPC, Name: npcName}
	ng.NPCPosition = newPosition
	return ng
}

// IsPositionValid reports whether a position is in bounds and empty.
func (g *RoomGridMap) IsPositionValid(p Position) bool {
	if p.X < 0 || p.X >= g.Width || p.Y < 0 || p.Y >= g.Height {
		return false
	}
	return g.Cells[p.Y][p.X].Type == CellEmpty
}

func (g *RoomGridMap) clone() *RoomGridMap {
	cells := make([][]Cell, len(g.Cells))
	for y, row := range g.Cells {
		cells[y] = make([]Cell, len(row))
		copy(cells[y], row)
	}
	eq := make([]EquipmentPosition, len(g.EquipmentPositions))
	copy(eq, g.EquipmentPositions)
	pp := make([]PlayerPosition, len(g.PlayerPositions))
	copy(pp, g.PlayerPositions)

	return &RoomGridMap{
		Width:              g.Width,
		Height:             g.Height,
		Cells:              cells,
		PlayerSpawn:        g.PlayerSpawn,
		NPCPosition:        g.NPCPosition,
		EquipmentPositions: eq,
		PlayerPositions:    pp,
	}
}
