package grid

import (
	"fmt"
	"math/rand"
	"strings"
)

// TargetType selects how a player movement directive is resolved.
type TargetType string

const (
	TargetNPC       TargetType = "npc"
	TargetEquipment TargetType = "equipment"
	TargetWall      TargetType = "wall"
	TargetRandom    TargetType = "random"
	TargetPosition  TargetType = "position"
)

// randomWalkRange bounds the default random walk to ±3 cells per axis.
const randomWalkRange = 3

// MoveDirective describes where a named player should move.
type MoveDirective struct {
	Target        TargetType
	EquipmentName string   // for TargetEquipment
	Position      Position // for TargetPosition
}

// MovePlayerOnGrid resolves a new position for a named player and
// returns a new grid with the player relocated. The result is always
// clamped to grid bounds. An unknown player name is an error: it
// means identification went wrong upstream, not that there is nothing
// to do.
func (g *RoomGridMap) MovePlayerOnGrid(playerName string, directive MoveDirective) (*RoomGridMap, error) {
	idx := -1
	for i, pp := range g.PlayerPositions {
		if strings.EqualFold(pp.PlayerName, playerName) {
			idx = i
			break
		}
	}
	if idx == -1 {
		known := make([]string, 0, len(g.PlayerPositions))
		for _, pp := range g.PlayerPositions {
			known = append(known, pp.PlayerName)
		}
		return nil, fmt.Errorf("player %q not found on grid (known players: %s)",
			playerName, strings.Join(known, ", "))
	}

	current := g.PlayerPositions[idx].Position
	var next Position

	switch directive.Target {
	case TargetNPC:
		next = stepToward(current, g.NPCPosition)
	case TargetEquipment:
		target, ok := g.equipmentPosition(directive.EquipmentName)
		if !ok {
			// Unknown equipment degrades to a random walk rather
			// than stranding the turn.
			next = randomWalk(current)
		} else {
			next = stepToward(current, target)
		}
	case TargetWall:
		next = nearestWall(current)
	case TargetPosition:
		next = directive.Position
	default:
		next = randomWalk(current)
	}

	next = g.clamp(next)

	ng := g.clone()
	ng.PlayerPositions[idx].Position = next
	ng.refreshPlayerCells()
	return ng, nil
}

func (g *RoomGridMap) equipmentPosition(name string) (Position, bool) {
	for _, eq := range g.EquipmentPositions {
		if strings.EqualFold(eq.EquipmentName, name) {
			return eq.Position, true
		}
	}
	return Position{}, false
}

func (g *RoomGridMap) clamp(p Position) Position {
	if p.X < 0 {
		p.X = 0
	}
	if p.X >= g.Width {
		p.X = g.Width - 1
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.Y >= g.Height {
		p.Y = g.Height - 1
	}
	return p
}

// stepToward moves one cell short of the target so actors end up
// adjacent instead of stacked.
func stepToward(from, to Position) Position {
	next := to
	if to.X > from.X {
		next.X--
	} else if to.X < from.X {
		next.X++
	}
	if to.Y > from.Y {
		next.Y--
	} else if to.Y < from.Y {
		next.Y++
	}
	return next
}

func nearestWall(p Position) Position {
	distances := map[string]int{
		"left":   p.X,
		"right":  GridSize - 1 - p.X,
		"top":    p.Y,
		"bottom": GridSize - 1 - p.Y,
	}
	wall := "left"
	best := distances["left"]
	for _, name := range []string{"right", "top", "bottom"} {
		if distances[name] < best {
			best = distances[name]
			wall = name
		}
	}
	switch wall {
	case "left":
		return Position{X: 0, Y: p.Y}
	case "right":
		return Position{X: GridSize - 1, Y: p.Y}
	case "top":
		return Position{X: p.X, Y: 0}
	default:
		return Position{X: p.X, Y: GridSize - 1}
	}
}

func randomWalk(p Position) Position {
	return Position{
		X: p.X + rand.Intn(2*randomWalkRange+1) - randomWalkRange,
		Y: p.Y + rand.Intn(2*randomWalkRange+1) - randomWalkRange,
	}
}
