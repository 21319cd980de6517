package game

import (
	"fmt"

	"github.com/jwebster45206/d20"
)

// NewActor lowers a character sheet into a d20.Actor for runtime stat
// and check resolution. The dice engine rejects unplayable sheets
// (non-positive hit points), so this doubles as sheet validation.
func (s *CharacterSheet) NewActor(id string) (*d20.Actor, error) {
	return d20.NewActor(id).
		WithHP(s.HitPoints).
		WithAttributes(s.AbilityScores.ToAttributes()).
		Build()
}

// BuildActor builds the runtime actor for a player's applied sheet.
func (p *Player) BuildActor() (*d20.Actor, error) {
	if p.CharacterSheet == nil {
		return nil, fmt.Errorf("player %s has no character sheet", p.CharacterName)
	}
	actor, err := p.CharacterSheet.NewActor(p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to build actor for %s: %w", p.CharacterName, err)
	}
	return actor, nil
}
