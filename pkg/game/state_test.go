package game

import (
	"testing"

	"github.com/dungeondj/dungeon-dj/pkg/chat"
)

func threeHeadings() []Heading {
	return []Heading{
		{Heading: "The Gate", StoryPart: "You stand before the gate."},
		{Heading: "The Hall", StoryPart: "The hall stretches into darkness."},
		{Heading: "The Vault", StoryPart: "Gold glitters behind iron bars."},
	}
}

func TestNewGameState_SectionZeroActive(t *testing.T) {
	gs := NewGameState(threeHeadings())

	if len(gs.Sections) != 3 {
		t.Fatalf("Expected 3 sections, got %d", len(gs.Sections))
	}

	active := 0
	for _, s := range gs.Sections {
		if s.Status == SectionBeingNarrated {
			active++
		}
	}
	if active != 1 {
		t.Errorf("Expected exactly 1 active section, got %d", active)
	}
	if gs.Sections[0].Status != SectionBeingNarrated {
		t.Errorf("Section 0 should be being narrated, got %s", gs.Sections[0].Status)
	}
	if gs.Sections[1].Status != SectionPending || gs.Sections[2].Status != SectionPending {
		t.Error("Later sections should start pending")
	}

	// Section 0's log starts seeded with its own narration.
	if len(gs.Sections[0].Interactions) != 1 {
		t.Fatalf("Expected 1 seeded interaction, got %d", len(gs.Sections[0].Interactions))
	}
	seed := gs.Sections[0].Interactions[0]
	if seed.Role != chat.ChatRoleSystem || seed.Content != "You stand before the gate." {
		t.Errorf("Unexpected seed turn: %+v", seed)
	}
	if len(gs.Sections[1].Interactions) != 0 {
		t.Error("Pending sections should have empty interaction logs")
	}
}

func TestGameState_AdvanceSection(t *testing.T) {
	gs := NewGameState(threeHeadings())

	next := gs.AdvanceSection()
	if next == nil {
		t.Fatal("Expected a next section")
	}
	if next.ID != 1 {
		t.Errorf("Expected section 1 active, got %d", next.ID)
	}
	if gs.Sections[0].Status != SectionCompleted {
		t.Errorf("Section 0 should be completed, got %s", gs.Sections[0].Status)
	}
	if gs.Sections[2].Status != SectionPending {
		t.Errorf("Section 2 should stay pending, got %s", gs.Sections[2].Status)
	}
	if len(next.Interactions) != 1 || next.Interactions[0].Content != "The hall stretches into darkness." {
		t.Errorf("Next section log should be seeded with its story part: %+v", next.Interactions)
	}

	// Invariant holds after every advance.
	for i := 0; i < 5; i++ {
		active := 0
		for _, s := range gs.Sections {
			if s.Status == SectionBeingNarrated {
				active++
			}
		}
		if active > 1 {
			t.Fatalf("More than one active section after %d advances", i+1)
		}
		gs.AdvanceSection()
	}

	// Completed sections never revisit.
	for _, s := range gs.Sections {
		if s.Status != SectionCompleted {
			t.Errorf("Section %d should be completed, got %s", s.ID, s.Status)
		}
	}
}

func TestGameState_AdvancePastEnd(t *testing.T) {
	gs := NewGameState([]Heading{{Heading: "Only", StoryPart: "One room."}})

	if next := gs.AdvanceSection(); next != nil {
		t.Errorf("Expected nil after advancing the final section, got %+v", next)
	}
	if gs.ActiveSection() != nil {
		t.Error("No section should be active after the final advance")
	}
	if next := gs.AdvanceSection(); next != nil {
		t.Error("Advancing a finished state should be a no-op")
	}
}

func TestApplyCharacterSheet(t *testing.T) {
	p := &Player{ID: "p1", CharacterName: "Korga"}
	sheet := &CharacterSheet{
		Name:           "Korga Ironfist",
		Ancestry:       "Dwarf",
		CharacterClass: "Fighter",
		Level:          2,
		HitPoints:      14,
		AbilityScores: AbilityScores{
			Strength: 16, Dexterity: 10, Constitution: 15,
			Intelligence: 8, Wisdom: 12, Charisma: 9,
		},
		Skills: []string{"Athletics", "Smithing", "Intimidation"},
	}

	p.ApplyCharacterSheet(sheet)

	if p.HP != 14 || p.Strength != 16 || p.Charisma != 9 {
		t.Errorf("Mirrored stats wrong: hp=%d str=%d cha=%d", p.HP, p.Strength, p.Charisma)
	}
	if p.Race != "Dwarf" || p.Class != "Fighter" {
		t.Errorf("Mirrored ancestry/class wrong: %s/%s", p.Race, p.Class)
	}
	if p.CharacterGenerationStatus != CharacterReady {
		t.Errorf("Expected ready status, got %s", p.CharacterGenerationStatus)
	}

	actor, err := p.BuildActor()
	if err != nil {
		t.Fatalf("BuildActor failed: %v", err)
	}
	if v, ok := actor.Attribute("strength"); !ok || v != 16 {
		t.Errorf("Actor strength = %d (ok=%v), want 16", v, ok)
	}
}
