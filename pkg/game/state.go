package game

import (
	"github.com/dungeondj/dungeon-dj/pkg/chat"
)

// SectionStatus is the narration state of one story section.
type SectionStatus string

const (
	SectionPending       SectionStatus = "pending"
	SectionBeingNarrated SectionStatus = "being_narrated"
	SectionCompleted     SectionStatus = "has_completed"
)

// StorySection is one narrated chapter, corresponding 1:1 with a room
// in the generated plan. Interactions accumulate the conversational
// turns taken while the section is active, seeded with the section's
// own narration as a system turn.
type StorySection struct {
	ID           int                `json:"id"`
	Heading      string             `json:"heading"`
	StoryPart    string             `json:"story_part"`
	Status       SectionStatus      `json:"section_status"`
	Interactions []chat.ChatMessage `json:"interactions"`
}

// Heading is one heading/story-part pair returned by story
// segmentation.
type Heading struct {
	Heading   string `json:"heading"`
	StoryPart string `json:"story_part"`
}

// GameState is the narration progress of a game. Sections advance
// strictly forward: pending -> being_narrated -> has_completed, with
// at most one section being narrated at any time.
type GameState struct {
	Sections []StorySection `json:"story_sections"`
}

// NewGameState builds narration state from segmented headings.
// Section 0 starts being narrated, with its story part seeded as the
// first system turn of its interaction log.
func NewGameState(headings []Heading) *GameState {
	sections := make([]StorySection, 0, len(headings))
	for i, h := range headings {
		s := StorySection{
			ID:           i,
			Heading:      h.Heading,
			StoryPart:    h.StoryPart,
			Status:       SectionPending,
			Interactions: []chat.ChatMessage{},
		}
		if i == 0 {
			s.Status = SectionBeingNarrated
			s.Interactions = []chat.ChatMessage{
				{Role: chat.ChatRoleSystem, Content: h.StoryPart},
			}
		}
		sections = append(sections, s)
	}
	return &GameState{Sections: sections}
}

// ActiveSection returns the section currently being narrated, or nil
// when every section has completed.
func (gs *GameState) ActiveSection() *StorySection {
	for i := range gs.Sections {
		if gs.Sections[i].Status == SectionBeingNarrated {
			return &gs.Sections[i]
		}
	}
	return nil
}

// AdvanceSection completes the active section and begins narrating
// the next pending one. The new active section's story part is seeded
// into its interaction log. Returns the new active section, or nil
// when the completed section was the last one.
func (gs *GameState) AdvanceSection() *StorySection {
	current := gs.ActiveSection()
	if current == nil {
		return nil
	}
	current.Status = SectionCompleted

	for i := range gs.Sections {
		if gs.Sections[i].Status == SectionPending {
			next := &gs.Sections[i]
			next.Status = SectionBeingNarrated
			next.Interactions = append(next.Interactions, chat.ChatMessage{
				Role:    chat.ChatRoleSystem,
				Content: next.StoryPart,
			})
			return next
		}
	}
	return nil
}

// HeadingsSchema constrains the story segmentation call.
func HeadingsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"headings": map[string]interface{}{
				"type":        "array",
				"description": "Story headings and their parts, one per room, in room order",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"heading": map[string]interface{}{
							"type":        "string",
							"description": "Heading of the story part",
						},
						"story_part": map[string]interface{}{
							"type":        "string",
							"description": "Story part corresponding to the heading",
						},
					},
					"required": []string{"heading", "story_part"},
				},
			},
		},
		"required": []string{"headings"},
	}
}
