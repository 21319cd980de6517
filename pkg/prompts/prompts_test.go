package prompts

import (
	"strings"
	"testing"

	"github.com/dungeondj/dungeon-dj/pkg/game"
)

func TestStoryUserPrompt(t *testing.T) {
	world := game.WorldData{
		Genre:             "Dark Fantasy",
		TeamBackground:    "Disgraced royal guards",
		StoryGoal:         "Recover the stolen crown",
		StoryIdea:         "A heist gone wrong",
		ActionsPerSession: "6",
	}

	prompt := StoryUserPrompt(world)

	for _, want := range []string{
		"<genre>Dark Fantasy</genre>",
		"<team-background>Disgraced royal guards</team-background>",
		"<story-goal>Recover the stolen crown</story-goal>",
		"<story-idea>A heist gone wrong</story-idea>",
		"<actions-per-session>6</actions-per-session>",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestInteractionUserPrompt(t *testing.T) {
	prompt := InteractionUserPrompt("The vault door looms.", "I pick the lock")

	if !strings.Contains(prompt, "<current-part>The vault door looms.</current-part>") {
		t.Errorf("Missing story part: %s", prompt)
	}
	if !strings.Contains(prompt, "<player-action>I pick the lock</player-action>") {
		t.Errorf("Missing player action: %s", prompt)
	}
}

func TestCharacterUserPrompt(t *testing.T) {
	g := &game.Game{
		WorldData: game.WorldData{
			Genre:              "Sci-fi",
			FacilitatorPersona: "A sardonic ship AI",
		},
		Story: "The colony ship drifts.",
	}
	p := &game.Player{CharacterName: "Vex"}

	prompt := CharacterUserPrompt(g, p, "Former smuggler looking for redemption")

	for _, want := range []string{
		"<genre>Sci-fi</genre>",
		"<facilitator-persona>A sardonic ship AI</facilitator-persona>",
		"<story-context>The colony ship drifts.</story-context>",
		"<preferred-name>Vex</preferred-name>",
		"<background>Former smuggler looking for redemption</background>",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q", want)
		}
	}
}

func TestSystemPromptsMentionTools(t *testing.T) {
	// The interaction prompt must reference every tool the
	// facilitator exposes, or the model will never call them.
	for _, tool := range []string{
		"finish_current_story_section",
		"provide_one_equipment_from_current_room",
		"move_player",
	} {
		if !strings.Contains(InteractionSystemPrompt, tool) {
			t.Errorf("InteractionSystemPrompt does not mention %s", tool)
		}
	}
}
