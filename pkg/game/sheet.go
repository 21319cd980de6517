package game

// AbilityScores are the six core ability scores, each 3-18.
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// ToAttributes converts the scores to a map for d20.Actor compatibility.
func (s *AbilityScores) ToAttributes() map[string]int {
	return map[string]int{
		"strength":     s.Strength,
		"dexterity":    s.Dexterity,
		"constitution": s.Constitution,
		"intelligence": s.Intelligence,
		"wisdom":       s.Wisdom,
		"charisma":     s.Charisma,
	}
}

// CharacterSheet is the structured result of character generation.
// Immutable once generated; a player regenerates by resubmitting a
// background.
type CharacterSheet struct {
	Name              string        `json:"name"`
	Ancestry          string        `json:"ancestry"`
	CharacterClass    string        `json:"character_class"`
	Level             int           `json:"level"` // 1-5
	HitPoints         int           `json:"hit_points"`
	Alignment         string        `json:"alignment"`
	BackgroundSummary string        `json:"background_summary"`
	AbilityScores     AbilityScores `json:"ability_scores"`
	CombatStyle       string        `json:"combat_style"`
	Skills            []string      `json:"skills"`
	Equipment         []string      `json:"equipment"`
	PersonalityTraits []string      `json:"personality_traits"`
	SpecialAbilities  []string      `json:"special_abilities"`
}

func abilityScoreSchema() map[string]interface{} {
	return map[string]interface{}{"type": "integer", "minimum": 3, "maximum": 18}
}

// SheetSchema is the JSON schema constraining character sheet
// generation. Ranges keep the result playable at the table.
func SheetSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":        "string",
				"description": "In-world character name ready to use at the table",
			},
			"ancestry": map[string]interface{}{
				"type":        "string",
				"description": "Ancestry/species such as Human, Elf, Tiefling",
			},
			"character_class": map[string]interface{}{
				"type":        "string",
				"description": "Adventuring class archetype such as Fighter or Wizard",
			},
			"level": map[string]interface{}{
				"type": "integer", "minimum": 1, "maximum": 5,
				"description": "Character level (1-5)",
			},
			"hit_points": map[string]interface{}{
				"type": "integer", "minimum": 4, "maximum": 30,
				"description": "Recommended starting hit points",
			},
			"alignment": map[string]interface{}{
				"type":        "string",
				"description": "Short description of alignment or ethos",
			},
			"background_summary": map[string]interface{}{
				"type":        "string",
				"description": "3-4 sentence summary of who they are and motivations",
			},
			"ability_scores": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"strength":     abilityScoreSchema(),
					"dexterity":    abilityScoreSchema(),
					"constitution": abilityScoreSchema(),
					"intelligence": abilityScoreSchema(),
					"wisdom":       abilityScoreSchema(),
					"charisma":     abilityScoreSchema(),
				},
				"required": []string{"strength", "dexterity", "constitution", "intelligence", "wisdom", "charisma"},
			},
			"combat_style": map[string]interface{}{
				"type":        "string",
				"description": "Sentence describing how they approach combat encounters",
			},
			"skills": map[string]interface{}{
				"type": "array", "minItems": 3, "maxItems": 8,
				"items": map[string]interface{}{"type": "string"},
			},
			"equipment": map[string]interface{}{
				"type": "array", "minItems": 3, "maxItems": 10,
				"items": map[string]interface{}{"type": "string"},
			},
			"personality_traits": map[string]interface{}{
				"type": "array", "minItems": 2, "maxItems": 5,
				"items": map[string]interface{}{"type": "string"},
			},
			"special_abilities": map[string]interface{}{
				"type": "array", "minItems": 2, "maxItems": 6,
				"items": map[string]interface{}{"type": "string"},
			},
		},
		"required": []string{
			"name", "ancestry", "character_class", "level", "hit_points",
			"alignment", "background_summary", "ability_scores", "combat_style",
			"skills", "equipment", "personality_traits", "special_abilities",
		},
	}
}
