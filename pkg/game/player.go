package game

// CharacterGenerationStatus tracks a player's character sheet
// generation lifecycle.
type CharacterGenerationStatus string

const (
	CharacterIdle       CharacterGenerationStatus = "idle"
	CharacterGenerating CharacterGenerationStatus = "generating"
	CharacterReady      CharacterGenerationStatus = "ready"
	CharacterError      CharacterGenerationStatus = "error"
)

// Player is one participant in a game. The flat stat fields mirror
// the character sheet for quick access in grid and combat code.
type Player struct {
	ID            string `json:"id"`
	CharacterName string `json:"character_name"`
	IsReady       bool   `json:"is_ready"`
	IsHost        bool   `json:"is_host,omitempty"`

	CharacterBackground       string                    `json:"character_background,omitempty"`
	CharacterGenerationStatus CharacterGenerationStatus `json:"character_generation_status,omitempty"`
	CharacterGenerationError  string                    `json:"character_generation_error,omitempty"`
	CharacterSheet            *CharacterSheet           `json:"character_sheet,omitempty"`

	// Derived from the sheet.
	Race         string   `json:"race,omitempty"`
	Class        string   `json:"class,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	HP           int      `json:"hp,omitempty"`
	Strength     int      `json:"strength,omitempty"`
	Dexterity    int      `json:"dexterity,omitempty"`
	Constitution int      `json:"constitution,omitempty"`
	Intelligence int      `json:"intelligence,omitempty"`
	Wisdom       int      `json:"wisdom,omitempty"`
	Charisma     int      `json:"charisma,omitempty"`
}

// ApplyCharacterSheet attaches a generated sheet and mirrors its
// stats onto the player record.
func (p *Player) ApplyCharacterSheet(sheet *CharacterSheet) {
	p.CharacterSheet = sheet
	p.HP = sheet.HitPoints
	p.Strength = sheet.AbilityScores.Strength
	p.Dexterity = sheet.AbilityScores.Dexterity
	p.Constitution = sheet.AbilityScores.Constitution
	p.Intelligence = sheet.AbilityScores.Intelligence
	p.Wisdom = sheet.AbilityScores.Wisdom
	p.Charisma = sheet.AbilityScores.Charisma
	p.Skills = sheet.Skills
	p.Race = sheet.Ancestry
	p.Class = sheet.CharacterClass
	p.CharacterGenerationStatus = CharacterReady
	p.CharacterGenerationError = ""
}
