package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/dungeondj/dungeon-dj/pkg/game"
	"github.com/dungeondj/dungeon-dj/pkg/story"
)

const (
	AgentName       = "Facilitator"
	PlaceHolderText = "Describe what you do..."
)

type entryKind int

const (
	entryNarration entryKind = iota
	entryPlayer
	entrySystem
	entryError
)

type logEntry struct {
	kind entryKind
	text string
}

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config       *ConsoleConfig
	client       *http.Client
	game         *game.Game
	playerID     string
	playerReady  bool
	history      []logEntry
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	err          error
	loading      bool

	// Quit confirmation state
	showQuitModal bool

	// Progress bar state
	progressTick int
}

type narrationMsg struct {
	response *narrationResponse
	err      error
}

type gameMsg struct {
	game *game.Game
	err  error
}

type sceneMsg struct {
	response *sceneResponse
	err      error
}

type copiedMsg struct {
	err error
}

type progressTickMsg struct{}

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, g *game.Game, playerID string) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		config:       cfg,
		client:       client,
		game:         g,
		playerID:     playerID,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
		history: []logEntry{
			{kind: entrySystem, text: "Share the room code with your group, then /ready up. The host runs /scene to build the world and /listen starts the narration."},
		},
	}
}

func (m *ConsoleUI) writeMetadata() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("DUNGEON DJ") + "\n\n")

	content.WriteString("Room code:\n")
	content.WriteString(m.game.RoomCode + "\n\n")

	content.WriteString("Status:\n")
	content.WriteString(string(m.game.Status) + "\n\n")

	content.WriteString("Players:\n")
	if len(m.game.Players) == 0 {
		content.WriteString("None yet\n")
	}
	for _, p := range m.game.Players {
		marker := " "
		if p.IsReady {
			marker = "✓"
		}
		name := p.CharacterName
		if p.IsHost {
			name += " (host)"
		}
		content.WriteString(fmt.Sprintf("%s %s\n", marker, name))
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• /copy: Copy room code\n")
	content.WriteString("• /ready: Toggle ready\n")
	content.WriteString("• /scene: Build the world\n")
	content.WriteString("• /listen: Hear narration\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• Ctrl+C: Quit\n")

	return content.String()
}

// writeChatContent rebuilds the chat log for the current viewport
// width.
func (m *ConsoleUI) writeChatContent() {
	chatWidth := m.chatViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render("DUNGEON DJ") + "\n\n")
	content.WriteString("Type what your character does and press Enter.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(chatWidth-6, 1))) + "\n\n")

	for _, entry := range m.history {
		switch entry.kind {
		case entryNarration:
			content.WriteString(formatNarration(entry.text, chatWidth) + "\n\n")
		case entryPlayer:
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(entry.text, chatWidth-6) + "\n\n")
		case entrySystem:
			content.WriteString(systemStyle.Render(wordwrap.String(entry.text, chatWidth)) + "\n\n")
		case entryError:
			content.WriteString(errorStyle.Render("Error: "+entry.text) + "\n\n")
		}
	}

	if m.loading {
		content.WriteString(m.renderProgressBar())
	}

	m.chatViewport.SetContent(content.String())
	m.chatViewport.GotoBottom()
}

// formatNarration prefixes the facilitator name and puts each
// sentence on its own line for a read-aloud pace.
func formatNarration(text string, width int) string {
	sentences := story.SplitIntoSentences(text)
	wrapped := make([]string, 0, len(sentences))
	for _, s := range sentences {
		wrapped = append(wrapped, wordwrap.String(s, width-2))
	}
	return narratorStyle.Render(AgentName+": ") + strings.Join(wrapped, "\n")
}

func (m ConsoleUI) Init() tea.Cmd {
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		m.textarea, tiCmd = m.textarea.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - chatWidth - 6

		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(chatWidth - 4)

		m.ready = true
		m.writeChatContent()
		m.metaViewport.SetContent(m.writeMetadata())

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}

			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			if strings.HasPrefix(input, "/") {
				return m.handleCommand(input)
			}

			m.textarea.Reset()
			m.loading = true
			m.progressTick = 0
			m.history = append(m.history, logEntry{kind: entryPlayer, text: input})
			m.writeChatContent()

			return m, tea.Batch(m.sendNarration(input), progressTick())
		}

	case narrationMsg:
		m.loading = false
		if msg.err != nil {
			m.history = append(m.history, logEntry{kind: entryError, text: msg.err.Error()})
		} else {
			m.history = append(m.history, logEntry{kind: entryNarration, text: msg.response.Text})
		}
		m.writeChatContent()
		return m, m.refreshGame()

	case sceneMsg:
		m.loading = false
		if msg.err != nil {
			m.history = append(m.history, logEntry{kind: entryError, text: msg.err.Error()})
		} else {
			text := "The world is ready."
			if msg.response.Introduction != "" {
				text = msg.response.Introduction
			}
			m.history = append(m.history, logEntry{kind: entryNarration, text: text})
		}
		m.writeChatContent()
		return m, m.refreshGame()

	case gameMsg:
		m.loading = false
		if msg.err == nil && msg.game != nil {
			m.game = msg.game
			if p := m.game.FindPlayer(m.playerID); p != nil {
				m.playerReady = p.IsReady
			}
			m.metaViewport.SetContent(m.writeMetadata())
		}
		m.writeChatContent()

	case copiedMsg:
		if msg.err != nil {
			m.history = append(m.history, logEntry{kind: entryError, text: "Could not copy room code: " + msg.err.Error()})
		} else {
			m.history = append(m.history, logEntry{kind: entrySystem, text: "Room code " + m.game.RoomCode + " copied to clipboard."})
		}
		m.writeChatContent()

	case progressTickMsg:
		if m.loading {
			m.progressTick++
			m.writeChatContent()
			return m, progressTick()
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

func (m ConsoleUI) handleCommand(input string) (tea.Model, tea.Cmd) {
	cmd := strings.ToLower(strings.TrimSpace(input))
	m.textarea.Reset()

	switch cmd {
	case "/help":
		m.history = append(m.history, logEntry{kind: entrySystem, text: `Commands:
/copy - Copy the room code to the clipboard
/ready - Toggle your ready state
/scene - Generate the world (host, once everyone is ready)
/listen - Replay the current narration
/help - Show this help
Type anything else to act in the story.`})
		m.writeChatContent()
		return m, nil

	case "/copy":
		return m, m.copyRoomCode()

	case "/ready":
		m.loading = true
		m.progressTick = 0
		return m, tea.Batch(m.toggleReady(), progressTick())

	case "/scene":
		m.loading = true
		m.progressTick = 0
		m.history = append(m.history, logEntry{kind: entrySystem, text: "Building your world. This can take a minute..."})
		m.writeChatContent()
		return m, tea.Batch(m.generateScene(), progressTick())

	case "/listen":
		m.loading = true
		m.progressTick = 0
		return m, tea.Batch(m.sendNarration(""), progressTick())

	default:
		m.history = append(m.history, logEntry{kind: entryError, text: "Unknown command: " + cmd})
		m.writeChatContent()
		return m, nil
	}
}

func (m ConsoleUI) sendNarration(playerAction string) tea.Cmd {
	return func() tea.Msg {
		resp, err := narrate(m.client, m.config.APIBaseURL, m.game.RoomCode, playerAction)
		return narrationMsg{resp, err}
	}
}

func (m ConsoleUI) generateScene() tea.Cmd {
	return func() tea.Msg {
		resp, err := generateScene(m.client, m.config.APIBaseURL, m.game.RoomCode)
		return sceneMsg{resp, err}
	}
}

func (m ConsoleUI) toggleReady() tea.Cmd {
	ready := !m.playerReady
	return func() tea.Msg {
		g, err := setReady(m.client, m.config.APIBaseURL, m.game.RoomCode, m.playerID, ready)
		if err != nil {
			return narrationMsg{nil, err}
		}
		return gameMsg{g, nil}
	}
}

func (m ConsoleUI) copyRoomCode() tea.Cmd {
	code := m.game.RoomCode
	return func() tea.Msg {
		return copiedMsg{clipboard.WriteAll(code)}
	}
}

func (m ConsoleUI) refreshGame() tea.Cmd {
	return func() tea.Msg {
		g, err := getGame(m.client, m.config.APIBaseURL, m.game.RoomCode)
		return gameMsg{g, err}
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Leave Game?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave the session?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(chatWidth-4, 1))),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}

// renderProgressBar draws the animated loading bar under the chat log.
func (m ConsoleUI) renderProgressBar() string {
	usable := m.chatViewport.Width - 6
	if usable <= 0 {
		usable = 30
	}
	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}
