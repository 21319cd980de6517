package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dungeondj/dungeon-dj/pkg/game"
)

type ConsoleConfig struct {
	APIBaseURL string
	Timeout    time.Duration
}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		// World generation holds the request open while the model works.
		Timeout: 5 * time.Minute,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to API. Please ensure the API is running.\nTry: docker-compose up -d\n")
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("Dungeon DJ")
	fmt.Println("  1 - Create a new game")
	fmt.Println("  2 - Join an existing game")
	fmt.Print("\nSelect an option: ")

	var choice int
	if _, err := fmt.Scanf("%d\n", &choice); err != nil || choice < 1 || choice > 2 {
		fmt.Fprintf(os.Stderr, "Invalid selection\n")
		os.Exit(1)
	}

	var roomCode string
	if choice == 1 {
		g, err := createGame(client, cfg.APIBaseURL, promptWorldData(reader))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create game: %v\n", err)
			os.Exit(1)
		}
		roomCode = g.RoomCode
		fmt.Printf("\nGame created. Room code: %s\n", roomCode)
	} else {
		roomCode = strings.ToUpper(prompt(reader, "Room code: "))
	}

	characterName := prompt(reader, "Character name: ")
	playerID, g, err := joinGame(client, cfg.APIBaseURL, roomCode, characterName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to join game: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(cfg, client, g, playerID),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func promptWorldData(reader *bufio.Reader) game.WorldData {
	fmt.Println("\nDescribe your world:")
	return game.WorldData{
		Genre:              prompt(reader, "  Genre: "),
		TeamBackground:     prompt(reader, "  Team background: "),
		StoryGoal:          prompt(reader, "  Story goal: "),
		StoryIdea:          prompt(reader, "  Story idea (optional): "),
		FacilitatorPersona: prompt(reader, "  Facilitator persona (optional): "),
		ActionsPerSession:  prompt(reader, "  Actions per session (optional): "),
	}
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
