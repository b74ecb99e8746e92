package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/herbhall/topomines/internal/minesweeper"
)

func main() {
	p := tea.NewProgram(
		minesweeper.New(),
		tea.WithAltScreen(),
		tea.WithFPS(30),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
