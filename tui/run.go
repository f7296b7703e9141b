package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run launches the wizard and blocks until the user quits.
func Run(catalogPath, outPath string) error {
	program := tea.NewProgram(NewModel(catalogPath, outPath))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}
	return nil
}
