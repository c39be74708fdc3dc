package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run 封装 Bubble Tea 入口，阻塞直到用户退出。
func Run(opts Options) error {
	if opts.Panel == nil {
		return errors.New("tui: panel is required")
	}
	program := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
