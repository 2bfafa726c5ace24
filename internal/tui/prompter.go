package tui

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Terminal shows dialogs on the controlling terminal. When it is not
// interactive, Confirm returns AssumeYes without asking and ChooseFolder
// reports a cancel.
type Terminal struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool
	AssumeYes   bool
	Width       int
}

// NewTerminal returns a prompter on stdin/stderr, interactive only when
// both are terminals.
func NewTerminal(assumeYes bool) *Terminal {
	return &Terminal{
		In:          os.Stdin,
		Out:         os.Stderr,
		Interactive: isTerminal(os.Stdin) && isTerminal(os.Stderr),
		AssumeYes:   assumeYes,
		Width:       80,
	}
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (t *Terminal) Alert(msg string) {
	fmt.Fprintln(t.Out, alertStyle.Render(msg))
}

func (t *Terminal) Confirm(msg string) bool {
	if t.AssumeYes || !t.Interactive {
		return t.AssumeYes
	}
	final, err := t.run(newConfirmModel(msg))
	if err != nil {
		return false
	}
	m, ok := final.(confirmModel)
	return ok && m.answered && m.yes
}

func (t *Terminal) ChooseFolder(title, initial string) (string, bool) {
	if !t.Interactive {
		return "", false
	}
	final, err := t.run(newFolderModel(title, initial, t.Width))
	if err != nil {
		return "", false
	}
	m, ok := final.(folderModel)
	if !ok || !m.accepted {
		return "", false
	}
	return m.Value(), true
}

func (t *Terminal) run(model tea.Model) (tea.Model, error) {
	program := tea.NewProgram(model, tea.WithInput(t.In), tea.WithOutput(t.Out))
	return program.Run()
}

var alertStyle = lipgloss.NewStyle().
	Foreground(ColorWarn).
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(ColorWarn).
	Padding(0, 1)
