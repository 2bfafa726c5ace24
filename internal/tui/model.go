package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmModel asks a yes/no question. Enter accepts the highlighted answer.
type confirmModel struct {
	question string
	yes      bool
	answered bool
}

func newConfirmModel(question string) confirmModel {
	return confirmModel{question: question}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.yes, m.answered = true, true
		return m, tea.Quit
	case "n", "N", "esc", "ctrl+c", "q":
		m.yes, m.answered = false, true
		return m, tea.Quit
	case "left", "right", "tab", "h", "l":
		m.yes = !m.yes
	case "enter":
		m.answered = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.answered {
		return ""
	}
	yes, no := buttonStyle.Render("Yes"), activeButtonStyle.Render("No")
	if m.yes {
		yes, no = activeButtonStyle.Render("Yes"), buttonStyle.Render("No")
	}
	return strings.Join([]string{
		questionStyle.Render(m.question),
		yes + " " + no,
		dimStyle.Render("y/n · ←/→ to switch · enter to confirm"),
	}, "\n") + "\n"
}

// folderModel reads a directory path. Enter accepts, esc cancels.
type folderModel struct {
	title    string
	input    textinput.Model
	problem  string
	accepted bool
	done     bool
}

func newFolderModel(title, initial string, width int) folderModel {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 4096
	input.Width = clampInt(width-8, 20, 120)
	input.SetValue(initial)
	input.CursorEnd()
	input.Focus()
	return folderModel{title: title, input: input}
}

func (m folderModel) Init() tea.Cmd { return textinput.Blink }

func (m folderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			m.done = true
			return m, tea.Quit
		case "enter":
			dir := m.Value()
			if dir == "" {
				m.problem = "enter a folder path"
				return m, nil
			}
			if info, err := os.Stat(dir); err == nil && !info.IsDir() {
				m.problem = "not a folder: " + TruncatePath(dir)
				return m, nil
			}
			m.accepted, m.done = true, true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.input.Width = clampInt(msg.Width-8, 20, 120)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.problem = ""
	return m, cmd
}

// Value is the entered path with surrounding blanks removed.
func (m folderModel) Value() string { return strings.TrimSpace(m.input.Value()) }

func (m folderModel) View() string {
	if m.done {
		return ""
	}
	lines := []string{titleStyle.Render(m.title), m.input.View()}
	if m.problem != "" {
		lines = append(lines, errorStyle.Render(m.problem))
	}
	lines = append(lines, dimStyle.Render("enter to export here · esc to cancel"))
	return strings.Join(lines, "\n") + "\n"
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var (
	titleStyle        = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	questionStyle     = lipgloss.NewStyle().Foreground(ColorInk)
	buttonStyle       = lipgloss.NewStyle().Foreground(ColorDim).Padding(0, 1)
	activeButtonStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorInk).Background(ColorAccentAlt).Padding(0, 1)
	labelStyle        = lipgloss.NewStyle().Foreground(ColorInk)
	dimStyle          = lipgloss.NewStyle().Foreground(ColorDim)
	errorStyle        = lipgloss.NewStyle().Foreground(ColorError)
	warnStyle         = lipgloss.NewStyle().Foreground(ColorWarn)
	okStyle           = lipgloss.NewStyle().Foreground(ColorSuccess)
)
