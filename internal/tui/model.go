// Package tui holds the terminal presentation: the status-line printer and the
// per-branch confirmation prompt shown with --confirm.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrAborted is returned when the user quits the prompt instead of answering it.
var ErrAborted = errors.New("aborted by user")

var (
	confirmPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	branchStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	helpStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warningStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("202"))
)

type keyMap struct {
	Yes  key.Binding
	No   key.Binding
	Quit key.Binding
}

var keys = keyMap{
	Yes:  key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "delete")),
	No:   key.NewBinding(key.WithKeys("n", "N", "enter", "esc"), key.WithHelp("n/enter", "keep")),
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "stop sweeping")),
}

// Model asks whether a single stale branch should be deleted.
type Model struct {
	Branch  string
	Remote  string
	AgeDays int

	Answered bool
	Delete   bool
	Aborted  bool
}

// NewModel creates the prompt for one branch.
func NewModel(branch, remote string, ageDays int) Model {
	return Model{Branch: branch, Remote: remote, AgeDays: ageDays}
}

// Init is the first command that runs when the Bubble Tea program starts.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses; any answer ends the program.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Quit):
		m.Aborted = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Yes):
		m.Answered = true
		m.Delete = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.No):
		m.Answered = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the prompt, or nothing once it has been answered.
func (m Model) View() string {
	if m.Answered || m.Aborted {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Delete %s locally and on %s? ", branchStyle.Render(m.Branch), m.Remote)
	b.WriteString(warningStyle.Render(fmt.Sprintf("(last commit %d days ago)", m.AgeDays)))
	b.WriteString("\n" + confirmPromptStyle.Render("Proceed? (y/N) "))
	b.WriteString(helpStyle.Render(fmt.Sprintf("%s: %s • %s: %s • %s: %s",
		keys.Yes.Help().Key, keys.Yes.Help().Desc,
		keys.No.Help().Key, keys.No.Help().Desc,
		keys.Quit.Help().Key, keys.Quit.Help().Desc)))
	return b.String()
}

// Confirmer runs the prompt on a terminal.
type Confirmer struct {
	In  io.Reader
	Out io.Writer
}

// Confirm blocks until the user answers for branch. It returns ErrAborted if the user
// quits the prompt.
func (c Confirmer) Confirm(ctx context.Context, branch, remote string, ageDays int) (bool, error) {
	p := tea.NewProgram(NewModel(branch, remote, ageDays),
		tea.WithContext(ctx),
		tea.WithInput(c.In),
		tea.WithOutput(c.Out),
	)

	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return false, fmt.Errorf("confirmation prompt: unexpected model %T", final)
	}
	if m.Aborted {
		return false, ErrAborted
	}
	return m.Delete, nil
}
