// ABOUTME: Dashboard menu shown after a session is confirmed
// ABOUTME: Routes the user to the wizard, the client roster, or logout

package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/plumecompta/lettre-cli/internal/tui/icons"
	"github.com/plumecompta/lettre-cli/internal/tui/styles"
)

// Choice is a menu destination
type Choice int

const (
	ChoiceNewLetter Choice = iota
	ChoiceClients
	ChoiceLogout
	ChoiceQuit
)

// ChoiceMsg is sent when the user confirms a menu entry
type ChoiceMsg struct {
	Choice Choice
}

type entry struct {
	icon  icons.Icon
	label string
	value Choice
}

// Menu is the dashboard menu model
type Menu struct {
	username string
	premium  bool
	entries  []entry
	cursor   int
}

// New creates the menu for the given user
func New(username string, premium bool) *Menu {
	return &Menu{
		username: username,
		premium:  premium,
		entries: []entry{
			{icons.Wizard, "Nouvelle lettre de mission", ChoiceNewLetter},
			{icons.Person, "Gérer les clients", ChoiceClients},
			{icons.Back, "Se déconnecter", ChoiceLogout},
			{icons.Quit, "Quitter", ChoiceQuit},
		},
	}
}

// Update handles keyboard input
func (m *Menu) Update(msg tea.Msg) (*Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter":
		choice := m.entries[m.cursor].value
		return m, func() tea.Msg { return ChoiceMsg{Choice: choice} }
	case "q":
		return m, func() tea.Msg { return ChoiceMsg{Choice: ChoiceQuit} }
	}
	return m, nil
}

// View renders the menu
func (m *Menu) View() string {
	var sb strings.Builder

	greeting := fmt.Sprintf("Connecté en tant que %s", styles.ValueStyle.Render(m.username))
	if m.premium {
		greeting += " " + styles.StatusOK.Render(icons.Premium.String()+" premium")
	}
	sb.WriteString(styles.Subtitle.Render(greeting))
	sb.WriteString("\n\n")

	for i, e := range m.entries {
		line := fmt.Sprintf("%s %s", e.icon.String(), e.label)
		if e.value == ChoiceNewLetter && !m.premium {
			line += " " + styles.BadgeEmpty.Render(icons.Lock.String())
		}
		if i == m.cursor {
			sb.WriteString(lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Cursor returns the highlighted entry index
func (m *Menu) Cursor() int {
	return m.cursor
}
