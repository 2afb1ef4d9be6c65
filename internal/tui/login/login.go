// ABOUTME: Login screen as a bubbletea model wrapping a huh form
// ABOUTME: Collects credentials and the remember-me flag, shows inline errors

package login

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/plumecompta/lettre-cli/internal/tui/styles"
)

// SubmittedMsg is sent when the user confirms the login form
type SubmittedMsg struct {
	Username string
	Password string
	Remember bool
}

// CancelledMsg is sent when the user backs out of the login screen
type CancelledMsg struct{}

// Login is the login screen model
type Login struct {
	form     *huh.Form
	username string
	password string
	remember bool
	errMsg   string
}

// New creates a fresh login form
func New() *Login {
	l := &Login{}
	l.form = l.createForm()
	return l
}

func (l *Login) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Identifiant").
				Placeholder("nom d'utilisateur").
				CharLimit(64).
				Value(&l.username),
			huh.NewInput().
				Title("Mot de passe").
				EchoMode(huh.EchoModePassword).
				CharLimit(128).
				Value(&l.password),
			huh.NewConfirm().
				Title("Rester connecté ?").
				Affirmative("Oui").
				Negative("Non").
				Value(&l.remember),
		).Title("Connexion").
			Description("Accédez à votre espace cabinet"),
	).WithTheme(styles.FormTheme())
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return l.form.Init()
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (*Login, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return l, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		submitted := SubmittedMsg{
			Username: strings.TrimSpace(l.username),
			Password: l.password,
			Remember: l.remember,
		}
		// Rebuild so a failed attempt can be retried with the form live
		l.password = ""
		l.form = l.createForm()
		return l, tea.Batch(l.form.Init(), func() tea.Msg { return submitted })
	}

	return l, cmd
}

// SetError records a login failure message shown above the form
func (l *Login) SetError(msg string) {
	l.errMsg = msg
}

// View renders the login screen
func (l *Login) View() string {
	var sb strings.Builder
	if l.errMsg != "" {
		sb.WriteString(styles.StatusError.Render(l.errMsg))
		sb.WriteString("\n\n")
	}
	sb.WriteString(l.form.View())
	return sb.String()
}
