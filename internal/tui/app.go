// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Routes screens through the session gate and hosts child models

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/plumecompta/lettre-cli/internal/client"
	"github.com/plumecompta/lettre-cli/internal/gate"
	"github.com/plumecompta/lettre-cli/internal/session"
	"github.com/plumecompta/lettre-cli/internal/tui/clientmgr"
	"github.com/plumecompta/lettre-cli/internal/tui/debuglog"
	"github.com/plumecompta/lettre-cli/internal/tui/icons"
	"github.com/plumecompta/lettre-cli/internal/tui/login"
	"github.com/plumecompta/lettre-cli/internal/tui/menu"
	"github.com/plumecompta/lettre-cli/internal/tui/styles"
	"github.com/plumecompta/lettre-cli/internal/tui/wizard"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenInit Screen = iota
	ScreenLogin
	ScreenMenu
	ScreenWizard
	ScreenClients
	ScreenUpgrade
)

const minTerminalWidth = 80

// sessionReadyMsg is sent once the initial session verification completes
type sessionReadyMsg struct{}

// loginResultMsg is sent when a login attempt finishes
type loginResultMsg struct {
	err error
}

// logoutDoneMsg is sent when logout finishes
type logoutDoneMsg struct{}

// checkoutMsg is sent when a checkout session was requested
type checkoutMsg struct {
	sessionID string
	err       error
}

// App is the root model for the TUI
type App struct {
	api   *client.Client
	store *session.Store

	screen Screen
	width  int
	height int
	spin   spinner.Model
	notice string

	loginView   *login.Login
	menuView    *menu.Menu
	wizardView  *wizard.Wizard
	clientsView *clientmgr.Manager

	checkoutID   string
	checkoutErr  string
	checkoutBusy bool
}

// New creates the TUI application
func New(api *client.Client, store *session.Store) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)
	return &App{
		api:    api,
		store:  store,
		screen: ScreenInit,
		spin:   sp,
	}
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spin.Tick, a.initSession())
}

// initSession verifies the cached session against the backend. The gate
// holds every screen decision until this completes.
func (a *App) initSession() tea.Cmd {
	return func() tea.Msg {
		a.store.Initialize(context.Background())
		return sessionReadyMsg{}
	}
}

func (a *App) doLogin(msg login.SubmittedMsg) tea.Cmd {
	return func() tea.Msg {
		err := a.store.Login(context.Background(), msg.Username, msg.Password, msg.Remember)
		return loginResultMsg{err: err}
	}
}

func (a *App) doLogout() tea.Cmd {
	return func() tea.Msg {
		a.store.Logout(context.Background())
		return logoutDoneMsg{}
	}
}

func (a *App) doCheckout() tea.Cmd {
	return func() tea.Msg {
		s, err := a.api.CreateCheckoutSession(context.Background())
		if err != nil {
			return checkoutMsg{err: err}
		}
		return checkoutMsg{sessionID: s.SessionID}
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.wizardView != nil {
			a.wizardView.SetWidth(a.width - 4)
		}
		return a.forward(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.updateKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		_, childCmd := a.forward(msg)
		return a, tea.Batch(cmd, childCmd)

	case sessionReadyMsg:
		return a.routeHome()

	case login.SubmittedMsg:
		return a, a.doLogin(msg)

	case login.CancelledMsg:
		return a, tea.Quit

	case loginResultMsg:
		if msg.err != nil {
			debuglog.Error("login", msg.err)
			if a.loginView != nil {
				a.loginView.SetError(msg.err.Error())
			}
			return a, nil
		}
		return a.showMenu()

	case logoutDoneMsg:
		a.notice = ""
		return a.showLogin("")

	case menu.ChoiceMsg:
		return a.handleChoice(msg.Choice)

	case wizard.DoneMsg:
		a.notice = fmt.Sprintf("%s Lettre enregistrée : %s", icons.CheckOK.String(), msg.Path)
		return a.showMenu()

	case wizard.CancelledMsg:
		return a.showMenu()

	case wizard.SessionExpiredMsg:
		return a.showLogin("Session expirée, reconnectez-vous.")

	case clientmgr.BackMsg:
		return a.showMenu()

	case clientmgr.SessionExpiredMsg:
		return a.showLogin("Session expirée, reconnectez-vous.")

	case checkoutMsg:
		a.checkoutBusy = false
		if msg.err != nil {
			a.checkoutErr = msg.err.Error()
			return a, nil
		}
		a.checkoutID = msg.sessionID
		return a, nil
	}

	return a.forward(msg)
}

func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.screen {
	case ScreenInit:
		return a, nil

	case ScreenUpgrade:
		switch msg.String() {
		case "enter":
			if !a.checkoutBusy && a.checkoutID == "" {
				a.checkoutBusy = true
				a.checkoutErr = ""
				return a, tea.Batch(a.spin.Tick, a.doCheckout())
			}
			return a, nil
		case "b", "esc", "q":
			a.checkoutID = ""
			a.checkoutErr = ""
			return a.showMenu()
		}
		return a, nil
	}

	return a.forward(msg)
}

// forward routes a message to the active screen's child model
func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case ScreenLogin:
		if a.loginView != nil {
			a.loginView, cmd = a.loginView.Update(msg)
		}
	case ScreenMenu:
		if a.menuView != nil {
			a.menuView, cmd = a.menuView.Update(msg)
		}
	case ScreenWizard:
		if a.wizardView != nil {
			a.wizardView, cmd = a.wizardView.Update(msg)
		}
	case ScreenClients:
		if a.clientsView != nil {
			a.clientsView, cmd = a.clientsView.Update(msg)
		}
	}
	return a, cmd
}

// routeHome applies the protected gate once session verification is done
func (a *App) routeHome() (tea.Model, tea.Cmd) {
	switch gate.Protected(a.store.State()) {
	case gate.Allow:
		return a.showMenu()
	case gate.Wait:
		return a, nil
	default:
		return a.showLogin("")
	}
}

// handleChoice routes a menu selection, applying the premium gate where
// the destination requires the entitlement flag.
func (a *App) handleChoice(c menu.Choice) (tea.Model, tea.Cmd) {
	switch c {
	case menu.ChoiceNewLetter:
		switch gate.Premium(a.store.State(), a.store.IsPremium()) {
		case gate.Allow:
			return a.showWizard()
		case gate.RedirectUpgrade:
			a.screen = ScreenUpgrade
			return a, nil
		case gate.RedirectLogin:
			return a.showLogin("")
		}
		return a, nil

	case menu.ChoiceClients:
		if gate.Protected(a.store.State()) != gate.Allow {
			return a.showLogin("")
		}
		a.clientsView = clientmgr.New(a.api)
		a.screen = ScreenClients
		return a, a.clientsView.Init()

	case menu.ChoiceLogout:
		return a, a.doLogout()

	case menu.ChoiceQuit:
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) showLogin(errMsg string) (tea.Model, tea.Cmd) {
	a.loginView = login.New()
	if errMsg != "" {
		a.loginView.SetError(errMsg)
	}
	a.screen = ScreenLogin
	a.menuView = nil
	a.wizardView = nil
	a.clientsView = nil
	return a, a.loginView.Init()
}

func (a *App) showMenu() (tea.Model, tea.Cmd) {
	u, _ := a.store.CurrentUser()
	a.menuView = menu.New(u.Username, u.IsPremium)
	a.screen = ScreenMenu
	a.wizardView = nil
	a.clientsView = nil
	return a, nil
}

func (a *App) showWizard() (tea.Model, tea.Cmd) {
	a.notice = ""
	a.wizardView = wizard.New(a.api)
	a.wizardView.SetWidth(a.width - 4)
	a.screen = ScreenWizard
	return a, a.wizardView.Init()
}

// View implements tea.Model
func (a *App) View() string {
	var content string
	switch a.screen {
	case ScreenInit:
		content = a.spin.View() + " Vérification de la session…"
	case ScreenLogin:
		content = a.loginView.View()
	case ScreenMenu:
		content = a.viewMenu()
	case ScreenWizard:
		content = a.wizardView.View()
	case ScreenClients:
		content = a.clientsView.View()
	case ScreenUpgrade:
		content = a.viewUpgrade()
	}
	return a.wrapWithFrame(content)
}

func (a *App) viewMenu() string {
	var sb strings.Builder
	if a.notice != "" {
		sb.WriteString(styles.StatusOK.Render(a.notice))
		sb.WriteString("\n\n")
	}
	if a.menuView != nil {
		sb.WriteString(a.menuView.View())
	}
	return sb.String()
}

func (a *App) viewUpgrade() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Premium.String() + " Offre premium"))
	sb.WriteString("\n")
	sb.WriteString("La génération de lettres de mission est réservée aux comptes premium.\n\n")

	switch {
	case a.checkoutBusy:
		sb.WriteString(a.spin.View() + " Création de la session de paiement…")
	case a.checkoutErr != "":
		sb.WriteString(styles.StatusError.Render(a.checkoutErr))
	case a.checkoutID != "":
		sb.WriteString("Session de paiement créée.\n")
		sb.WriteString("Identifiant : " + styles.ValueStyle.Render(a.checkoutID) + "\n")
		sb.WriteString(styles.Help.Render("Finalisez le paiement dans votre navigateur puis reconnectez-vous."))
	default:
		sb.WriteString(styles.Help.Render("Entrée souscrire  b retour"))
	}
	return sb.String()
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s", icons.App.String(), titleStyle.Render("Lettre de mission"))

	rightText := ""
	if u, ok := a.store.CurrentUser(); ok && a.screen != ScreenLogin && a.screen != ScreenInit {
		rightText = contextStyle.Render(u.Username) + " "
	}

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText)
	fillWidth := width - 4 - leftWidth - rightWidth
	if fillWidth < 0 {
		fillWidth = 0
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// renderFooter creates the footer with keyboard shortcuts for the screen
func (a *App) renderFooter() string {
	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	var shortcuts []string
	switch a.screen {
	case ScreenInit:
		shortcuts = []string{"ctrl+c Quitter"}
	case ScreenLogin:
		shortcuts = []string{"Tab Champ suivant", "Entrée Valider", "Esc Quitter"}
	case ScreenMenu:
		shortcuts = []string{"↑↓ Naviguer", "Entrée Sélectionner", "q Quitter"}
	case ScreenWizard:
		shortcuts = []string{"Entrée Confirmer", "ctrl+n/ctrl+b Étapes", "Esc Annuler"}
	case ScreenClients:
		shortcuts = []string{"↑↓ Naviguer", "n Nouveau", "b Retour"}
	case ScreenUpgrade:
		shortcuts = []string{"Entrée Souscrire", "b Retour"}
	}

	var styled []string
	var plain []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styled = append(styled, s)
		}
		plain = append(plain, s)
	}

	leftText := " " + strings.Join(styled, "  ")
	leftPlain := " " + strings.Join(plain, "  ")

	fillWidth := width - 4 - lipgloss.Width(leftPlain)
	if fillWidth < 0 {
		fillWidth = 0
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + "─╯"
	return borderStyle.Render(footer)
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder
	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())
	return sb.String()
}

// Run starts the TUI
func Run(api *client.Client, store *session.Store) error {
	app := New(api, store)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
