// ABOUTME: Client roster screen: list, detail, delete, and validated creation
// ABOUTME: Incomplete optional fields route through an explicit confirm state

package clientmgr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/plumecompta/lettre-cli/internal/client"
	"github.com/plumecompta/lettre-cli/internal/draft"
	"github.com/plumecompta/lettre-cli/internal/tui/debuglog"
	"github.com/plumecompta/lettre-cli/internal/tui/icons"
	"github.com/plumecompta/lettre-cli/internal/tui/styles"
)

// BackMsg is sent when the user leaves the roster screen
type BackMsg struct{}

// SessionExpiredMsg is sent when a roster call came back 401
type SessionExpiredMsg struct{}

type state int

const (
	stateLoading state = iota
	stateList
	stateDetail
	stateCreating
	stateConfirming
	stateConfirmDelete
	stateSaving
)

type rosterMsg struct {
	clients []client.ClientRecord
	err     error
}

type savedMsg struct {
	err error
}

type deletedMsg struct {
	err error
}

// Manager is the roster screen model
type Manager struct {
	api  *client.Client
	spin spinner.Model

	state   state
	roster  []client.ClientRecord
	cursor  int
	errMsg  string
	notice  string
	missing []string

	form    *huh.Form
	confirm bool

	// Creation form values
	denomination, legalForm, representative, taxRegime string
	siren, address, postalCode, city                   string
	fyStart, fyEnd, expert                             string
	vat                                                bool
}

// New creates the roster screen
func New(api *client.Client) *Manager {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)
	return &Manager{api: api, spin: sp, state: stateLoading}
}

// Init starts loading the roster
func (m *Manager) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.fetchRoster())
}

func (m *Manager) fetchRoster() tea.Cmd {
	return func() tea.Msg {
		clients, err := m.api.ListClients(context.Background())
		return rosterMsg{clients: clients, err: err}
	}
}

func (m *Manager) createClient() tea.Cmd {
	rec := m.record()
	return func() tea.Msg {
		_, err := m.api.CreateClient(context.Background(), &rec)
		return savedMsg{err: err}
	}
}

func (m *Manager) deleteClient(id int) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{err: m.api.DeleteClient(context.Background(), id)}
	}
}

// record assembles a ClientRecord from the form values
func (m *Manager) record() client.ClientRecord {
	return client.ClientRecord{
		Denomination:    strings.TrimSpace(m.denomination),
		LegalForm:       m.legalForm,
		Representative:  m.representative,
		TaxRegime:       m.taxRegime,
		VATSubject:      m.vat,
		SIREN:           m.siren,
		Address:         m.address,
		PostalCode:      m.postalCode,
		City:            m.city,
		FiscalYearStart: m.fyStart,
		FiscalYearEnd:   m.fyEnd,
		ExpertName:      m.expert,
	}
}

// Update implements tea.Model
func (m *Manager) Update(msg tea.Msg) (*Manager, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case rosterMsg:
		if msg.err != nil {
			if errors.Is(msg.err, client.ErrSessionExpired) {
				return m, func() tea.Msg { return SessionExpiredMsg{} }
			}
			debuglog.Error("roster", msg.err)
			m.errMsg = msg.err.Error()
			m.state = stateList
			return m, nil
		}
		m.roster = msg.clients
		m.errMsg = ""
		if m.cursor >= len(m.roster) {
			m.cursor = 0
		}
		m.state = stateList
		return m, nil

	case savedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, client.ErrSessionExpired) {
				return m, func() tea.Msg { return SessionExpiredMsg{} }
			}
			// Form state is preserved so the user can correct and resubmit
			m.errMsg = msg.err.Error()
			return m, m.enterCreate(false)
		}
		m.notice = "Client créé."
		m.state = stateLoading
		return m, tea.Batch(m.spin.Tick, m.fetchRoster())

	case deletedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, client.ErrSessionExpired) {
				return m, func() tea.Msg { return SessionExpiredMsg{} }
			}
			m.errMsg = msg.err.Error()
			m.state = stateList
			return m, nil
		}
		m.notice = "Client supprimé."
		m.state = stateLoading
		return m, tea.Batch(m.spin.Tick, m.fetchRoster())

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m.updateForm(msg)
}

func (m *Manager) updateKey(msg tea.KeyMsg) (*Manager, tea.Cmd) {
	switch m.state {
	case stateList:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.roster)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.roster) > 0 {
				m.state = stateDetail
			}
		case "n":
			m.resetForm()
			return m, m.enterCreate(true)
		case "d":
			if len(m.roster) > 0 {
				m.confirm = false
				m.form = m.createDeleteConfirm()
				m.state = stateConfirmDelete
				return m, m.form.Init()
			}
		case "r":
			m.notice = ""
			m.state = stateLoading
			return m, tea.Batch(m.spin.Tick, m.fetchRoster())
		case "b", "esc", "q":
			return m, func() tea.Msg { return BackMsg{} }
		}
		return m, nil

	case stateDetail:
		switch msg.String() {
		case "b", "esc", "enter":
			m.state = stateList
		}
		return m, nil

	case stateCreating, stateConfirming, stateConfirmDelete:
		if msg.String() == "esc" {
			m.state = stateList
			return m, nil
		}
		return m.updateForm(msg)

	case stateSaving, stateLoading:
		return m, nil
	}

	return m, nil
}

func (m *Manager) updateForm(msg tea.Msg) (*Manager, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	switch m.state {
	case stateCreating:
		// Essential fields passed their validators; partial optional data
		// gets an explicit confirmation step before anything is sent.
		m.missing = draft.MissingOptionalFields(m.record())
		if len(m.missing) > 0 {
			m.confirm = false
			m.form = m.createConfirmForm()
			m.state = stateConfirming
			return m, m.form.Init()
		}
		m.state = stateSaving
		return m, tea.Batch(m.spin.Tick, m.createClient())

	case stateConfirming:
		if !m.confirm {
			return m, m.enterCreate(false)
		}
		m.state = stateSaving
		return m, tea.Batch(m.spin.Tick, m.createClient())

	case stateConfirmDelete:
		if !m.confirm {
			m.state = stateList
			return m, nil
		}
		rec := m.roster[m.cursor]
		m.state = stateLoading
		return m, tea.Batch(m.spin.Tick, m.deleteClient(rec.ID))
	}

	return m, cmd
}

func (m *Manager) resetForm() {
	m.denomination = ""
	m.legalForm = ""
	m.representative = ""
	m.taxRegime = ""
	m.vat = false
	m.siren = ""
	m.address = ""
	m.postalCode = ""
	m.city = ""
	m.fyStart = ""
	m.fyEnd = ""
	m.expert = ""
}

func (m *Manager) enterCreate(clearError bool) tea.Cmd {
	if clearError {
		m.errMsg = ""
	}
	m.notice = ""
	m.form = m.createForm()
	m.state = stateCreating
	return m.form.Init()
}

// createForm builds the client-creation form. Unlike the wizard this
// flow validates inline: essential rules block submission.
func (m *Manager) createForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Dénomination").
				Placeholder("ex. Boulangerie Martin SARL").
				Validate(draft.ValidateDenomination).
				Value(&m.denomination),
			huh.NewInput().
				Title("Forme juridique").
				Placeholder("SARL, SAS, EI…").
				Value(&m.legalForm),
			huh.NewInput().
				Title("Représentant légal").
				Value(&m.representative),
			huh.NewInput().
				Title("Régime fiscal").
				Value(&m.taxRegime),
			huh.NewConfirm().
				Title("Assujetti à la TVA ?").
				Affirmative("Oui").
				Negative("Non").
				Value(&m.vat),
			huh.NewInput().
				Title("SIREN").
				Placeholder("9 chiffres").
				CharLimit(9).
				Validate(func(s string) error {
					return draft.ValidateSIREN(s, m.vat)
				}).
				Value(&m.siren),
			huh.NewInput().
				Title("Adresse").
				Value(&m.address),
			huh.NewInput().
				Title("Code postal").
				CharLimit(5).
				Value(&m.postalCode),
			huh.NewInput().
				Title("Ville").
				Value(&m.city),
			huh.NewInput().
				Title("Début d'exercice").
				Placeholder("AAAA-MM-JJ").
				CharLimit(10).
				Value(&m.fyStart),
			huh.NewInput().
				Title("Fin d'exercice").
				Placeholder("AAAA-MM-JJ").
				CharLimit(10).
				Validate(func(s string) error {
					return draft.ValidateFiscalYearEnd(m.fyStart, s)
				}).
				Value(&m.fyEnd),
			huh.NewInput().
				Title("Expert attitré").
				Value(&m.expert),
		).Title("Nouveau client"),
	).WithTheme(styles.FormTheme())
}

func (m *Manager) createConfirmForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Informations incomplètes").
				Description("Champs vides : "+strings.Join(m.missing, ", ")).
				Affirmative("Continuer").
				Negative("Reprendre la saisie").
				Value(&m.confirm),
		),
	).WithTheme(styles.FormTheme())
}

func (m *Manager) createDeleteConfirm() *huh.Form {
	rec := m.roster[m.cursor]
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Supprimer %s ?", rec.Denomination)).
				Affirmative("Supprimer").
				Negative("Annuler").
				Value(&m.confirm),
		),
	).WithTheme(styles.FormTheme())
}

// View implements tea.Model
func (m *Manager) View() string {
	switch m.state {
	case stateLoading:
		return m.spin.View() + " Chargement des clients…"

	case stateSaving:
		return m.spin.View() + " Enregistrement…"

	case stateList:
		return m.viewList()

	case stateDetail:
		return m.viewDetail()

	case stateCreating, stateConfirming, stateConfirmDelete:
		var sb strings.Builder
		if m.errMsg != "" {
			sb.WriteString(styles.StatusError.Render(m.errMsg))
			sb.WriteString("\n\n")
		}
		sb.WriteString(m.form.View())
		return sb.String()
	}
	return ""
}

func (m *Manager) viewList() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(icons.Person.String() + " Clients"))
	sb.WriteString("\n")

	if m.notice != "" {
		sb.WriteString(styles.StatusOK.Render(m.notice))
		sb.WriteString("\n\n")
	}
	if m.errMsg != "" {
		sb.WriteString(styles.StatusError.Render(m.errMsg))
		sb.WriteString("\n\n")
	}

	if len(m.roster) == 0 {
		sb.WriteString(styles.Subtitle.Render("Aucun client enregistré."))
		sb.WriteString("\n")
	} else {
		for i, rec := range m.roster {
			line := rec.Denomination
			if rec.LegalForm != "" {
				line += styles.BadgeEmpty.Render(" (" + rec.LegalForm + ")")
			}
			if i == m.cursor {
				sb.WriteString(lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("> " + line))
			} else {
				sb.WriteString("  " + line)
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString(styles.Help.Render("Entrée détail  n nouveau  d supprimer  r actualiser  b retour"))
	return sb.String()
}

func (m *Manager) viewDetail() string {
	rec := m.roster[m.cursor]
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(rec.Denomination))
	sb.WriteString("\n")

	vat := "non"
	if rec.VATSubject {
		vat = "oui"
	}
	exercice := ""
	if rec.FiscalYearStart != "" || rec.FiscalYearEnd != "" {
		exercice = rec.FiscalYearStart + " → " + rec.FiscalYearEnd
	}

	rows := []struct{ label, value string }{
		{"Forme juridique", rec.LegalForm},
		{"Représentant", rec.Representative},
		{"Régime fiscal", rec.TaxRegime},
		{"TVA", vat},
		{"SIREN", rec.SIREN},
		{"Adresse", strings.TrimSpace(rec.Address + " " + rec.PostalCode + " " + rec.City)},
		{"Exercice", exercice},
		{"Expert", rec.ExpertName},
	}
	for _, r := range rows {
		value := r.value
		if strings.TrimSpace(value) == "" {
			value = styles.BadgeEmpty.Render("—")
		}
		sb.WriteString(fmt.Sprintf("%-18s %s\n", r.label, value))
	}

	sb.WriteString(styles.Help.Render("b retour"))
	return sb.String()
}
