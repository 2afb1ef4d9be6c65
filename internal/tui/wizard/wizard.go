// ABOUTME: Mission-letter wizard as a bubbletea model
// ABOUTME: Four huh section forms with parallel hydration and one final POST

package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

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

// DoneMsg is sent after a successful generation once the confirmation
// has been dismissed.
type DoneMsg struct {
	Path string
}

// CancelledMsg is sent when the wizard is abandoned
type CancelledMsg struct{}

// SessionExpiredMsg is sent when a wizard call came back 401
type SessionExpiredMsg struct{}

// successDisplay is how long the confirmation stays before auto-dismissing
const successDisplay = 4 * time.Second

type phase int

const (
	phaseChoice phase = iota
	phasePicking
	phaseForm
	phaseSubmitting
	phaseSuccess
	phaseError
)

// Hydration messages. Each fetch is independent: a failure leaves its
// section at defaults without touching the others.
type rosterLoadedMsg struct {
	clients []client.ClientRecord
	err     error
}

type cabinetLoadedMsg struct {
	rec *client.CabinetRecord
	err error
}

type cgvLoadedMsg struct {
	rec *client.CGVRecord
	err error
}

type clientLoadedMsg struct {
	rec *client.ClientRecord
	err error
}

type letterGeneratedMsg struct {
	path string
	err  error
}

type successDismissMsg struct{}

// Wizard drives the generate-letter flow and owns its draft
type Wizard struct {
	api   *client.Client
	draft *draft.Draft

	phase   phase
	step    draft.Section
	form    *huh.Form
	spin    spinner.Model
	width   int
	errMsg  string
	outPath string

	// Client roster for the initial-choice path
	fromExisting bool
	roster       []client.ClientRecord
	rosterLoaded bool
	rosterErr    string
	pickCursor   int
	fetchingID   int

	// Form field values (strings for huh)
	choice string

	cDenomination, cLegalForm, cRepresentative, cTaxRegime string
	cSIREN, cAddress, cPostalCode, cCity                   string
	cFyStart, cFyEnd, cExpert                              string
	cVAT                                                   bool

	mType, mFeeType, mAmount, mDuration, mStartDate string
	mTerms, mLogo                                   bool

	gDelay, gPenalty, gDeposit, gMode, gCourt string

	bName, bAddress, bPostalCode, bCity       string
	bPhone, bEmail, bSIREN, bRegistration     string
}

// New creates a wizard bound to the gateway client
func New(api *client.Client) *Wizard {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Primary)

	w := &Wizard{
		api:     api,
		draft:   draft.New(),
		phase:   phaseChoice,
		spin:    sp,
		choice:  "existing",
		outPath: client.LetterFilename,
	}
	w.form = w.createChoiceForm()
	return w
}

// Init fires the three hydration fetches concurrently. Completion order
// is unspecified; each writes to a disjoint part of the draft.
func (w *Wizard) Init() tea.Cmd {
	return tea.Batch(
		w.form.Init(),
		w.spin.Tick,
		w.fetchRoster(),
		w.fetchCabinet(),
		w.fetchCGV(),
	)
}

func (w *Wizard) fetchRoster() tea.Cmd {
	return func() tea.Msg {
		clients, err := w.api.ListClients(context.Background())
		return rosterLoadedMsg{clients: clients, err: err}
	}
}

func (w *Wizard) fetchCabinet() tea.Cmd {
	return func() tea.Msg {
		rec, err := w.api.GetCabinet(context.Background())
		return cabinetLoadedMsg{rec: rec, err: err}
	}
}

func (w *Wizard) fetchCGV() tea.Cmd {
	return func() tea.Msg {
		rec, err := w.api.GetCGV(context.Background())
		return cgvLoadedMsg{rec: rec, err: err}
	}
}

func (w *Wizard) fetchClient(id int) tea.Cmd {
	return func() tea.Msg {
		rec, err := w.api.GetClient(context.Background(), id)
		return clientLoadedMsg{rec: rec, err: err}
	}
}

func (w *Wizard) submit() tea.Cmd {
	replacements := w.draft.Replacements()
	out := w.outPath
	return func() tea.Msg {
		err := w.api.GenerateLetter(context.Background(), replacements, out)
		return letterGeneratedMsg{path: out, err: err}
	}
}

func sessionExpired(op string, err error) tea.Cmd {
	debuglog.Error(op, err)
	return func() tea.Msg { return SessionExpiredMsg{} }
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (*Wizard, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form, cmd := w.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			w.form = f
		}
		return w, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		w.spin, cmd = w.spin.Update(msg)
		return w, cmd

	case rosterLoadedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, client.ErrSessionExpired) {
				return w, sessionExpired("wizard roster", msg.err)
			}
			debuglog.Error("wizard roster", msg.err)
			w.rosterErr = msg.err.Error()
			w.rosterLoaded = true
			return w, nil
		}
		w.roster = msg.clients
		w.rosterLoaded = true
		return w, nil

	case cabinetLoadedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, client.ErrSessionExpired) {
				return w, sessionExpired("wizard cabinet", msg.err)
			}
			// Firm profile not configured yet: keep defaults, unpreloaded
			debuglog.Error("wizard cabinet", msg.err)
			return w, nil
		}
		w.draft.SetCabinet(*msg.rec)
		return w, nil

	case cgvLoadedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, client.ErrSessionExpired) {
				return w, sessionExpired("wizard cgv", msg.err)
			}
			debuglog.Error("wizard cgv", msg.err)
			return w, nil
		}
		w.draft.SetCGV(*msg.rec)
		return w, nil

	case clientLoadedMsg:
		w.fetchingID = 0
		if msg.err != nil {
			if errors.Is(msg.err, client.ErrSessionExpired) {
				return w, sessionExpired("wizard client", msg.err)
			}
			debuglog.Error("wizard client", msg.err)
			w.rosterErr = msg.err.Error()
			return w, nil
		}
		w.draft.SetClient(*msg.rec)
		return w, w.enterForm(draft.SectionClient)

	case letterGeneratedMsg:
		if msg.err != nil {
			if errors.Is(msg.err, client.ErrSessionExpired) {
				return w, sessionExpired("wizard submit", msg.err)
			}
			debuglog.Error("wizard submit", msg.err)
			w.phase = phaseError
			w.errMsg = msg.err.Error()
			return w, nil
		}
		w.phase = phaseSuccess
		return w, tea.Tick(successDisplay, func(time.Time) tea.Msg {
			return successDismissMsg{}
		})

	case successDismissMsg:
		if w.phase == phaseSuccess {
			path := w.outPath
			return w, func() tea.Msg { return DoneMsg{Path: path} }
		}
		return w, nil

	case tea.KeyMsg:
		return w.updateKey(msg)
	}

	return w.updateForm(msg)
}

func (w *Wizard) updateKey(msg tea.KeyMsg) (*Wizard, tea.Cmd) {
	if msg.String() == "esc" && w.phase != phaseSubmitting {
		return w, func() tea.Msg { return CancelledMsg{} }
	}

	switch w.phase {
	case phasePicking:
		return w.updatePicker(msg)

	case phaseForm:
		// Section navigation is free of validation gating: the user may
		// move forward or back with incomplete fields.
		switch msg.String() {
		case "ctrl+n":
			w.captureSection(w.step)
			if w.step < draft.SectionCabinet {
				return w, w.enterForm(w.step + 1)
			}
			return w, nil
		case "ctrl+b":
			w.captureSection(w.step)
			if w.step > draft.SectionClient {
				return w, w.enterForm(w.step - 1)
			}
			return w, nil
		}

	case phaseSuccess:
		if msg.String() == "enter" {
			path := w.outPath
			return w, func() tea.Msg { return DoneMsg{Path: path} }
		}
		return w, nil

	case phaseError:
		switch msg.String() {
		case "r":
			w.phase = phaseSubmitting
			return w, tea.Batch(w.spin.Tick, w.submit())
		case "b":
			w.phase = phaseForm
			return w, w.enterForm(draft.SectionCabinet)
		}
		return w, nil

	case phaseSubmitting:
		return w, nil
	}

	return w.updateForm(msg)
}

func (w *Wizard) updatePicker(msg tea.KeyMsg) (*Wizard, tea.Cmd) {
	if w.fetchingID != 0 {
		return w, nil
	}

	switch msg.String() {
	case "up", "k":
		if w.pickCursor > 0 {
			w.pickCursor--
		}
	case "down", "j":
		if w.pickCursor < len(w.roster)-1 {
			w.pickCursor++
		}
	case "b":
		w.phase = phaseChoice
		w.form = w.createChoiceForm()
		return w, w.form.Init()
	case "enter":
		if len(w.roster) == 0 {
			return w, nil
		}
		rec := w.roster[w.pickCursor]
		w.fetchingID = rec.ID
		return w, tea.Batch(w.spin.Tick, w.fetchClient(rec.ID))
	}
	return w, nil
}

func (w *Wizard) updateForm(msg tea.Msg) (*Wizard, tea.Cmd) {
	if w.form == nil {
		return w, nil
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted {
		return w.advance()
	}
	return w, cmd
}

// advance reacts to a completed form: the initial choice routes to the
// picker or the first section, and the last section triggers the POST.
func (w *Wizard) advance() (*Wizard, tea.Cmd) {
	switch w.phase {
	case phaseChoice:
		w.fromExisting = w.choice == "existing"
		if w.fromExisting {
			w.phase = phasePicking
			return w, w.spin.Tick
		}
		return w, w.enterForm(draft.SectionClient)

	case phaseForm:
		w.captureSection(w.step)
		if w.step < draft.SectionCabinet {
			return w, w.enterForm(w.step + 1)
		}
		w.phase = phaseSubmitting
		return w, tea.Batch(w.spin.Tick, w.submit())
	}
	return w, nil
}

// enterForm loads the draft values into the section's form strings and
// activates that section.
func (w *Wizard) enterForm(s draft.Section) tea.Cmd {
	w.phase = phaseForm
	w.step = s
	w.loadSection(s)

	switch s {
	case draft.SectionClient:
		w.form = w.createClientForm()
	case draft.SectionMission:
		w.form = w.createMissionForm()
	case draft.SectionCGV:
		w.form = w.createCGVForm()
	case draft.SectionCabinet:
		w.form = w.createCabinetForm()
	}
	return w.form.Init()
}

// loadSection copies draft values into the huh string fields
func (w *Wizard) loadSection(s draft.Section) {
	switch s {
	case draft.SectionClient:
		c := w.draft.Client
		w.cDenomination = c.Denomination
		w.cLegalForm = c.LegalForm
		w.cRepresentative = c.Representative
		w.cTaxRegime = c.TaxRegime
		w.cVAT = c.VATSubject
		w.cSIREN = c.SIREN
		w.cAddress = c.Address
		w.cPostalCode = c.PostalCode
		w.cCity = c.City
		w.cFyStart = c.FiscalYearStart
		w.cFyEnd = c.FiscalYearEnd
		w.cExpert = c.ExpertName
	case draft.SectionMission:
		m := w.draft.Mission
		w.mType = string(m.Type)
		w.mFeeType = string(m.FeeType)
		w.mAmount = formatFloat(m.Amount)
		w.mDuration = strconv.Itoa(m.DurationMonths)
		w.mStartDate = m.StartDate
		w.mTerms = m.IncludeTerms
		w.mLogo = m.IncludeLogo
	case draft.SectionCGV:
		g := w.draft.CGV
		w.gDelay = strconv.Itoa(g.PaymentDelayDays)
		w.gPenalty = formatFloat(g.LatePenaltyPercent)
		w.gDeposit = formatFloat(g.DepositPercent)
		w.gMode = g.PaymentMode
		w.gCourt = g.CourtCity
	case draft.SectionCabinet:
		b := w.draft.Cabinet
		w.bName = b.Name
		w.bAddress = b.Address
		w.bPostalCode = b.PostalCode
		w.bCity = b.City
		w.bPhone = b.Phone
		w.bEmail = b.Email
		w.bSIREN = b.SIREN
		w.bRegistration = b.RegistrationNumber
	}
}

// captureSection parses the huh string fields back into the draft.
// Parsing is lenient: the wizard never blocks navigation on bad input.
func (w *Wizard) captureSection(s draft.Section) {
	switch s {
	case draft.SectionClient:
		w.draft.Client.Denomination = w.cDenomination
		w.draft.Client.LegalForm = w.cLegalForm
		w.draft.Client.Representative = w.cRepresentative
		w.draft.Client.TaxRegime = w.cTaxRegime
		w.draft.Client.VATSubject = w.cVAT
		w.draft.Client.SIREN = w.cSIREN
		w.draft.Client.Address = w.cAddress
		w.draft.Client.PostalCode = w.cPostalCode
		w.draft.Client.City = w.cCity
		w.draft.Client.FiscalYearStart = w.cFyStart
		w.draft.Client.FiscalYearEnd = w.cFyEnd
		w.draft.Client.ExpertName = w.cExpert
	case draft.SectionMission:
		w.draft.Mission.Type = draft.MissionType(w.mType)
		w.draft.Mission.FeeType = draft.FeeType(w.mFeeType)
		w.draft.Mission.Amount, _ = strconv.ParseFloat(w.mAmount, 64)
		w.draft.Mission.DurationMonths, _ = strconv.Atoi(w.mDuration)
		w.draft.Mission.StartDate = w.mStartDate
		w.draft.Mission.IncludeTerms = w.mTerms
		w.draft.Mission.IncludeLogo = w.mLogo
	case draft.SectionCGV:
		w.draft.CGV.PaymentDelayDays, _ = strconv.Atoi(w.gDelay)
		w.draft.CGV.LatePenaltyPercent, _ = strconv.ParseFloat(w.gPenalty, 64)
		w.draft.CGV.DepositPercent, _ = strconv.ParseFloat(w.gDeposit, 64)
		w.draft.CGV.PaymentMode = w.gMode
		w.draft.CGV.CourtCity = w.gCourt
	case draft.SectionCabinet:
		w.draft.Cabinet.Name = w.bName
		w.draft.Cabinet.Address = w.bAddress
		w.draft.Cabinet.PostalCode = w.bPostalCode
		w.draft.Cabinet.City = w.bCity
		w.draft.Cabinet.Phone = w.bPhone
		w.draft.Cabinet.Email = w.bEmail
		w.draft.Cabinet.SIREN = w.bSIREN
		w.draft.Cabinet.RegistrationNumber = w.bRegistration
	}
}

func formatFloat(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// Draft exposes the wizard's draft, mainly for tests
func (w *Wizard) Draft() *draft.Draft {
	return w.draft
}

// View implements tea.Model
func (w *Wizard) View() string {
	switch w.phase {
	case phaseChoice:
		return w.form.View()

	case phasePicking:
		return w.viewPicker()

	case phaseForm:
		var sb strings.Builder
		sb.WriteString(w.renderProgress())
		sb.WriteString("\n\n")
		sb.WriteString(w.form.View())
		sb.WriteString("\n")
		sb.WriteString(styles.Help.Render("ctrl+n suivant  ctrl+b précédent  esc annuler"))
		return sb.String()

	case phaseSubmitting:
		return w.spin.View() + " Génération de la lettre de mission…"

	case phaseSuccess:
		return styles.StatusOK.Render(icons.CheckOK.String()+" Lettre générée : "+w.outPath) +
			"\n" + styles.Help.Render("Retour au menu dans quelques secondes (Entrée pour fermer)")

	case phaseError:
		return styles.StatusError.Render(icons.Critical.String()+" "+w.errMsg) +
			"\n" + styles.Help.Render("r relancer  b modifier  esc abandonner")
	}
	return ""
}

func (w *Wizard) viewPicker() string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Choisir un client"))
	sb.WriteString("\n")

	switch {
	case w.fetchingID != 0:
		sb.WriteString(w.spin.View() + " Chargement du dossier client…")
	case !w.rosterLoaded:
		sb.WriteString(w.spin.View() + " Chargement des clients…")
	case w.rosterErr != "":
		sb.WriteString(styles.StatusError.Render(w.rosterErr))
		sb.WriteString("\n" + styles.Help.Render("b retour"))
	case len(w.roster) == 0:
		sb.WriteString(styles.Subtitle.Render("Aucun client enregistré."))
		sb.WriteString("\n" + styles.Help.Render("b retour"))
	default:
		for i, rec := range w.roster {
			line := rec.Denomination
			if rec.City != "" {
				line += styles.BadgeEmpty.Render(" — " + rec.City)
			}
			if i == w.pickCursor {
				sb.WriteString(lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("> " + line))
			} else {
				sb.WriteString("  " + line)
			}
			sb.WriteString("\n")
		}
		sb.WriteString(styles.Help.Render("Entrée sélectionner  b retour  esc annuler"))
	}
	return sb.String()
}

// renderProgress renders the step indicator with preload badges
func (w *Wizard) renderProgress() string {
	width := w.width - 1
	if width < 60 {
		width = 60
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	var steps []string
	for i, name := range draft.SectionNames {
		section := draft.Section(i)
		var indicator string
		var nameStyle lipgloss.Style

		switch {
		case section < w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case section == w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		label := nameStyle.Render(name)
		if w.draft.Preloaded(section) {
			label += styles.BadgePreloaded.Render("*")
		}
		steps = append(steps, fmt.Sprintf("%s %s", indicator, label))
	}

	stepsLine := strings.Join(steps, "    ")

	barWidth := width - 5
	totalSteps := len(draft.SectionNames)
	filledWidth := ((int(w.step) + 1) * barWidth) / totalSteps
	emptyWidth := barWidth - filledWidth

	filledBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth))
	emptyBar := lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", emptyWidth))
	progressBar := filledBar + emptyBar

	styledTitle := titleStyle.Render("Progression")
	titleWidth := lipgloss.Width("Progression")

	topFillWidth := max(0, width-5-titleWidth)
	topBorder := "┌─ " + styledTitle + " " + strings.Repeat("─", topFillWidth) + "┐"

	stepsLineWidth := lipgloss.Width(stepsLine)
	stepsPadding := max(0, width-4-stepsLineWidth)
	stepsLinePadded := "│ " + stepsLine + strings.Repeat(" ", stepsPadding) + " │"

	progressLinePadded := "│  " + progressBar + " │"

	bottomBorder := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{
		topBorder,
		stepsLinePadded,
		progressLinePadded,
		bottomBorder,
	}, "\n"))
}
