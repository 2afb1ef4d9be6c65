// ABOUTME: Tests for the mission-letter wizard model
// ABOUTME: Verifies independent hydration, free navigation, and the submission path

package wizard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/plumecompta/lettre-cli/internal/client"
	"github.com/plumecompta/lettre-cli/internal/draft"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// deliver runs an async fetch command and feeds its message into Update
func deliver(t *testing.T, w *Wizard, cmd tea.Cmd) *Wizard {
	t.Helper()
	msg := cmd()
	w, followUp := w.Update(msg)
	// Session-expiry notifications surface through a follow-up command;
	// the tests that care about them run it explicitly instead.
	_ = followUp
	return w
}

func TestHydration_FailuresAreIndependent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/clients":
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "indisponible"})
		case "/mon-cabinet":
			json.NewEncoder(w).Encode(client.CabinetRecord{Name: "Cabinet Martin", City: "Lyon"})
		case "/mes-cgv":
			json.NewEncoder(w).Encode(client.CGVRecord{PaymentDelayDays: 45, CourtCity: "Lyon"})
		}
	}))
	defer server.Close()

	w := New(client.New(server.URL))

	w = deliver(t, w, w.fetchRoster())
	w = deliver(t, w, w.fetchCabinet())
	w = deliver(t, w, w.fetchCGV())

	d := w.Draft()
	if d.Preloaded(draft.SectionCabinet) != true {
		t.Error("expected cabinet section preloaded")
	}
	if d.Preloaded(draft.SectionCGV) != true {
		t.Error("expected cgv section preloaded")
	}
	if d.Preloaded(draft.SectionClient) {
		t.Error("a failed roster fetch must not mark the client section preloaded")
	}

	if d.Cabinet.Name != "Cabinet Martin" {
		t.Errorf("expected cabinet record applied, got %+v", d.Cabinet)
	}
	if d.CGV.PaymentDelayDays != 45 {
		t.Errorf("expected cgv record applied, got %+v", d.CGV)
	}
	if w.rosterErr == "" {
		t.Error("expected the roster error recorded for the picker view")
	}
}

func TestHydration_PartialProfileKeepsDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/clients":
			json.NewEncoder(w).Encode([]client.ClientRecord{})
		case "/mon-cabinet":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "profil absent"})
		case "/mes-cgv":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "profil absent"})
		}
	}))
	defer server.Close()

	w := New(client.New(server.URL))

	w = deliver(t, w, w.fetchCabinet())
	w = deliver(t, w, w.fetchCGV())

	d := w.Draft()
	if d.Preloaded(draft.SectionCabinet) || d.Preloaded(draft.SectionCGV) {
		t.Error("missing profiles must leave sections unpreloaded")
	}
	if d.CGV.PaymentDelayDays != 30 {
		t.Errorf("expected default payment delay untouched, got %d", d.CGV.PaymentDelayDays)
	}
}

func TestHydration_SessionExpiryEmitsMsg(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	w := New(client.New(server.URL))

	msg := w.fetchRoster()()
	w, cmd := w.Update(msg)
	if cmd == nil {
		t.Fatal("expected a follow-up command for an expired session")
	}
	if _, ok := cmd().(SessionExpiredMsg); !ok {
		t.Error("expected SessionExpiredMsg")
	}
}

func TestNavigation_ForwardAndBackWithoutValidation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]client.ClientRecord{})
	}))
	defer server.Close()

	w := New(client.New(server.URL))
	w.enterForm(draft.SectionClient)

	// SIREN left empty, denomination blank: navigation still moves on.
	w, _ = w.Update(keyMsg("ctrl+n"))
	if w.step != draft.SectionMission {
		t.Errorf("expected step Mission after ctrl+n, got %s", w.step)
	}

	w, _ = w.Update(keyMsg("ctrl+n"))
	w, _ = w.Update(keyMsg("ctrl+n"))
	if w.step != draft.SectionCabinet {
		t.Errorf("expected step Cabinet, got %s", w.step)
	}

	// ctrl+n on the last section does not advance past it.
	w, _ = w.Update(keyMsg("ctrl+n"))
	if w.step != draft.SectionCabinet {
		t.Errorf("expected step to stay at Cabinet, got %s", w.step)
	}

	w, _ = w.Update(keyMsg("ctrl+b"))
	if w.step != draft.SectionCGV {
		t.Errorf("expected step CGV after ctrl+b, got %s", w.step)
	}
}

func TestNavigation_PreservesEditsAcrossSections(t *testing.T) {
	w := New(client.New("http://unused"))
	w.enterForm(draft.SectionClient)

	w.cDenomination = "SARL Dupont"
	w, _ = w.Update(keyMsg("ctrl+n"))
	w, _ = w.Update(keyMsg("ctrl+b"))

	if w.cDenomination != "SARL Dupont" {
		t.Errorf("expected edit to survive a round-trip, got %q", w.cDenomination)
	}
	if w.Draft().Client.Denomination != "SARL Dupont" {
		t.Error("expected edit captured into the draft")
	}
}

func TestEscCancels(t *testing.T) {
	w := New(client.New("http://unused"))
	w.enterForm(draft.SectionMission)

	_, cmd := w.Update(keyMsg("esc"))
	if cmd == nil {
		t.Fatal("expected a cancellation command")
	}
	if _, ok := cmd().(CancelledMsg); !ok {
		t.Error("expected CancelledMsg")
	}
}

func TestSubmit_ErrorEntersErrorPhase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "template introuvable"})
	}))
	defer server.Close()

	w := New(client.New(server.URL))
	w.phase = phaseSubmitting

	msg := w.submit()()
	w, _ = w.Update(msg)

	if w.phase != phaseError {
		t.Errorf("expected error phase, got %d", w.phase)
	}
	if w.errMsg == "" {
		t.Error("expected the backend message recorded")
	}
}

func TestSubmit_SuccessThenDismiss(t *testing.T) {
	w := New(client.New("http://unused"))
	w.phase = phaseSubmitting

	w, cmd := w.Update(letterGeneratedMsg{path: "lettre_de_mission.docx"})
	if w.phase != phaseSuccess {
		t.Fatalf("expected success phase, got %d", w.phase)
	}
	if cmd == nil {
		t.Fatal("expected the auto-dismiss timer command")
	}

	w, cmd = w.Update(successDismissMsg{})
	if cmd == nil {
		t.Fatal("expected a done command")
	}
	done, ok := cmd().(DoneMsg)
	if !ok {
		t.Fatal("expected DoneMsg")
	}
	if done.Path != "lettre_de_mission.docx" {
		t.Errorf("unexpected path %s", done.Path)
	}
}

func TestPicker_SelectLoadsClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/clients/3" {
			json.NewEncoder(w).Encode(client.ClientRecord{
				ID:           3,
				Denomination: "SAS Durand",
				City:         "Bordeaux",
			})
		}
	}))
	defer server.Close()

	w := New(client.New(server.URL))
	w.phase = phasePicking
	w.rosterLoaded = true
	w.roster = []client.ClientRecord{
		{ID: 1, Denomination: "SARL Dupont"},
		{ID: 3, Denomination: "SAS Durand"},
	}

	w, _ = w.Update(keyMsg("down"))
	w, cmd := w.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("expected a fetch command")
	}

	// The batch contains the spinner tick and the fetch; run them and feed
	// the fetch result back.
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatal("expected a batched command")
	}
	for _, c := range batch {
		if msg := c(); msg != nil {
			if loaded, ok := msg.(clientLoadedMsg); ok {
				w, _ = w.Update(loaded)
			}
		}
	}

	if w.phase != phaseForm || w.step != draft.SectionClient {
		t.Errorf("expected the client form after selection, got phase %d step %s", w.phase, w.step)
	}
	if w.Draft().Client.Denomination != "SAS Durand" {
		t.Errorf("expected the fetched record applied, got %+v", w.Draft().Client)
	}
	if !w.Draft().Preloaded(draft.SectionClient) {
		t.Error("expected the client section marked preloaded")
	}
}
