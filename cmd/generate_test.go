// ABOUTME: Tests for the generate command
// ABOUTME: Verifies section preloading, premium gating, and document download

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/plumecompta/lettre-cli/internal/client"
)

func generateServer(t *testing.T, premium bool, captured *map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user-status":
			json.NewEncoder(w).Encode(client.UserStatus{Username: "marie", IsPremium: premium})
		case "/clients/5":
			json.NewEncoder(w).Encode(client.ClientRecord{
				ID:              5,
				Denomination:    "SARL Dupont",
				VATSubject:      true,
				SIREN:           "123456789",
				FiscalYearStart: "2026-01-01T00:00:00Z",
				FiscalYearEnd:   "2026-12-31T00:00:00Z",
			})
		case "/mon-cabinet":
			json.NewEncoder(w).Encode(client.CabinetRecord{Name: "Cabinet Martin", City: "Lyon"})
		case "/mes-cgv":
			json.NewEncoder(w).Encode(client.CGVRecord{PaymentDelayDays: 45, CourtCity: "Lyon"})
		case "/generate-ldm":
			var payload map[string]map[string]string
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("failed to decode generation payload: %v", err)
			}
			if captured != nil {
				*captured = payload["replacements"]
			}
			w.Write([]byte("PK\x03\x04 docx"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGenerateCommand_EndToEnd(t *testing.T) {
	var replacements map[string]string
	server := generateServer(t, true, &replacements)

	seedSession(t, true)
	apiURL = server.URL
	generateClientID = 5
	generateOut = filepath.Join(t.TempDir(), "out.docx")
	defer func() {
		apiURL = ""
		generateClientID = 0
		generateOut = client.LetterFilename
	}()

	var buf bytes.Buffer
	exitCode := runGenerate(context.Background(), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}

	if replacements["client_denomination"] != "SARL Dupont" {
		t.Errorf("expected the roster record in the payload, got %v", replacements["client_denomination"])
	}
	if replacements["client_fiscal_year_start"] != "2026-01-01" {
		t.Errorf("expected normalized dates, got %s", replacements["client_fiscal_year_start"])
	}
	if replacements["cabinet_name"] != "Cabinet Martin" {
		t.Error("expected the cabinet profile in the payload")
	}
	if replacements["cgv_payment_delay_days"] != "45" {
		t.Error("expected the cgv profile in the payload")
	}

	if _, err := os.Stat(generateOut); err != nil {
		t.Error("expected the document written to the output path")
	}
}

func TestGenerateCommand_FileOverridesPreload(t *testing.T) {
	var replacements map[string]string
	server := generateServer(t, true, &replacements)

	seedSession(t, true)
	apiURL = server.URL

	draftPath := filepath.Join(t.TempDir(), "draft.json")
	draftJSON := `{
		"client": {"denomination": "SAS Durand", "vat_subject": false},
		"mission": {"mission_type": "advisory", "fee_type": "hourly", "amount": 900, "duration_months": 6}
	}`
	if err := os.WriteFile(draftPath, []byte(draftJSON), 0600); err != nil {
		t.Fatal(err)
	}

	generateClientID = 5
	generateFile = draftPath
	generateOut = filepath.Join(t.TempDir(), "out.docx")
	defer func() {
		apiURL = ""
		generateClientID = 0
		generateFile = ""
		generateOut = client.LetterFilename
	}()

	var buf bytes.Buffer
	exitCode := runGenerate(context.Background(), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if replacements["client_denomination"] != "SAS Durand" {
		t.Errorf("expected the file draft to override the roster record, got %s", replacements["client_denomination"])
	}
	if replacements["mission_type"] != "advisory" {
		t.Errorf("expected the file mission section applied, got %s", replacements["mission_type"])
	}
	// Sections absent from the file keep their preloaded values.
	if replacements["cabinet_name"] != "Cabinet Martin" {
		t.Error("expected the preloaded cabinet section untouched")
	}
}

func TestGenerateCommand_RequiresPremium(t *testing.T) {
	server := generateServer(t, false, nil)

	seedSession(t, false)
	apiURL = server.URL
	generateClientID = 5
	defer func() {
		apiURL = ""
		generateClientID = 0
	}()

	var buf bytes.Buffer
	exitCode := runGenerate(context.Background(), &buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1 for a standard account, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("premium")) {
		t.Error("expected a premium upgrade hint")
	}
}

func TestGenerateCommand_RequiresClient(t *testing.T) {
	server := generateServer(t, true, nil)

	seedSession(t, true)
	apiURL = server.URL
	generateClientID = 0
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runGenerate(context.Background(), &buf)

	if exitCode != 2 {
		t.Errorf("expected exit code 2 without a client section, got %d", exitCode)
	}
}
