// ABOUTME: Tests for the clients command group
// ABOUTME: Verifies roster output, record validation, and the force flag

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

func rosterServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/user-status":
			json.NewEncoder(w).Encode(client.UserStatus{Username: "marie"})
		case r.URL.Path == "/clients" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode([]client.ClientRecord{
				{ID: 2, Denomination: "SAS Durand", City: "Bordeaux"},
				{ID: 1, Denomination: "SARL Dupont", City: "Paris"},
			})
		case r.URL.Path == "/clients" && r.Method == http.MethodPost:
			var rec client.ClientRecord
			json.NewDecoder(r.Body).Decode(&rec)
			rec.ID = 9
			json.NewEncoder(w).Encode(rec)
		case r.URL.Path == "/clients/1" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(client.ClientRecord{ID: 1, Denomination: "SARL Dupont", City: "Paris"})
		case r.URL.Path == "/clients/1" && r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func writeClientFile(t *testing.T, rec client.ClientRecord) string {
	t.Helper()
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "client.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestClientsList_SortedByID(t *testing.T) {
	server := rosterServer(t)
	seedSession(t, false)
	apiURL = server.URL
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runClientsList(context.Background(), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	output := buf.String()
	if !bytes.Contains([]byte(output), []byte("SARL Dupont")) || !bytes.Contains([]byte(output), []byte("SAS Durand")) {
		t.Error("expected both clients in the listing")
	}
	if bytes.Index(buf.Bytes(), []byte("Dupont")) > bytes.Index(buf.Bytes(), []byte("Durand")) {
		t.Error("expected the listing sorted by id")
	}
}

func TestClientsList_RequiresSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	apiURL = server.URL
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runClientsList(context.Background(), &buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1 without a session, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("lettre login")) {
		t.Error("expected a login hint")
	}
}

func TestClientsCreate_InvalidRecordRejected(t *testing.T) {
	server := rosterServer(t)
	seedSession(t, false)
	apiURL = server.URL
	clientFile = writeClientFile(t, client.ClientRecord{
		Denomination: "SARL Dupont",
		VATSubject:   true,
		SIREN:        "12345", // too short
	})
	defer func() {
		apiURL = ""
		clientFile = ""
	}()

	var buf bytes.Buffer
	exitCode := runClientsCreate(context.Background(), &buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1 for an invalid record, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("SIREN")) {
		t.Error("expected the SIREN rule in the output")
	}
}

func TestClientsCreate_MissingOptionalNeedsForce(t *testing.T) {
	server := rosterServer(t)
	seedSession(t, false)
	apiURL = server.URL
	clientFile = writeClientFile(t, client.ClientRecord{Denomination: "SARL Dupont"})
	clientForce = false
	defer func() {
		apiURL = ""
		clientFile = ""
	}()

	var buf bytes.Buffer
	exitCode := runClientsCreate(context.Background(), &buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1 without --force, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("--force")) {
		t.Error("expected a hint about --force")
	}
}

func TestClientsCreate_ForceCreatesPartialRecord(t *testing.T) {
	server := rosterServer(t)
	seedSession(t, false)
	apiURL = server.URL
	clientFile = writeClientFile(t, client.ClientRecord{Denomination: "SARL Dupont"})
	clientForce = true
	defer func() {
		apiURL = ""
		clientFile = ""
		clientForce = false
	}()

	var buf bytes.Buffer
	exitCode := runClientsCreate(context.Background(), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0 with --force, got %d: %s", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("Client 9 créé")) {
		t.Error("expected the created id in the output")
	}
}

func TestClientsShow(t *testing.T) {
	server := rosterServer(t)
	seedSession(t, false)
	apiURL = server.URL
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runClientsShow(context.Background(), &buf, "1")

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("SARL Dupont")) {
		t.Error("expected the record in the output")
	}
}

func TestClientsShow_BadID(t *testing.T) {
	var buf bytes.Buffer
	exitCode := runClientsShow(context.Background(), &buf, "abc")

	if exitCode != 2 {
		t.Errorf("expected exit code 2 for a bad id, got %d", exitCode)
	}
}

func TestClientsDelete_NeedsYes(t *testing.T) {
	clientYes = false

	var buf bytes.Buffer
	exitCode := runClientsDelete(context.Background(), &buf, "1")

	if exitCode != 1 {
		t.Errorf("expected exit code 1 without --yes, got %d", exitCode)
	}
}

func TestClientsDelete_WithYes(t *testing.T) {
	server := rosterServer(t)
	seedSession(t, false)
	apiURL = server.URL
	clientYes = true
	defer func() {
		apiURL = ""
		clientYes = false
	}()

	var buf bytes.Buffer
	exitCode := runClientsDelete(context.Background(), &buf, "1")

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("supprimé")) {
		t.Error("expected a deletion confirmation")
	}
}
