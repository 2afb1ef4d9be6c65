// ABOUTME: Tests for the letter-generation download path
// ABOUTME: Verifies the replacements payload and binary streaming to disk

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateLetter_WritesDocument(t *testing.T) {
	docBytes := []byte("PK\x03\x04 fake docx content")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/generate-ldm" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var payload map[string]map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload["replacements"]["client_denomination"] != "SARL Dupont" {
			t.Errorf("expected client denomination in replacements, got %v", payload["replacements"])
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
		w.Write(docBytes)
	}))
	defer server.Close()

	c := New(server.URL)
	outPath := filepath.Join(t.TempDir(), LetterFilename)

	err := c.GenerateLetter(context.Background(), map[string]string{
		"client_denomination": "SARL Dupont",
	}, outPath)
	if err != nil {
		t.Fatalf("GenerateLetter failed: %v", err)
	}

	written, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(written) != string(docBytes) {
		t.Error("written document does not match response body")
	}
}

func TestGenerateLetter_ErrorLeavesNoFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "template introuvable"})
	}))
	defer server.Close()

	c := New(server.URL)
	outPath := filepath.Join(t.TempDir(), LetterFilename)

	err := c.GenerateLetter(context.Background(), map[string]string{}, outPath)
	if err == nil {
		t.Fatal("expected error")
	}
	if _, statErr := os.Stat(outPath); !os.IsNotExist(statErr) {
		t.Error("expected no output file after a failed generation")
	}
}

func TestGenerateLetter_SessionExpired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := New(server.URL)
	hookFired := false
	c.OnSessionExpired(func() { hookFired = true })

	err := c.GenerateLetter(context.Background(), map[string]string{}, filepath.Join(t.TempDir(), "out.docx"))
	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if !hookFired {
		t.Error("expected the session-expiry hook to fire")
	}
}
