// ABOUTME: Tests for the mission-letter draft
// ABOUTME: Verifies defaults, preload tracking, date normalization, and the submission map

package draft

import (
	"testing"

	"github.com/plumecompta/lettre-cli/internal/client"
)

func TestNew_Defaults(t *testing.T) {
	d := New()

	if d.Mission.Type != MissionComplete {
		t.Errorf("expected default mission type complete, got %s", d.Mission.Type)
	}
	if d.Mission.DurationMonths != 12 {
		t.Errorf("expected default duration 12, got %d", d.Mission.DurationMonths)
	}
	if !d.Mission.IncludeTerms {
		t.Error("expected terms included by default")
	}
	if d.CGV.PaymentDelayDays != 30 {
		t.Errorf("expected default payment delay 30, got %d", d.CGV.PaymentDelayDays)
	}

	for s := SectionClient; s <= SectionCabinet; s++ {
		if d.Preloaded(s) {
			t.Errorf("section %s must not be preloaded on a fresh draft", s)
		}
	}
}

func TestSetClient_NormalizesDatesAndMarksPreloaded(t *testing.T) {
	d := New()
	d.SetClient(client.ClientRecord{
		Denomination:    "SARL Dupont",
		FiscalYearStart: "2026-01-01T00:00:00Z",
		FiscalYearEnd:   "2026-12-31T00:00:00",
	})

	if !d.Preloaded(SectionClient) {
		t.Error("expected client section marked preloaded")
	}
	if d.Client.FiscalYearStart != "2026-01-01" {
		t.Errorf("expected normalized start date, got %s", d.Client.FiscalYearStart)
	}
	if d.Client.FiscalYearEnd != "2026-12-31" {
		t.Errorf("expected normalized end date, got %s", d.Client.FiscalYearEnd)
	}
	if d.Preloaded(SectionCabinet) || d.Preloaded(SectionCGV) {
		t.Error("setting the client section must not touch other sections")
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"", ""},
		{"2026-06-30", "2026-06-30"},
		{"2026-06-30T00:00:00Z", "2026-06-30"},
		{"2026-06-30T23:59:59", "2026-06-30"},
		{"pas une date", "pas une date"},
	}

	for _, tt := range tests {
		if got := NormalizeDate(tt.in); got != tt.expected {
			t.Errorf("NormalizeDate(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}

func TestReplacements_CoversAllSections(t *testing.T) {
	d := New()
	d.SetClient(client.ClientRecord{
		Denomination: "SARL Dupont",
		VATSubject:   true,
		SIREN:        "123456789",
	})
	d.Mission.Type = MissionAdvisory
	d.Mission.FeeType = FeeHourly
	d.Mission.Amount = 1500.5
	d.SetCGV(client.CGVRecord{PaymentDelayDays: 45, LatePenaltyPercent: 3})
	d.SetCabinet(client.CabinetRecord{Name: "Cabinet Martin"})

	r := d.Replacements()

	checks := map[string]string{
		"client_denomination":      "SARL Dupont",
		"client_vat_subject":       "oui",
		"client_siren":             "123456789",
		"mission_type":             "advisory",
		"mission_fee_type":         "hourly",
		"mission_amount":           "1500.50",
		"mission_duration_months":  "12",
		"mission_include_terms":    "oui",
		"mission_include_logo":     "non",
		"cgv_payment_delay_days":   "45",
		"cgv_late_penalty_percent": "3.00",
		"cabinet_name":             "Cabinet Martin",
	}
	for key, expected := range checks {
		if got, ok := r[key]; !ok {
			t.Errorf("missing replacement key %s", key)
		} else if got != expected {
			t.Errorf("replacement %s = %q, expected %q", key, got, expected)
		}
	}
}

func TestReplacements_EmptySectionsStillContribute(t *testing.T) {
	r := New().Replacements()

	// Every key is present even when a section was never touched; the
	// template engine substitutes empty strings rather than leaving
	// placeholders behind.
	for _, key := range []string{"client_denomination", "cabinet_name", "cgv_court_city"} {
		if _, ok := r[key]; !ok {
			t.Errorf("expected key %s in replacements for an untouched draft", key)
		}
	}
}

func TestSectionString(t *testing.T) {
	if SectionClient.String() != "Client" {
		t.Errorf("unexpected name %s", SectionClient.String())
	}
	if Section(99).String() != "unknown" {
		t.Error("out-of-range section should be unknown")
	}
}
