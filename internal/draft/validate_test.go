// ABOUTME: Tests for client-record validation rules
// ABOUTME: Verifies the VAT-conditional SIREN rule and fiscal-year coherence

package draft

import (
	"testing"

	"github.com/plumecompta/lettre-cli/internal/client"
)

func TestValidateDenomination(t *testing.T) {
	if err := ValidateDenomination("SARL Dupont"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateDenomination(""); err == nil {
		t.Error("expected error for empty denomination")
	}
	if err := ValidateDenomination("   "); err == nil {
		t.Error("expected error for blank denomination")
	}
}

func TestValidateSIREN(t *testing.T) {
	tests := []struct {
		siren      string
		vatSubject bool
		wantErr    bool
	}{
		{"123456789", true, false},
		{"12345678", true, true},
		{"1234567890", true, true},
		{"12345678a", true, true},
		{"", true, true},
		// Without VAT the SIREN is not required at all.
		{"", false, false},
		{"not-a-siren", false, false},
	}

	for _, tt := range tests {
		err := ValidateSIREN(tt.siren, tt.vatSubject)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSIREN(%q, %t) error = %v, wantErr %t", tt.siren, tt.vatSubject, err, tt.wantErr)
		}
	}
}

func TestValidateFiscalYearEnd(t *testing.T) {
	tests := []struct {
		start   string
		end     string
		wantErr bool
	}{
		{"2026-01-01", "2026-12-31", false},
		{"2026-01-01", "2026-01-01", true},
		{"2026-01-01", "2025-12-31", true},
		// Either date alone passes.
		{"", "2026-12-31", false},
		{"2026-01-01", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		err := ValidateFiscalYearEnd(tt.start, tt.end)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFiscalYearEnd(%q, %q) error = %v, wantErr %t", tt.start, tt.end, err, tt.wantErr)
		}
	}
}

func TestValidateClient(t *testing.T) {
	errs := ValidateClient(client.ClientRecord{
		Denomination: "",
		VATSubject:   true,
		SIREN:        "bad",
	})

	if _, ok := errs["denomination"]; !ok {
		t.Error("expected a denomination error")
	}
	if _, ok := errs["siren"]; !ok {
		t.Error("expected a siren error")
	}

	errs = ValidateClient(client.ClientRecord{
		Denomination: "SARL Dupont",
		VATSubject:   false,
	})
	if len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateClient_NormalizesTimestampsFirst(t *testing.T) {
	errs := ValidateClient(client.ClientRecord{
		Denomination:    "SARL Dupont",
		FiscalYearStart: "2026-01-01T00:00:00Z",
		FiscalYearEnd:   "2026-12-31T00:00:00Z",
	})
	if len(errs) != 0 {
		t.Errorf("timestamp dates should validate after normalization, got %v", errs)
	}
}

func TestMissingOptionalFields(t *testing.T) {
	missing := MissingOptionalFields(client.ClientRecord{Denomination: "SARL Dupont"})
	if len(missing) != 9 {
		t.Errorf("expected all 9 optional fields reported, got %d: %v", len(missing), missing)
	}

	missing = MissingOptionalFields(client.ClientRecord{
		Denomination:    "SARL Dupont",
		LegalForm:       "SARL",
		Representative:  "Jean Dupont",
		TaxRegime:       "réel simplifié",
		Address:         "1 rue de la Paix",
		PostalCode:      "75002",
		City:            "Paris",
		FiscalYearStart: "2026-01-01",
		FiscalYearEnd:   "2026-12-31",
		ExpertName:      "Marie Martin",
	})
	if len(missing) != 0 {
		t.Errorf("expected no missing fields, got %v", missing)
	}
}
