// ABOUTME: Field validation for the standalone client-creation flow
// ABOUTME: The wizard itself does not gate navigation on these rules

package draft

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/plumecompta/lettre-cli/internal/client"
)

var sirenPattern = regexp.MustCompile(`^[0-9]{9}$`)

// ValidateDenomination requires a non-blank denomination
func ValidateDenomination(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("la dénomination est obligatoire")
	}
	return nil
}

// ValidateSIREN requires exactly 9 digits, but only when the client is
// subject to VAT. A non-VAT client never needs a SIREN.
func ValidateSIREN(siren string, vatSubject bool) error {
	if !vatSubject {
		return nil
	}
	if !sirenPattern.MatchString(siren) {
		return fmt.Errorf("le SIREN doit comporter exactement 9 chiffres")
	}
	return nil
}

// ValidateFiscalYearEnd requires the end date to fall strictly after the
// start date when both are present. Either date alone is fine.
func ValidateFiscalYearEnd(start, end string) error {
	if start == "" || end == "" {
		return nil
	}
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return nil
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return fmt.Errorf("date invalide, format attendu AAAA-MM-JJ")
	}
	if !e.After(s) {
		return fmt.Errorf("la date de clôture doit être postérieure à la date d'ouverture")
	}
	return nil
}

// ValidateClient runs all client-record rules and returns one message per
// failing field. An empty map means the record is acceptable.
func ValidateClient(rec client.ClientRecord) map[string]string {
	errs := make(map[string]string)
	if err := ValidateDenomination(rec.Denomination); err != nil {
		errs["denomination"] = err.Error()
	}
	if err := ValidateSIREN(rec.SIREN, rec.VATSubject); err != nil {
		errs["siren"] = err.Error()
	}
	if err := ValidateFiscalYearEnd(NormalizeDate(rec.FiscalYearStart), NormalizeDate(rec.FiscalYearEnd)); err != nil {
		errs["fiscal_year_end"] = err.Error()
	}
	return errs
}

// optionalFields maps non-essential client fields to their display labels,
// in the order they are reported.
var optionalFields = []struct {
	label string
	value func(client.ClientRecord) string
}{
	{"forme juridique", func(r client.ClientRecord) string { return r.LegalForm }},
	{"représentant", func(r client.ClientRecord) string { return r.Representative }},
	{"régime fiscal", func(r client.ClientRecord) string { return r.TaxRegime }},
	{"adresse", func(r client.ClientRecord) string { return r.Address }},
	{"code postal", func(r client.ClientRecord) string { return r.PostalCode }},
	{"ville", func(r client.ClientRecord) string { return r.City }},
	{"début d'exercice", func(r client.ClientRecord) string { return r.FiscalYearStart }},
	{"fin d'exercice", func(r client.ClientRecord) string { return r.FiscalYearEnd }},
	{"expert attitré", func(r client.ClientRecord) string { return r.ExpertName }},
}

// MissingOptionalFields lists the non-essential fields left empty. The
// caller confirms with the user before submitting partial data; this is
// a courtesy check, not a validation failure.
func MissingOptionalFields(rec client.ClientRecord) []string {
	var missing []string
	for _, f := range optionalFields {
		if strings.TrimSpace(f.value(rec)) == "" {
			missing = append(missing, f.label)
		}
	}
	return missing
}
