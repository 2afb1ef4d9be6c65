// ABOUTME: In-memory mission-letter draft composed of four tagged sections
// ABOUTME: Tracks per-section preload origin and serializes the submission map

package draft

import (
	"fmt"
	"strconv"
	"time"

	"github.com/plumecompta/lettre-cli/internal/client"
)

// Section identifies one of the four independently hydrated sub-records
type Section int

const (
	SectionClient Section = iota
	SectionMission
	SectionCGV
	SectionCabinet
)

// SectionNames are the display names in wizard order
var SectionNames = []string{"Client", "Mission", "CGV", "Cabinet"}

// String returns the display name of a Section
func (s Section) String() string {
	if s < SectionClient || s > SectionCabinet {
		return "unknown"
	}
	return SectionNames[s]
}

// MissionType is the kind of engagement described by the letter
type MissionType string

const (
	MissionComplete MissionType = "complete"
	MissionPartial  MissionType = "partial"
	MissionAdvisory MissionType = "advisory"
)

// FeeType is how the engagement is billed
type FeeType string

const (
	FeeFlat   FeeType = "flat"
	FeeHourly FeeType = "hourly"
	FeeMixed  FeeType = "mixed"
)

// Mission is the engagement sub-record. Unlike the other sections it has
// no backend default and is always user-provided.
type Mission struct {
	Type           MissionType `json:"mission_type"`
	FeeType        FeeType     `json:"fee_type"`
	Amount         float64     `json:"amount"`
	DurationMonths int         `json:"duration_months"`
	StartDate      string      `json:"start_date"`
	IncludeTerms   bool        `json:"include_terms"`
	IncludeLogo    bool        `json:"include_logo"`
}

// Draft is one wizard session's unsaved composite of all four sections.
// It lives only as long as the wizard that owns it.
type Draft struct {
	Client  client.ClientRecord  `json:"client"`
	Mission Mission              `json:"mission"`
	CGV     client.CGVRecord     `json:"cgv"`
	Cabinet client.CabinetRecord `json:"cabinet"`

	preloaded map[Section]bool
}

// New creates a draft with default values for every section
func New() *Draft {
	return &Draft{
		Mission: Mission{
			Type:           MissionComplete,
			FeeType:        FeeFlat,
			DurationMonths: 12,
			IncludeTerms:   true,
		},
		CGV: client.CGVRecord{
			PaymentDelayDays:   30,
			LatePenaltyPercent: 3,
			PaymentMode:        "virement",
		},
		preloaded: make(map[Section]bool),
	}
}

// Preloaded reports whether the section's fields came from a backend
// default record rather than the empty initial values.
func (d *Draft) Preloaded(s Section) bool {
	return d.preloaded[s]
}

// MarkPreloaded flags a section as populated from a backend record
func (d *Draft) MarkPreloaded(s Section) {
	if d.preloaded == nil {
		d.preloaded = make(map[Section]bool)
	}
	d.preloaded[s] = true
}

// SetClient overwrites only the client section with a fetched record,
// normalizing dates to plain calendar days, and marks it preloaded.
func (d *Draft) SetClient(rec client.ClientRecord) {
	rec.FiscalYearStart = NormalizeDate(rec.FiscalYearStart)
	rec.FiscalYearEnd = NormalizeDate(rec.FiscalYearEnd)
	d.Client = rec
	d.MarkPreloaded(SectionClient)
}

// SetCGV overwrites the CGV section with a fetched profile
func (d *Draft) SetCGV(rec client.CGVRecord) {
	d.CGV = rec
	d.MarkPreloaded(SectionCGV)
}

// SetCabinet overwrites the cabinet section with a fetched profile
func (d *Draft) SetCabinet(rec client.CabinetRecord) {
	d.Cabinet = rec
	d.MarkPreloaded(SectionCabinet)
}

// NormalizeDate reduces a backend timestamp to a plain YYYY-MM-DD value.
// Unparseable input is returned unchanged.
func NormalizeDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}

// Replacements serializes all four sections into the single flat map the
// letter-generation endpoint expects. Every section contributes its keys
// regardless of whether it was preloaded or user-edited.
func (d *Draft) Replacements() map[string]string {
	r := map[string]string{
		"client_denomination":      d.Client.Denomination,
		"client_legal_form":        d.Client.LegalForm,
		"client_representative":    d.Client.Representative,
		"client_tax_regime":        d.Client.TaxRegime,
		"client_vat_subject":       formatBool(d.Client.VATSubject),
		"client_siren":             d.Client.SIREN,
		"client_address":           d.Client.Address,
		"client_postal_code":       d.Client.PostalCode,
		"client_city":              d.Client.City,
		"client_fiscal_year_start": d.Client.FiscalYearStart,
		"client_fiscal_year_end":   d.Client.FiscalYearEnd,
		"client_expert_name":       d.Client.ExpertName,

		"mission_type":            string(d.Mission.Type),
		"mission_fee_type":        string(d.Mission.FeeType),
		"mission_amount":          formatAmount(d.Mission.Amount),
		"mission_duration_months": strconv.Itoa(d.Mission.DurationMonths),
		"mission_start_date":      d.Mission.StartDate,
		"mission_include_terms":   formatBool(d.Mission.IncludeTerms),
		"mission_include_logo":    formatBool(d.Mission.IncludeLogo),

		"cgv_payment_delay_days":   strconv.Itoa(d.CGV.PaymentDelayDays),
		"cgv_late_penalty_percent": formatAmount(d.CGV.LatePenaltyPercent),
		"cgv_deposit_percent":      formatAmount(d.CGV.DepositPercent),
		"cgv_payment_mode":         d.CGV.PaymentMode,
		"cgv_court_city":           d.CGV.CourtCity,

		"cabinet_name":                d.Cabinet.Name,
		"cabinet_address":             d.Cabinet.Address,
		"cabinet_postal_code":         d.Cabinet.PostalCode,
		"cabinet_city":                d.Cabinet.City,
		"cabinet_phone":               d.Cabinet.Phone,
		"cabinet_email":               d.Cabinet.Email,
		"cabinet_siren":               d.Cabinet.SIREN,
		"cabinet_registration_number": d.Cabinet.RegistrationNumber,
	}
	return r
}

func formatBool(b bool) string {
	if b {
		return "oui"
	}
	return "non"
}

func formatAmount(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
