// ABOUTME: huh form builders for the wizard's initial choice and four sections
// ABOUTME: No field carries a validator; the wizard never gates navigation

package wizard

import (
	"github.com/charmbracelet/huh"
	"github.com/plumecompta/lettre-cli/internal/tui/styles"
)

var missionTypeOptions = []huh.Option[string]{
	huh.NewOption("Mission complète", "complete"),
	huh.NewOption("Mission partielle", "partial"),
	huh.NewOption("Mission de conseil", "advisory"),
}

var feeTypeOptions = []huh.Option[string]{
	huh.NewOption("Forfait", "flat"),
	huh.NewOption("Au temps passé", "hourly"),
	huh.NewOption("Mixte", "mixed"),
}

var paymentDelayOptions = []huh.Option[string]{
	huh.NewOption("30 jours", "30"),
	huh.NewOption("45 jours", "45"),
	huh.NewOption("60 jours", "60"),
}

var paymentModeOptions = []huh.Option[string]{
	huh.NewOption("Virement", "virement"),
	huh.NewOption("Chèque", "cheque"),
	huh.NewOption("Prélèvement", "prelevement"),
}

func (w *Wizard) createChoiceForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Comment démarrer ?").
				Description("Le choix n'affecte que le préremplissage de la section client").
				Options(
					huh.NewOption("À partir d'un client existant", "existing"),
					huh.NewOption("Formulaire vierge", "blank"),
				).
				Value(&w.choice),
		).Title("Nouvelle lettre de mission"),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) createClientForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Dénomination").
				Placeholder("ex. Boulangerie Martin SARL").
				Value(&w.cDenomination),
			huh.NewInput().
				Title("Forme juridique").
				Placeholder("SARL, SAS, EI…").
				Value(&w.cLegalForm),
			huh.NewInput().
				Title("Représentant légal").
				Value(&w.cRepresentative),
			huh.NewInput().
				Title("Régime fiscal").
				Placeholder("IS, IR, micro…").
				Value(&w.cTaxRegime),
			huh.NewConfirm().
				Title("Assujetti à la TVA ?").
				Affirmative("Oui").
				Negative("Non").
				Value(&w.cVAT),
			huh.NewInput().
				Title("SIREN").
				Placeholder("9 chiffres").
				CharLimit(9).
				Value(&w.cSIREN),
			huh.NewInput().
				Title("Adresse").
				Value(&w.cAddress),
			huh.NewInput().
				Title("Code postal").
				CharLimit(5).
				Value(&w.cPostalCode),
			huh.NewInput().
				Title("Ville").
				Value(&w.cCity),
			huh.NewInput().
				Title("Début d'exercice").
				Placeholder("AAAA-MM-JJ").
				CharLimit(10).
				Value(&w.cFyStart),
			huh.NewInput().
				Title("Fin d'exercice").
				Placeholder("AAAA-MM-JJ").
				CharLimit(10).
				Value(&w.cFyEnd),
			huh.NewInput().
				Title("Expert attitré").
				Value(&w.cExpert),
		).Title("Étape 1 : Client").
			Description("Identité et exercice du client"),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) createMissionForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type de mission").
				Options(missionTypeOptions...).
				Value(&w.mType),
			huh.NewSelect[string]().
				Title("Mode d'honoraires").
				Options(feeTypeOptions...).
				Value(&w.mFeeType),
			huh.NewInput().
				Title("Montant (€ HT)").
				Placeholder("ex. 2400").
				CharLimit(12).
				Value(&w.mAmount),
			huh.NewInput().
				Title("Durée (mois)").
				CharLimit(3).
				Value(&w.mDuration),
			huh.NewInput().
				Title("Date de début").
				Placeholder("AAAA-MM-JJ").
				CharLimit(10).
				Value(&w.mStartDate),
			huh.NewConfirm().
				Title("Joindre les conditions générales ?").
				Affirmative("Oui").
				Negative("Non").
				Value(&w.mTerms),
			huh.NewConfirm().
				Title("Insérer le logo du cabinet ?").
				Affirmative("Oui").
				Negative("Non").
				Value(&w.mLogo),
		).Title("Étape 2 : Mission").
			Description("Nature et conditions de la mission"),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) createCGVForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Délai de paiement").
				Options(paymentDelayOptions...).
				Value(&w.gDelay),
			huh.NewInput().
				Title("Pénalités de retard (%)").
				CharLimit(6).
				Value(&w.gPenalty),
			huh.NewInput().
				Title("Acompte à la signature (%)").
				CharLimit(6).
				Value(&w.gDeposit),
			huh.NewSelect[string]().
				Title("Mode de règlement").
				Options(paymentModeOptions...).
				Value(&w.gMode),
			huh.NewInput().
				Title("Tribunal compétent (ville)").
				Value(&w.gCourt),
		).Title("Étape 3 : Conditions générales").
			Description("Modalités de règlement et juridiction"),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) createCabinetForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Nom du cabinet").
				Value(&w.bName),
			huh.NewInput().
				Title("Adresse").
				Value(&w.bAddress),
			huh.NewInput().
				Title("Code postal").
				CharLimit(5).
				Value(&w.bPostalCode),
			huh.NewInput().
				Title("Ville").
				Value(&w.bCity),
			huh.NewInput().
				Title("Téléphone").
				CharLimit(20).
				Value(&w.bPhone),
			huh.NewInput().
				Title("Email").
				Value(&w.bEmail),
			huh.NewInput().
				Title("SIREN").
				CharLimit(9).
				Value(&w.bSIREN),
			huh.NewInput().
				Title("Numéro d'inscription à l'ordre").
				Value(&w.bRegistration),
		).Title("Étape 4 : Cabinet").
			Description("Identité du cabinet signataire"),
	).WithTheme(styles.FormTheme())
}
