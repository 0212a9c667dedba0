package profilesetup

import (
	sessionhttp "github.com/janisto/loveconnect/internal/http/v1/session"
	profilesetupsvc "github.com/janisto/loveconnect/internal/service/profilesetup"
)

// Wizard is the wizard cursor and draft.
type Wizard struct {
	Step               string                  `json:"step"               doc:"Current step"                 example:"basic-info" enum:"basic-info,location,photos,bio,interests,preferences"`
	Title              string                  `json:"title"              doc:"Heading for the current step" example:"Basic Info"`
	Number             int                     `json:"number"             doc:"1-based step number"          example:"1"`
	Total              int                     `json:"total"              doc:"Number of steps"              example:"6"`
	IsLast             bool                    `json:"isLast"             doc:"Current step is the last one" example:"false"`
	Draft              sessionhttp.UserPatch   `json:"draft"              doc:"Answers collected so far"`
	DefaultPreferences sessionhttp.Preferences `json:"defaultPreferences" doc:"Preferences the preferences step starts from"`
}

// WizardInput is a request without parameters.
type WizardInput struct{}

// UpdateInput merges answers into the draft.
type UpdateInput struct {
	Body sessionhttp.UserPatch
}

// WizardOutput is the wizard state.
type WizardOutput struct {
	Body Wizard
}

// AdvanceOutput reports whether advancing finished the wizard.
type AdvanceOutput struct {
	Body struct {
		Completed bool   `json:"completed" doc:"The draft was saved to the user" example:"false"`
		Wizard    Wizard `json:"wizard"    doc:"Wizard state after the call"`
	}
}

func toHTTPWizard(s profilesetupsvc.State) Wizard {
	return Wizard{
		Step:               s.Step.String(),
		Title:              s.Step.Title(),
		Number:             s.Step.Number(),
		Total:              profilesetupsvc.StepCount,
		IsLast:             s.Step.IsLast(),
		Draft:              sessionhttp.PatchFromService(s.Draft),
		DefaultPreferences: *sessionhttp.PreferencesFromService(profilesetupsvc.DefaultPreferences()),
	}
}
