package profilesetup

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	sessionhttp "github.com/janisto/loveconnect/internal/http/v1/session"
	profilesetupsvc "github.com/janisto/loveconnect/internal/service/profilesetup"
	sessionsvc "github.com/janisto/loveconnect/internal/service/session"
)

// Service is the wizard behaviour the handlers need. *profilesetupsvc.Wizard implements it.
type Service interface {
	State() profilesetupsvc.State
	Update(patch sessionsvc.UserPatch)
	Advance(ctx context.Context) (bool, error)
	Retreat()
	Complete(ctx context.Context) error
}

// Register registers profile setup endpoints.
func Register(api huma.API, svc Service) {
	huma.Register(api, huma.Operation{
		OperationID: "get-profile-setup",
		Method:      http.MethodGet,
		Path:        "/profile-setup",
		Summary:     "Get profile setup",
		Description: "Returns the current wizard step and the answers collected so far.",
		Tags:        []string{"Profile setup"},
	}, func(_ context.Context, _ *WizardInput) (*WizardOutput, error) {
		return wizardOutput(svc), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-profile-setup",
		Method:      http.MethodPatch,
		Path:        "/profile-setup",
		Summary:     "Update profile setup answers",
		Description: "Merges answers into the draft. Nothing is saved to the user until the wizard completes.",
		Tags:        []string{"Profile setup"},
	}, func(_ context.Context, input *UpdateInput) (*WizardOutput, error) {
		if input.Body.IsEmpty() {
			return nil, huma.Error422UnprocessableEntity("at least one field must be provided")
		}
		if err := sessionhttp.ValidatePreferences(input.Body.Preferences); err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		svc.Update(input.Body.ToService())
		return wizardOutput(svc), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "advance-profile-setup",
		Method:      http.MethodPost,
		Path:        "/profile-setup/advance",
		Summary:     "Next step",
		Description: "Moves to the next step. On the last step the draft is saved to the signed-in user and the profile marked complete.",
		Tags:        []string{"Profile setup"},
	}, func(ctx context.Context, _ *WizardInput) (*AdvanceOutput, error) {
		completed, err := svc.Advance(ctx)
		if err != nil {
			return nil, mapServiceError(err)
		}
		out := &AdvanceOutput{}
		out.Body.Completed = completed
		out.Body.Wizard = toHTTPWizard(svc.State())
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "retreat-profile-setup",
		Method:      http.MethodPost,
		Path:        "/profile-setup/retreat",
		Summary:     "Previous step",
		Description: "Moves to the previous step. Has no effect on the first step.",
		Tags:        []string{"Profile setup"},
	}, func(_ context.Context, _ *WizardInput) (*WizardOutput, error) {
		svc.Retreat()
		return wizardOutput(svc), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "complete-profile-setup",
		Method:      http.MethodPost,
		Path:        "/profile-setup/complete",
		Summary:     "Complete profile setup",
		Description: "Saves the draft to the signed-in user from any step and marks the profile complete.",
		Tags:        []string{"Profile setup"},
	}, func(ctx context.Context, _ *WizardInput) (*WizardOutput, error) {
		if err := svc.Complete(ctx); err != nil {
			return nil, mapServiceError(err)
		}
		return wizardOutput(svc), nil
	})
}

func wizardOutput(svc Service) *WizardOutput {
	return &WizardOutput{Body: toHTTPWizard(svc.State())}
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, sessionsvc.ErrNoSession):
		return huma.Error401Unauthorized("no active session")
	case errors.Is(err, sessionsvc.ErrStore):
		return huma.Error503ServiceUnavailable("session store unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		return huma.Error504GatewayTimeout("operation timed out")
	default:
		return huma.Error500InternalServerError("internal error")
	}
}
