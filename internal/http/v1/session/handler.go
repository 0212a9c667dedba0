package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	sessionsvc "github.com/janisto/loveconnect/internal/service/session"
	"github.com/janisto/loveconnect/internal/service/verification"
)

var errInvalidAgeRange = errors.New("preferences.ageRange minimum must be below maximum")

// Service is the session behaviour the handlers need. *sessionsvc.Holder implements it.
type Service interface {
	Snapshot() sessionsvc.Snapshot
	Login(ctx context.Context, identifier, credential string) (bool, error)
	Register(ctx context.Context, patch sessionsvc.UserPatch) (bool, error)
	Logout(ctx context.Context) error
	UpdateUser(ctx context.Context, patch sessionsvc.UserPatch) (bool, error)
	VerifyOTP(ctx context.Context, code string) (bool, error)
	ResendOTP(ctx context.Context) (bool, error)
}

// Register registers session endpoints.
func Register(api huma.API, svc Service) {
	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/session",
		Summary:     "Get session",
		Description: "Returns the current session and the screen the app shell should route to.",
		Tags:        []string{"Session"},
	}, func(_ context.Context, _ *SessionGetInput) (*SessionOutput, error) {
		return sessionOutput(svc), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/session/login",
		Summary:     "Log in",
		Description: "Signs in an existing account. The account is verified and its profile complete.",
		Tags:        []string{"Session"},
	}, func(ctx context.Context, input *LoginInput) (*SessionOutput, error) {
		ok, err := svc.Login(ctx, input.Body.Identifier, input.Body.Credential)
		if err != nil {
			return nil, mapServiceError(err)
		}
		if !ok {
			return nil, huma.Error401Unauthorized("invalid credentials")
		}
		return sessionOutput(svc), nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/session/register",
		Summary:       "Register",
		Description:   "Creates an unverified account from the supplied fields and signs it in. A verification code is sent to its email or phone.",
		Tags:          []string{"Session"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *RegisterInput) (*SessionOutput, error) {
		if input.Body.Email == nil && input.Body.PhoneNumber == nil {
			return nil, huma.Error422UnprocessableEntity("email or phoneNumber is required")
		}
		if err := ValidatePreferences(input.Body.Preferences); err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		ok, err := svc.Register(ctx, input.Body.ToService())
		if err != nil {
			return nil, mapServiceError(err)
		}
		if !ok {
			return nil, huma.Error500InternalServerError("registration failed")
		}
		return sessionOutput(svc), nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "logout",
		Method:        http.MethodDelete,
		Path:          "/session",
		Summary:       "Log out",
		Description:   "Signs out and forgets the stored user. Logging out with no session succeeds.",
		Tags:          []string{"Session"},
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, _ *LogoutInput) (*struct{}, error) {
		if err := svc.Logout(ctx); err != nil {
			return nil, mapServiceError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-user",
		Method:      http.MethodPatch,
		Path:        "/session/user",
		Summary:     "Update signed-in user",
		Description: "Merges the supplied fields into the signed-in user. Only provided fields are updated.",
		Tags:        []string{"Session"},
	}, func(ctx context.Context, input *UpdateUserInput) (*SessionOutput, error) {
		if input.Body.IsEmpty() {
			return nil, huma.Error422UnprocessableEntity("at least one field must be provided")
		}
		if err := ValidatePreferences(input.Body.Preferences); err != nil {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		ok, err := svc.UpdateUser(ctx, input.Body.ToService())
		if err != nil {
			return nil, mapServiceError(err)
		}
		if !ok {
			return nil, errNoSession()
		}
		return sessionOutput(svc), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "verify-code",
		Method:      http.MethodPost,
		Path:        "/session/verify",
		Summary:     "Verify code",
		Description: "Checks a verification code and marks the signed-in user verified.",
		Tags:        []string{"Session"},
	}, func(ctx context.Context, input *VerifyInput) (*SessionOutput, error) {
		if !svc.Snapshot().IsAuthenticated {
			return nil, errNoSession()
		}
		ok, err := svc.VerifyOTP(ctx, input.Body.Code)
		if err != nil {
			return nil, mapServiceError(err)
		}
		if !ok {
			return nil, huma.Error422UnprocessableEntity("invalid verification code")
		}
		return sessionOutput(svc), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "resend-code",
		Method:      http.MethodPost,
		Path:        "/session/resend",
		Summary:     "Resend code",
		Description: "Issues a new verification code to the signed-in user.",
		Tags:        []string{"Session"},
	}, func(ctx context.Context, _ *ResendInput) (*ResendOutput, error) {
		if !svc.Snapshot().IsAuthenticated {
			return nil, errNoSession()
		}
		ok, err := svc.ResendOTP(ctx)
		if err != nil {
			return nil, mapServiceError(err)
		}
		out := &ResendOutput{}
		out.Body.Sent = ok
		return out, nil
	})
}

func sessionOutput(svc Service) *SessionOutput {
	return &SessionOutput{Body: toHTTPSession(svc.Snapshot())}
}

func errNoSession() error {
	return huma.Error401Unauthorized("no active session")
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, sessionsvc.ErrStore):
		return huma.Error503ServiceUnavailable("session store unavailable")
	case errors.Is(err, verification.ErrNoRecipient):
		return huma.Error422UnprocessableEntity("account has no email or phone number to send a code to")
	case errors.Is(err, context.DeadlineExceeded):
		return huma.Error504GatewayTimeout("operation timed out")
	default:
		return huma.Error500InternalServerError("internal error")
	}
}
