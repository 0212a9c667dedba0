package session

// SessionGetInput for GET /session (no body needed)
type SessionGetInput struct{}

// LoginInput for POST /session/login
type LoginInput struct {
	Body struct {
		Identifier string `json:"identifier" minLength:"1" maxLength:"254"  required:"true" doc:"Email address or phone number"                example:"jane@example.com"`
		Credential string `json:"credential" minLength:"1" maxLength:"4096" required:"true" doc:"Password, or an ID token in firebase auth mode" example:"correct horse"`
	}
}

// RegisterInput for POST /session/register. At least one of email and
// phoneNumber must be present.
type RegisterInput struct {
	Body UserPatch
}

// LogoutInput for DELETE /session (no body needed)
type LogoutInput struct{}

// UpdateUserInput for PATCH /session/user
type UpdateUserInput struct {
	Body UserPatch
}

// VerifyInput for POST /session/verify
type VerifyInput struct {
	Body struct {
		Code string `json:"code" pattern:"^[0-9]{6}$" required:"true" doc:"Six-digit verification code" example:"123456"`
	}
}

// ResendInput for POST /session/resend (no body needed)
type ResendInput struct{}
