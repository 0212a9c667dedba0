package session

// SessionOutput is returned by every operation that changes or reads the session.
type SessionOutput struct {
	Body Session
}

// ResendOutput for POST /session/resend
type ResendOutput struct {
	Body struct {
		Sent bool `json:"sent" doc:"A new code was issued" example:"true"`
	}
}
