package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/loveconnect/internal/http/v1/profilesetup"
	"github.com/janisto/loveconnect/internal/http/v1/session"
	"github.com/janisto/loveconnect/internal/http/v1/theme"
)

// Services are the in-process state holders the API exposes.
type Services struct {
	Session      session.Service
	ProfileSetup profilesetup.Service
	Theme        theme.Service
}

// Register wires all HTTP routes into the provided API router.
func Register(api huma.API, svc Services) {
	session.Register(api, svc.Session)
	profilesetup.Register(api, svc.ProfileSetup)
	theme.Register(api, svc.Theme)
}
