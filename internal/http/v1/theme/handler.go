package theme

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	themesvc "github.com/janisto/loveconnect/internal/service/theme"
)

// Service is the theme behaviour the handlers need. *themesvc.Holder implements it.
type Service interface {
	Mode() themesvc.Mode
	Toggle(ctx context.Context) themesvc.Mode
}

// Theme is the selected mode and its palette.
type Theme struct {
	Mode    string           `json:"mode"    doc:"Selected mode"                example:"light" enum:"light,dark"`
	IsDark  bool             `json:"isDark"  doc:"Dark mode is selected"        example:"false"`
	Palette themesvc.Palette `json:"palette" doc:"Colors for the selected mode"`
}

// ThemeInput is a request without parameters.
type ThemeInput struct{}

// ThemeOutput is the theme response.
type ThemeOutput struct {
	Body Theme
}

// Register registers theme endpoints.
func Register(api huma.API, svc Service) {
	huma.Register(api, huma.Operation{
		OperationID: "get-theme",
		Method:      http.MethodGet,
		Path:        "/theme",
		Summary:     "Get theme",
		Description: "Returns the selected color mode and its palette.",
		Tags:        []string{"Theme"},
	}, func(_ context.Context, _ *ThemeInput) (*ThemeOutput, error) {
		return themeOutput(svc.Mode()), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-theme",
		Method:      http.MethodPost,
		Path:        "/theme/toggle",
		Summary:     "Toggle theme",
		Description: "Switches between light and dark mode. The switch applies even if saving the preference fails.",
		Tags:        []string{"Theme"},
	}, func(ctx context.Context, _ *ThemeInput) (*ThemeOutput, error) {
		return themeOutput(svc.Toggle(ctx)), nil
	})
}

func themeOutput(mode themesvc.Mode) *ThemeOutput {
	return &ThemeOutput{Body: Theme{
		Mode:    string(mode),
		IsDark:  mode == themesvc.ModeDark,
		Palette: themesvc.PaletteFor(mode),
	}}
}
