package session

// State is the authentication state derived from the current user.
type State int

const (
	StateUnauthenticated State = iota
	StateUnverified
	StateProfileIncomplete
	StateActive
)

func (s State) String() string {
	switch s {
	case StateUnverified:
		return "unverified"
	case StateProfileIncomplete:
		return "profile_incomplete"
	case StateActive:
		return "active"
	default:
		return "unauthenticated"
	}
}

// Screen names the app screen the shell routes to for a session.
type Screen string

const (
	ScreenSplash       Screen = "splash"
	ScreenOnboarding   Screen = "onboarding"
	ScreenVerification Screen = "verification"
	ScreenProfileSetup Screen = "profile-setup"
	ScreenHome         Screen = "home"
)

// Snapshot is a point-in-time copy of the session. User is nil when nobody is
// logged in and is never shared with the holder.
type Snapshot struct {
	User            *User
	IsLoading       bool
	IsAuthenticated bool
}

// State derives the authentication state from the snapshot's user flags.
func (s Snapshot) State() State {
	switch {
	case s.User == nil:
		return StateUnauthenticated
	case !s.User.IsVerified:
		return StateUnverified
	case !s.User.IsProfileComplete:
		return StateProfileIncomplete
	default:
		return StateActive
	}
}

// NextScreen returns where the shell should send the user.
func (s Snapshot) NextScreen() Screen {
	if s.IsLoading {
		return ScreenSplash
	}
	switch s.State() {
	case StateUnverified:
		return ScreenVerification
	case StateProfileIncomplete:
		return ScreenProfileSetup
	case StateActive:
		return ScreenHome
	default:
		return ScreenOnboarding
	}
}
