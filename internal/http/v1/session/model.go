package session

import (
	"time"

	"github.com/janisto/loveconnect/internal/platform/timeutil"
	sessionsvc "github.com/janisto/loveconnect/internal/service/session"
)

// Location is where the user is.
type Location struct {
	Latitude  float64 `json:"latitude"         minimum:"-90"  maximum:"90"  doc:"Latitude"  example:"30.2672"`
	Longitude float64 `json:"longitude"        minimum:"-180" maximum:"180" doc:"Longitude" example:"-97.7431"`
	City      string  `json:"city,omitempty"   maxLength:"100"              doc:"City"      example:"Austin"`
	State     string  `json:"state,omitempty"  maxLength:"100"              doc:"State"     example:"TX"`
}

// Preferences describe who the user wants to see.
type Preferences struct {
	AgeRange     []int    `json:"ageRange"               minItems:"2" maxItems:"2"   doc:"Minimum and maximum age"  example:"[22,35]"`
	MaxDistance  float64  `json:"maxDistance"            exclusiveMinimum:"0"        doc:"Maximum distance (miles)" example:"50"`
	DealBreakers []string `json:"dealBreakers,omitempty" maxItems:"20"               doc:"Deal breakers"`
}

// User is the signed-in account.
type User struct {
	ID                string         `json:"id"                    doc:"Account identifier"       example:"3f0c1d2e-8b9a-4c7d-9e6f-5a4b3c2d1e0f"`
	Email             string         `json:"email,omitempty"       doc:"Email address"            example:"jane@example.com"`
	PhoneNumber       string         `json:"phoneNumber,omitempty" doc:"Phone number (E.164)"     example:"+15551234567"`
	FullName          string         `json:"fullName,omitempty"    doc:"Full name"                example:"Jane Doe"`
	DateOfBirth       *timeutil.Time `json:"dateOfBirth,omitempty" doc:"Date of birth"            example:"1995-06-01T00:00:00.000Z"`
	Gender            string         `json:"gender,omitempty"      doc:"Gender"                   example:"female"`
	Pronouns          string         `json:"pronouns,omitempty"    doc:"Pronouns"                 example:"she/her"`
	Location          *Location      `json:"location,omitempty"    doc:"Location"`
	Photos            []string       `json:"photos,omitempty"      doc:"Photo references"`
	Bio               string         `json:"bio,omitempty"         doc:"About the user"`
	Interests         []string       `json:"interests,omitempty"   doc:"Interests"`
	Preferences       *Preferences   `json:"preferences,omitempty" doc:"Match preferences"`
	IsVerified        bool           `json:"isVerified"            doc:"Contact verified"         example:"true"`
	IsProfileComplete bool           `json:"isProfileComplete"     doc:"Profile setup finished"   example:"false"`
	CreatedAt         timeutil.Time  `json:"createdAt"             doc:"Creation timestamp"       example:"2024-01-15T10:30:00.000Z"`
	UpdatedAt         timeutil.Time  `json:"updatedAt"             doc:"Last update timestamp"    example:"2024-01-15T10:30:00.000Z"`
}

// Session is the session snapshot plus the routing decision derived from it.
type Session struct {
	User            *User  `json:"user"            doc:"Signed-in user, null when signed out"`
	IsLoading       bool   `json:"isLoading"       doc:"Session not yet restored"              example:"false"`
	IsAuthenticated bool   `json:"isAuthenticated" doc:"A user is signed in"                   example:"true"`
	State           string `json:"state"           doc:"Authentication state"                  example:"unverified" enum:"unauthenticated,unverified,profile_incomplete,active"`
	NextScreen      string `json:"nextScreen"      doc:"Screen the app shell should show next" example:"verification" enum:"splash,onboarding,verification,profile-setup,home"`
}

// UserPatch carries the user fields a request may set. Absent fields are left untouched.
type UserPatch struct {
	Email       *string      `json:"email,omitempty"       format:"email"                                            doc:"Email address"        example:"jane@example.com"`
	PhoneNumber *string      `json:"phoneNumber,omitempty" pattern:"^\\+[1-9]\\d{6,14}$"                             doc:"Phone number (E.164)" example:"+15551234567"`
	FullName    *string      `json:"fullName,omitempty"    minLength:"1" maxLength:"100"                             doc:"Full name"            example:"Jane Doe"`
	DateOfBirth *time.Time   `json:"dateOfBirth,omitempty"                                                           doc:"Date of birth"        example:"1995-06-01T00:00:00Z"`
	Gender      *string      `json:"gender,omitempty"      enum:"male,female,non-binary,other"                       doc:"Gender"               example:"female"`
	Pronouns    *string      `json:"pronouns,omitempty"    maxLength:"50"                                            doc:"Pronouns"             example:"she/her"`
	Location    *Location    `json:"location,omitempty"                                                              doc:"Location"`
	Photos      *[]string    `json:"photos,omitempty"      maxItems:"6"                                              doc:"Photo references"`
	Bio         *string      `json:"bio,omitempty"         maxLength:"500"                                           doc:"About the user"`
	Interests   *[]string    `json:"interests,omitempty"   maxItems:"10"                                             doc:"Interests"`
	Preferences *Preferences `json:"preferences,omitempty"                                                           doc:"Match preferences"`
}

// IsEmpty reports whether no field is present.
func (p UserPatch) IsEmpty() bool {
	return p.Email == nil && p.PhoneNumber == nil && p.FullName == nil && p.DateOfBirth == nil &&
		p.Gender == nil && p.Pronouns == nil && p.Location == nil && p.Photos == nil &&
		p.Bio == nil && p.Interests == nil && p.Preferences == nil
}

// ToService converts p into a service patch. Preferences must already have
// passed ValidatePreferences.
func (p UserPatch) ToService() sessionsvc.UserPatch {
	out := sessionsvc.UserPatch{
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		FullName:    p.FullName,
		Pronouns:    p.Pronouns,
		Photos:      p.Photos,
		Bio:         p.Bio,
		Interests:   p.Interests,
	}
	if p.DateOfBirth != nil {
		out.DateOfBirth = sessionsvc.Ptr(p.DateOfBirth.UTC())
	}
	if p.Gender != nil {
		out.Gender = sessionsvc.Ptr(sessionsvc.Gender(*p.Gender))
	}
	if p.Location != nil {
		out.Location = &sessionsvc.Location{
			Latitude:  p.Location.Latitude,
			Longitude: p.Location.Longitude,
			City:      p.Location.City,
			State:     p.Location.State,
		}
	}
	if p.Preferences != nil {
		out.Preferences = &sessionsvc.Preferences{
			AgeRange:     [2]int{p.Preferences.AgeRange[0], p.Preferences.AgeRange[1]},
			MaxDistance:  p.Preferences.MaxDistance,
			DealBreakers: p.Preferences.DealBreakers,
		}
	}
	return out
}

// ValidatePreferences checks the constraint the schema cannot express: the
// age range minimum must be below its maximum.
func ValidatePreferences(p *Preferences) error {
	if p == nil {
		return nil
	}
	if len(p.AgeRange) != 2 || p.AgeRange[0] >= p.AgeRange[1] {
		return errInvalidAgeRange
	}
	return nil
}

// FromService converts a service user to its HTTP form.
func FromService(u *sessionsvc.User) *User {
	if u == nil {
		return nil
	}
	out := &User{
		ID:                u.ID,
		Email:             u.Email,
		PhoneNumber:       u.PhoneNumber,
		FullName:          u.FullName,
		Gender:            string(u.Gender),
		Pronouns:          u.Pronouns,
		Photos:            u.Photos,
		Bio:               u.Bio,
		Interests:         u.Interests,
		IsVerified:        u.IsVerified,
		IsProfileComplete: u.IsProfileComplete,
		CreatedAt:         timeutil.NewTime(u.CreatedAt),
		UpdatedAt:         timeutil.NewTime(u.UpdatedAt),
	}
	if u.DateOfBirth != nil {
		dob := timeutil.NewTime(*u.DateOfBirth)
		out.DateOfBirth = &dob
	}
	if u.Location != nil {
		out.Location = &Location{
			Latitude:  u.Location.Latitude,
			Longitude: u.Location.Longitude,
			City:      u.Location.City,
			State:     u.Location.State,
		}
	}
	if u.Preferences != nil {
		out.Preferences = PreferencesFromService(*u.Preferences)
	}
	return out
}

// PreferencesFromService converts service preferences to their HTTP form.
func PreferencesFromService(p sessionsvc.Preferences) *Preferences {
	return &Preferences{
		AgeRange:     []int{p.AgeRange[0], p.AgeRange[1]},
		MaxDistance:  p.MaxDistance,
		DealBreakers: p.DealBreakers,
	}
}

func toHTTPSession(s sessionsvc.Snapshot) Session {
	return Session{
		User:            FromService(s.User),
		IsLoading:       s.IsLoading,
		IsAuthenticated: s.IsAuthenticated,
		State:           s.State().String(),
		NextScreen:      string(s.NextScreen()),
	}
}

// PatchFromService converts a service patch to its HTTP form. The
// profile-complete flag is not part of the HTTP patch and is dropped.
func PatchFromService(p sessionsvc.UserPatch) UserPatch {
	out := UserPatch{
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		FullName:    p.FullName,
		DateOfBirth: p.DateOfBirth,
		Pronouns:    p.Pronouns,
		Photos:      p.Photos,
		Bio:         p.Bio,
		Interests:   p.Interests,
	}
	if p.Gender != nil {
		out.Gender = sessionsvc.Ptr(string(*p.Gender))
	}
	if p.Location != nil {
		out.Location = &Location{
			Latitude:  p.Location.Latitude,
			Longitude: p.Location.Longitude,
			City:      p.Location.City,
			State:     p.Location.State,
		}
	}
	if p.Preferences != nil {
		out.Preferences = PreferencesFromService(*p.Preferences)
	}
	return out
}
