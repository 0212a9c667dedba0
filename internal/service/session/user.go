package session

import (
	"encoding/json"
	"errors"
	"slices"
	"time"

	"github.com/janisto/loveconnect/internal/platform/timeutil"
)

// Limits enforced by the profile-setup steps before their data reaches a patch.
const (
	MaxPhotos    = 6
	MaxInterests = 10
	MaxBioLength = 500
)

// Gender is the self-reported gender of a user.
type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderNonBinary Gender = "non-binary"
	GenderOther     Gender = "other"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNonBinary, GenderOther:
		return true
	}
	return false
}

// Location is where the user is, as reported by the device.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
}

// Preferences describe who the user wants to be shown.
// AgeRange[0] < AgeRange[1] and MaxDistance > 0.
type Preferences struct {
	AgeRange     [2]int   `json:"ageRange"`
	MaxDistance  float64  `json:"maxDistance"`
	DealBreakers []string `json:"dealBreakers,omitempty"`
}

// User is the single account held by the session.
type User struct {
	ID                string
	Email             string
	PhoneNumber       string
	FullName          string
	DateOfBirth       *time.Time
	Gender            Gender
	Pronouns          string
	Location          *Location
	Photos            []string
	Bio               string
	Interests         []string
	Preferences       *Preferences
	IsVerified        bool
	IsProfileComplete bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.DateOfBirth != nil {
		dob := *u.DateOfBirth
		c.DateOfBirth = &dob
	}
	if u.Location != nil {
		loc := *u.Location
		c.Location = &loc
	}
	if u.Preferences != nil {
		prefs := *u.Preferences
		prefs.DealBreakers = slices.Clone(u.Preferences.DealBreakers)
		c.Preferences = &prefs
	}
	c.Photos = slices.Clone(u.Photos)
	c.Interests = slices.Clone(u.Interests)
	return &c
}

// UserPatch is a partial User. A nil field is absent and leaves the
// corresponding User field untouched; a non-nil field replaces it.
//
// ID, CreatedAt, UpdatedAt and IsVerified are not patchable. IsProfileComplete
// can only be raised: a patch carrying false never clears a completed profile.
type UserPatch struct {
	Email             *string
	PhoneNumber       *string
	FullName          *string
	DateOfBirth       *time.Time
	Gender            *Gender
	Pronouns          *string
	Location          *Location
	Photos            *[]string
	Bio               *string
	Interests         *[]string
	Preferences       *Preferences
	IsProfileComplete *bool
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T {
	return &v
}

// Merge returns p with every field present in other overwriting p's value.
func (p UserPatch) Merge(other UserPatch) UserPatch {
	mergeField(&p.Email, other.Email)
	mergeField(&p.PhoneNumber, other.PhoneNumber)
	mergeField(&p.FullName, other.FullName)
	mergeField(&p.DateOfBirth, other.DateOfBirth)
	mergeField(&p.Gender, other.Gender)
	mergeField(&p.Pronouns, other.Pronouns)
	mergeField(&p.Location, other.Location)
	mergeField(&p.Photos, other.Photos)
	mergeField(&p.Bio, other.Bio)
	mergeField(&p.Interests, other.Interests)
	mergeField(&p.Preferences, other.Preferences)
	mergeField(&p.IsProfileComplete, other.IsProfileComplete)
	return p
}

func mergeField[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

// Clone returns a copy of p that shares no memory with it.
func (p UserPatch) Clone() UserPatch {
	c := p
	c.Email = clonePtr(p.Email)
	c.PhoneNumber = clonePtr(p.PhoneNumber)
	c.FullName = clonePtr(p.FullName)
	c.DateOfBirth = clonePtr(p.DateOfBirth)
	c.Gender = clonePtr(p.Gender)
	c.Pronouns = clonePtr(p.Pronouns)
	c.Location = clonePtr(p.Location)
	c.Photos = cloneSlicePtr(p.Photos)
	c.Bio = clonePtr(p.Bio)
	c.Interests = cloneSlicePtr(p.Interests)
	if p.Preferences != nil {
		prefs := *p.Preferences
		prefs.DealBreakers = slices.Clone(p.Preferences.DealBreakers)
		c.Preferences = &prefs
	}
	c.IsProfileComplete = clonePtr(p.IsProfileComplete)
	return c
}

func cloneSlicePtr[T any](v *[]T) *[]T {
	if v == nil {
		return nil
	}
	c := slices.Clone(*v)
	return &c
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Fields lists the JSON names of the fields present in p.
func (p UserPatch) Fields() []string {
	var fields []string
	add := func(present bool, name string) {
		if present {
			fields = append(fields, name)
		}
	}
	add(p.Email != nil, "email")
	add(p.PhoneNumber != nil, "phoneNumber")
	add(p.FullName != nil, "fullName")
	add(p.DateOfBirth != nil, "dateOfBirth")
	add(p.Gender != nil, "gender")
	add(p.Pronouns != nil, "pronouns")
	add(p.Location != nil, "location")
	add(p.Photos != nil, "photos")
	add(p.Bio != nil, "bio")
	add(p.Interests != nil, "interests")
	add(p.Preferences != nil, "preferences")
	add(p.IsProfileComplete != nil, "isProfileComplete")
	return fields
}

// IsEmpty reports whether p carries no fields.
func (p UserPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// apply overwrites u's fields with the ones present in p. Values are copied
// so later changes to the patch do not leak into u.
func apply(u *User, p UserPatch) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
	if p.FullName != nil {
		u.FullName = *p.FullName
	}
	if p.DateOfBirth != nil {
		dob := *p.DateOfBirth
		u.DateOfBirth = &dob
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.Pronouns != nil {
		u.Pronouns = *p.Pronouns
	}
	if p.Location != nil {
		loc := *p.Location
		u.Location = &loc
	}
	if p.Photos != nil {
		u.Photos = slices.Clone(*p.Photos)
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Interests != nil {
		u.Interests = slices.Clone(*p.Interests)
	}
	if p.Preferences != nil {
		prefs := *p.Preferences
		prefs.DealBreakers = slices.Clone(p.Preferences.DealBreakers)
		u.Preferences = &prefs
	}
	if p.IsProfileComplete != nil && *p.IsProfileComplete {
		u.IsProfileComplete = true
	}
}

// userRecord is the persisted JSON form of a User, the same shape the app
// shell writes under the "user" key.
type userRecord struct {
	ID                string         `json:"id"`
	Email             string         `json:"email,omitempty"`
	PhoneNumber       string         `json:"phoneNumber,omitempty"`
	FullName          string         `json:"fullName,omitempty"`
	DateOfBirth       *timeutil.Time `json:"dateOfBirth,omitempty"`
	Gender            Gender         `json:"gender,omitempty"`
	Pronouns          string         `json:"pronouns,omitempty"`
	Location          *Location      `json:"location,omitempty"`
	Photos            []string       `json:"photos,omitempty"`
	Bio               string         `json:"bio,omitempty"`
	Interests         []string       `json:"interests,omitempty"`
	Preferences       *Preferences   `json:"preferences,omitempty"`
	IsVerified        bool           `json:"isVerified"`
	IsProfileComplete bool           `json:"isProfileComplete"`
	CreatedAt         timeutil.Time  `json:"createdAt"`
	UpdatedAt         timeutil.Time  `json:"updatedAt"`
}

var errMissingID = errors.New("stored user has no id")

func encodeUser(u *User) (string, error) {
	rec := userRecord{
		ID:                u.ID,
		Email:             u.Email,
		PhoneNumber:       u.PhoneNumber,
		FullName:          u.FullName,
		Gender:            u.Gender,
		Pronouns:          u.Pronouns,
		Location:          u.Location,
		Photos:            u.Photos,
		Bio:               u.Bio,
		Interests:         u.Interests,
		Preferences:       u.Preferences,
		IsVerified:        u.IsVerified,
		IsProfileComplete: u.IsProfileComplete,
		CreatedAt:         timeutil.NewTime(u.CreatedAt),
		UpdatedAt:         timeutil.NewTime(u.UpdatedAt),
	}
	if u.DateOfBirth != nil {
		dob := timeutil.NewTime(*u.DateOfBirth)
		rec.DateOfBirth = &dob
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeUser(raw string) (*User, error) {
	var rec userRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		return nil, errMissingID
	}
	u := &User{
		ID:                rec.ID,
		Email:             rec.Email,
		PhoneNumber:       rec.PhoneNumber,
		FullName:          rec.FullName,
		Gender:            rec.Gender,
		Pronouns:          rec.Pronouns,
		Location:          rec.Location,
		Photos:            rec.Photos,
		Bio:               rec.Bio,
		Interests:         rec.Interests,
		Preferences:       rec.Preferences,
		IsVerified:        rec.IsVerified,
		IsProfileComplete: rec.IsProfileComplete,
		CreatedAt:         rec.CreatedAt.UTC(),
		UpdatedAt:         rec.UpdatedAt.UTC(),
	}
	if rec.DateOfBirth != nil {
		dob := rec.DateOfBirth.UTC()
		u.DateOfBirth = &dob
	}
	return u, nil
}
