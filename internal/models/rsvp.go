package models

import "time"

// RSVP is the editable state of the RSVP form
type RSVP struct {
	Names               []string     `json:"names" validate:"anynonblank"`
	Email               string       `json:"email" validate:"required,email"`
	Attendance          Attendance   `json:"attendance" validate:"required,oneof=yes no"`
	Meals               []MealChoice `json:"meals,omitempty"`
	DietaryRestrictions string       `json:"dietaryRestrictions,omitempty"`
	SongRequest         string       `json:"songRequest,omitempty"`
}

// MealChoice is the menu selection for one named guest
type MealChoice struct {
	Name    string `json:"name"`
	Starter string `json:"starter,omitempty"`
	Main    string `json:"main"`
}

// Clone returns a deep copy so callers can't mutate form state through slices
func (r RSVP) Clone() RSVP {
	out := r
	out.Names = append([]string(nil), r.Names...)
	out.Meals = append([]MealChoice(nil), r.Meals...)
	return out
}

// Response is a delivered RSVP as kept in the response journal
type Response struct {
	ID                  string       `json:"id"`
	GuestID             string       `json:"guest_id,omitempty"`
	Name                string       `json:"name"`
	Email               string       `json:"email"`
	Attendance          Attendance   `json:"attendance"`
	Meals               []MealChoice `json:"meals,omitempty"`
	DietaryRestrictions string       `json:"dietary_restrictions,omitempty"`
	SongRequest         string       `json:"song_request,omitempty"`
	SubmittedAt         time.Time    `json:"submitted_at"`
}
