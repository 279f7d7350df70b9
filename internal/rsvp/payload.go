package rsvp

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"wedding-site/internal/models"
)

// Payload is the body posted to the form collaborator.
type Payload struct {
	Name                string              `json:"name"`
	Email               string              `json:"email"`
	Attendance          models.Attendance   `json:"attendance"`
	Meals               []models.MealChoice `json:"meals,omitempty"`
	DietaryRestrictions string              `json:"dietaryRestrictions,omitempty"`
	SongRequest         string              `json:"songRequest,omitempty"`
}

// Submission is one delivery request. GuestID stays local and is never posted.
type Submission struct {
	GuestID string
	Payload Payload
}

// BuildPayload flattens the form into the collaborator's schema: names are
// trimmed and joined by a single space, meals are sent only when attending.
func BuildPayload(r models.RSVP) Payload {
	p := Payload{
		Name:                strings.Join(trimmedNames(r.Names), " "),
		Email:               strings.TrimSpace(r.Email),
		Attendance:          r.Attendance,
		DietaryRestrictions: strings.TrimSpace(r.DietaryRestrictions),
		SongRequest:         strings.TrimSpace(r.SongRequest),
	}
	if r.Attendance == models.AttendanceYes {
		for _, m := range r.Meals {
			if strings.TrimSpace(m.Name) == "" {
				continue
			}
			p.Meals = append(p.Meals, models.MealChoice{
				Name:    strings.TrimSpace(m.Name),
				Starter: strings.TrimSpace(m.Starter),
				Main:    strings.TrimSpace(m.Main),
			})
		}
	}
	return p
}

// Fingerprint identifies identical payloads.
func (p Payload) Fingerprint() string {
	data, _ := json.Marshal(p)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
