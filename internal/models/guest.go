package models

import "strings"

// GuestRecord represents one invitation in the guest directory
type GuestRecord struct {
	Names []string `json:"names"`
	Email string   `json:"email,omitempty"`
	Phone string   `json:"phone,omitempty"`
}

// DisplayNames returns the trimmed, non-blank names in their original order
func (g GuestRecord) DisplayNames() []string {
	names := make([]string, 0, len(g.Names))
	for _, n := range g.Names {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Attendance represents the answer to "will you be attending?"
type Attendance string

const (
	AttendanceUnset Attendance = ""
	AttendanceYes   Attendance = "yes"
	AttendanceNo    Attendance = "no"
)

// Valid reports whether the attendance is an answer that can be submitted
func (a Attendance) Valid() bool {
	return a == AttendanceYes || a == AttendanceNo
}
