// Package greeting renders the personalised salutation shown to invited guests.
package greeting

import "strings"

// Format joins names into a single display string.
//
//	[]                -> ""
//	["A"]             -> "A"
//	["A", "B"]        -> "A & B"
//	["A", "B", "C"]   -> "A, B & C"
//
// Names are used verbatim: no trimming, case changes or de-duplication.
func Format(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " & " + names[1]
	}
	last := len(names) - 1
	return strings.Join(names[:last], ", ") + " & " + names[last]
}

// Salutation returns the greeting line, or "" when there is nobody to greet.
func Salutation(names []string) string {
	formatted := Format(names)
	if formatted == "" {
		return ""
	}
	return "Hi " + formatted + ", we can't wait to celebrate with you!"
}
