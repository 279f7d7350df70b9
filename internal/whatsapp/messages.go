// Package whatsapp sends RSVP notifications and guest invitations over a
// linked WhatsApp account.
package whatsapp

import (
	"fmt"
	"strings"

	"wedding-site/internal/greeting"
	"wedding-site/internal/models"
)

// NormalizePhoneNumber strips formatting and turns a national number with a
// leading trunk 0 into international form using countryCode.
func NormalizePhoneNumber(phoneNumber, countryCode string) string {
	var b strings.Builder
	for _, r := range phoneNumber {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	phoneNumber = b.String()
	countryCode = strings.TrimLeft(strings.TrimSpace(countryCode), "+")

	if countryCode == "" {
		return phoneNumber
	}
	// 07XXX XXXXXX -> 447XXXXXXXXX
	if strings.HasPrefix(phoneNumber, "0") && !strings.HasPrefix(phoneNumber, "00") {
		return countryCode + phoneNumber[1:]
	}
	// 00447... -> 447...
	if strings.HasPrefix(phoneNumber, "00") {
		phoneNumber = phoneNumber[2:]
	}
	// 4407... -> 447...
	if strings.HasPrefix(phoneNumber, countryCode+"0") {
		return countryCode + phoneNumber[len(countryCode)+1:]
	}
	return phoneNumber
}

// RSVPMessage summarises a response for the couple.
func RSVPMessage(resp models.Response) string {
	var b strings.Builder
	if resp.Attendance == models.AttendanceYes {
		fmt.Fprintf(&b, "🎉 *%s* will be there!\n", resp.Name)
	} else {
		fmt.Fprintf(&b, "💌 *%s* can't make it.\n", resp.Name)
	}
	fmt.Fprintf(&b, "Email: %s\n", resp.Email)
	for _, m := range resp.Meals {
		if m.Starter != "" {
			fmt.Fprintf(&b, "🍽 %s: %s, %s\n", m.Name, m.Starter, m.Main)
		} else {
			fmt.Fprintf(&b, "🍽 %s: %s\n", m.Name, m.Main)
		}
	}
	if resp.DietaryRestrictions != "" {
		fmt.Fprintf(&b, "Dietary: %s\n", resp.DietaryRestrictions)
	}
	if resp.SongRequest != "" {
		fmt.Fprintf(&b, "🎵 %s\n", resp.SongRequest)
	}
	return strings.TrimRight(b.String(), "\n")
}

// InvitationMessage is the text sent to a guest with their personal link.
func InvitationMessage(couple string, names []string, link string) string {
	var b strings.Builder
	b.WriteString("🎉 *Wedding Invitation*\n\n")
	if who := greeting.Format(names); who != "" {
		fmt.Fprintf(&b, "Dear %s,\n\n", who)
	}
	if couple != "" {
		fmt.Fprintf(&b, "You are invited to celebrate the wedding of *%s*.\n\n", couple)
	} else {
		b.WriteString("You are invited to celebrate our wedding.\n\n")
	}
	fmt.Fprintf(&b, "Please RSVP here: %s", link)
	return b.String()
}
