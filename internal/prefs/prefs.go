// Package prefs stores the visitor's display preferences in cookies.
package prefs

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// ThemeCookie holds "true" for dark and "false" for light. It is absent
	// when the visitor follows the system preference.
	ThemeCookie = "darkMode"
	// SplashCookie marks that the intro animation finished this session.
	SplashCookie = "splashCompleted"

	themeMaxAge = 365 * 24 * time.Hour
)

// Theme is the visitor's colour scheme choice.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// ParseTheme accepts light, dark or system.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(s))); t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return t, nil
	default:
		return "", fmt.Errorf("unknown theme %q", s)
	}
}

// ThemeFrom reads the stored preference, defaulting to system.
func ThemeFrom(r *http.Request) Theme {
	c, err := r.Cookie(ThemeCookie)
	if err != nil {
		return ThemeSystem
	}
	switch c.Value {
	case "true":
		return ThemeDark
	case "false":
		return ThemeLight
	default:
		return ThemeSystem
	}
}

// SetTheme stores t. ThemeSystem clears the stored preference.
func SetTheme(w http.ResponseWriter, t Theme) {
	c := &http.Cookie{
		Name:     ThemeCookie,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
	switch t {
	case ThemeDark:
		c.Value = "true"
		c.MaxAge = int(themeMaxAge / time.Second)
	case ThemeLight:
		c.Value = "false"
		c.MaxAge = int(themeMaxAge / time.Second)
	default:
		c.MaxAge = -1
	}
	http.SetCookie(w, c)
}

// SplashCompleted reports whether the intro already ran this session.
func SplashCompleted(r *http.Request) bool {
	c, err := r.Cookie(SplashCookie)
	return err == nil && c.Value == "true"
}

// MarkSplashCompleted sets a session cookie so the intro is skipped on reload.
func MarkSplashCompleted(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SplashCookie,
		Value:    "true",
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}
