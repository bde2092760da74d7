package screens

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"attendtrack/internal/navigation"
)

// Preferences are the profile screen switches.
type Preferences struct {
	PushNotifications   bool `json:"push_notifications"`
	DarkMode            bool `json:"dark_mode"`
	AttendanceReminders bool `json:"attendance_reminders"`
	WeeklyReports       bool `json:"weekly_reports"`
}

// DefaultPreferences turns on everything except dark mode.
func DefaultPreferences() Preferences {
	return Preferences{PushNotifications: true, AttendanceReminders: true, WeeklyReports: true}
}

// PreferencesPatch carries the switches a client changed; nil means untouched.
type PreferencesPatch struct {
	PushNotifications   *bool `json:"push_notifications"`
	DarkMode            *bool `json:"dark_mode"`
	AttendanceReminders *bool `json:"attendance_reminders"`
	WeeklyReports       *bool `json:"weekly_reports"`
}

// UpdatePreferences applies p and returns the toasts the changes raise.
func (w *Workspace) UpdatePreferences(p PreferencesPatch) []string {
	var toasts []string
	if p.PushNotifications != nil {
		w.Preferences.PushNotifications = *p.PushNotifications
	}
	if p.AttendanceReminders != nil {
		w.Preferences.AttendanceReminders = *p.AttendanceReminders
	}
	if p.WeeklyReports != nil {
		w.Preferences.WeeklyReports = *p.WeeklyReports
	}
	if p.DarkMode != nil {
		w.Preferences.DarkMode = *p.DarkMode
		theme := "light"
		if *p.DarkMode {
			theme = "dark"
		}
		toasts = append(toasts, fmt.Sprintf("Switched to %s mode", theme))
	}
	return toasts
}

// LogoutToast is shown when a visitor logs out.
const LogoutToast = "Logged out successfully"

var profileActions = map[string]string{
	"edit":         "Profile editing coming soon!",
	"switch-class": "Class switching coming soon!",
}

// ProfileAction returns the toast for a profile button that has no screen yet.
func ProfileAction(action string) (string, error) {
	if msg, ok := profileActions[action]; ok {
		return msg, nil
	}
	return "", ErrUnknownProfileAction
}

// ProfileView is the profile screen with the visitor's preference switches.
type ProfileView struct {
	Title       string          `json:"title"`
	Initials    string          `json:"initials"`
	Name        string          `json:"name"`
	Role        navigation.Role `json:"role"`
	RollNumber  string          `json:"roll_number,omitempty"`
	ClassCode   string          `json:"class_code"`
	Preferences Preferences     `json:"preferences"`
	ClassQR     string          `json:"class_qr"`
	AppVersion  string          `json:"app_version"`
}

// Initials takes the first letter of each word, upper-cased.
func Initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func profile(u navigation.UserData, w *Workspace) ProfileView {
	return ProfileView{
		Title:       "Profile",
		Initials:    Initials(u.Name),
		Name:        u.Name,
		Role:        u.Role,
		RollNumber:  u.RollNumber,
		ClassCode:   u.ClassCode,
		Preferences: w.Preferences,
		ClassQR:     "/v1/session/profile/qr",
		AppVersion:  appVersion,
	}
}
