package screens

import (
	"fmt"
	"slices"

	"attendtrack/internal/navigation"
)

// AlertKind picks an alert's icon and color.
type AlertKind string

const (
	AlertWarning AlertKind = "warning"
	AlertInfo    AlertKind = "info"
	AlertSuccess AlertKind = "success"
	AlertError   AlertKind = "error"
)

// Alert is one card on the alerts screen.
type Alert struct {
	ID         string    `json:"id"`
	Kind       AlertKind `json:"kind"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Timestamp  string    `json:"timestamp"`
	Actionable bool      `json:"actionable"`
}

// AlertsView lists the alerts not yet dismissed.
type AlertsView struct {
	Title  string  `json:"title"`
	Count  int     `json:"count"`
	Alerts []Alert `json:"alerts"`
}

func alertsFor(role navigation.Role) []Alert {
	if role == navigation.RoleTeacher {
		return teacherAlerts
	}
	return studentAlerts
}

func findAlert(role navigation.Role, id string) (Alert, error) {
	for _, a := range alertsFor(role) {
		if a.ID == id {
			return a, nil
		}
	}
	return Alert{}, fmt.Errorf("%w: %q", ErrUnknownAlert, id)
}

// ActiveAlerts returns the role's alerts that have not been dismissed.
func (w *Workspace) ActiveAlerts(role navigation.Role) []Alert {
	var out []Alert
	for _, a := range alertsFor(role) {
		if !slices.Contains(w.Dismissed, a.ID) {
			out = append(out, a)
		}
	}
	return out
}

// DismissAlert hides an alert for the rest of the session. Dismissing
// twice is not an error.
func (w *Workspace) DismissAlert(role navigation.Role, id string) (string, error) {
	if _, err := findAlert(role, id); err != nil {
		return "", err
	}
	if !slices.Contains(w.Dismissed, id) {
		w.Dismissed = append(w.Dismissed, id)
	}
	return "Alert dismissed", nil
}

// TakeAction returns the toast for an alert's action button.
func TakeAction(role navigation.Role, id string) (string, error) {
	if _, err := findAlert(role, id); err != nil {
		return "", err
	}
	if msg, ok := alertActions[id]; ok {
		return msg, nil
	}
	return "Action not available", nil
}
