// Package screens builds the JSON view models for every screen and keeps
// the small amount of per-session state the screens mutate.
package screens

import (
	"errors"
	"time"
)

var (
	ErrUnknownStudent = errors.New("unknown student")
	ErrUnknownAlert   = errors.New("unknown alert")
	ErrInvalidGoal    = errors.New("goal must be between 50 and 100 in steps of 5")
	ErrInvalidDate    = errors.New("invalid date, want YYYY-MM-DD")
	ErrInvalidFilter  = errors.New("filter must be all, present or absent")
	ErrInvalidMonth   = errors.New("direction must be prev or next")

	ErrUnknownProfileAction = errors.New("unknown profile action")
)

const (
	monthLayout = "2006-01"
	dateLayout  = "2006-01-02"
)

// Clock returns the current time.
type Clock func() time.Time

// Workspace is the mutable state behind the calendar, roster, alerts, goal
// tracker and profile screens. It lives as long as the session's login.
type Workspace struct {
	Month       string        `json:"month"`
	Roster      []RosterEntry `json:"roster"`
	Dismissed   []string      `json:"dismissed,omitempty"`
	Goal        int           `json:"goal"`
	Preferences Preferences   `json:"preferences"`
}

// NewWorkspace returns a fresh workspace with the calendar on now's month.
func NewWorkspace(now time.Time) Workspace {
	return Workspace{
		Month:       now.Format(monthLayout),
		Roster:      defaultRoster(),
		Goal:        defaultGoal,
		Preferences: DefaultPreferences(),
	}
}

func (w *Workspace) month() time.Time {
	m, err := time.Parse(monthLayout, w.Month)
	if err != nil {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return m
}
