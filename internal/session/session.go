// Package session keeps each visitor's navigation state and screen
// workspace, and stores them in memory or Redis.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"attendtrack/internal/navigation"
	"attendtrack/internal/screens"
)

var (
	// ErrNotFound is returned for unknown or expired sessions.
	ErrNotFound = errors.New("session not found")
	// ErrWrongScreen is returned when a screen action is sent while another screen is shown.
	ErrWrongScreen = errors.New("action not available on current screen")
)

// Session is one visitor's state from the welcome screen to logout.
type Session struct {
	ID        string            `json:"id"`
	Nav       navigation.State  `json:"nav"`
	Work      screens.Workspace `json:"work"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// New starts a session on the welcome screen.
func New(now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Nav:       navigation.Initial(),
		Work:      screens.NewWorkspace(now),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Screen is the screen currently rendered.
func (s *Session) Screen() navigation.Screen {
	return navigation.Restore(s.Nav).Effective()
}

// View renders the current screen.
func (s *Session) View(now time.Time) screens.View {
	return screens.Render(s.Nav, &s.Work, now)
}

func (s *Session) apply(now time.Time, op func(*navigation.Controller) error) error {
	c := navigation.Restore(s.Nav)
	if err := op(c); err != nil {
		return err
	}
	s.Nav = c.State()
	if !s.Nav.LoggedIn() && s.Nav.Screen == navigation.ScreenWelcome {
		s.Work = screens.NewWorkspace(now)
	}
	s.UpdatedAt = now
	return nil
}

// SelectRole picks student or teacher on the welcome screen.
func (s *Session) SelectRole(role navigation.Role, now time.Time) error {
	return s.apply(now, func(c *navigation.Controller) error { return c.SelectRole(role) })
}

// Login submits the login form.
func (s *Session) Login(in navigation.LoginInput, now time.Time) error {
	return s.apply(now, func(c *navigation.Controller) error { return c.Login(in) })
}

// BackToWelcome abandons the login form.
func (s *Session) BackToWelcome(now time.Time) error {
	return s.apply(now, (*navigation.Controller).BackToWelcome)
}

// Back follows the current screen's back arrow.
func (s *Session) Back(now time.Time) error {
	return s.apply(now, (*navigation.Controller).Back)
}

// Navigate opens another screen if the role allows it.
func (s *Session) Navigate(to navigation.Screen, now time.Time) error {
	return s.apply(now, func(c *navigation.Controller) error { return c.Navigate(to) })
}

// ChangeTab selects a bottom bar tab.
func (s *Session) ChangeTab(tab navigation.Tab, now time.Time) error {
	return s.apply(now, func(c *navigation.Controller) error { return c.ChangeTab(tab) })
}

// Logout ends the session's login; the session itself stays usable from welcome.
func (s *Session) Logout(now time.Time) {
	_ = s.apply(now, func(c *navigation.Controller) error {
		c.Logout()
		return nil
	})
}

// Require fails unless screen is the one being shown.
func (s *Session) Require(screen navigation.Screen) error {
	if cur := s.Screen(); cur != screen {
		return fmt.Errorf("%w: showing %s, need %s", ErrWrongScreen, cur, screen)
	}
	return nil
}

// SaveAttendance confirms the roster and returns to the dashboard.
func (s *Session) SaveAttendance(now time.Time) (string, error) {
	if err := s.Require(navigation.ScreenMarkAttendance); err != nil {
		return "", err
	}
	msg := s.Work.SaveMessage()
	if err := s.apply(now, (*navigation.Controller).Back); err != nil {
		return "", err
	}
	return msg, nil
}

// Role returns the logged-in role, or unset.
func (s *Session) Role() navigation.Role {
	if s.Nav.User == nil {
		return navigation.RoleUnset
	}
	return s.Nav.User.Role
}
