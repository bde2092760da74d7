// Package navigation owns a session's screen state and guards every move
// between screens.
package navigation

import "strings"

// Operation names, also used as journal and metric labels.
const (
	OpSelectRole    = "select_role"
	OpLogin         = "login"
	OpBackToWelcome = "back_to_welcome"
	OpBack          = "back"
	OpNavigate      = "navigate"
	OpChangeTab     = "change_tab"
	OpLogout        = "logout"
)

// UserData is created at login and lives until logout.
type UserData struct {
	Name       string `json:"name"`
	RollNumber string `json:"roll_number"`
	ClassCode  string `json:"class_code"`
	Role       Role   `json:"role"`
}

// LoginInput is what the login form submits.
type LoginInput struct {
	Name       string `json:"name"`
	RollNumber string `json:"roll_number"`
	ClassCode  string `json:"class_code"`
}

// State is a snapshot of a session's navigation.
type State struct {
	Screen    Screen    `json:"screen"`
	Role      Role      `json:"role,omitempty"`
	User      *UserData `json:"user,omitempty"`
	ActiveTab Tab       `json:"active_tab"`
}

// Initial returns the state every session starts in and returns to.
func Initial() State {
	return State{Screen: ScreenWelcome, ActiveTab: TabHome}
}

// LoggedIn reports whether user data is present.
func (s State) LoggedIn() bool { return s.User != nil }

// Controller applies navigation operations to a State. It is not safe for
// concurrent use; callers serialize access per session.
type Controller struct {
	state State
}

// New returns a controller in the initial state.
func New() *Controller {
	return &Controller{state: Initial()}
}

// Restore returns a controller resuming from a stored snapshot.
func Restore(s State) *Controller {
	if s.Screen == "" {
		s = Initial()
	}
	if s.ActiveTab == "" {
		s.ActiveTab = TabHome
	}
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return &Controller{state: s}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	s := c.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// SelectRole records the chosen role and opens the login form.
func (c *Controller) SelectRole(role Role) error {
	if c.state.Screen != ScreenWelcome || c.state.Role != RoleUnset {
		return c.reject(OpSelectRole, ScreenLogin, ErrInvalidTransition)
	}
	if _, err := ParseRole(string(role)); err != nil {
		return c.reject(OpSelectRole, ScreenLogin, err)
	}
	c.state.Role = role
	c.state.Screen = ScreenLogin
	return nil
}

// Login creates the session's user data and opens the dashboard.
func (c *Controller) Login(in LoginInput) error {
	if c.state.Screen != ScreenLogin || c.state.Role == RoleUnset {
		return c.reject(OpLogin, ScreenDashboard, ErrInvalidTransition)
	}
	fields := []struct {
		name  string
		value string
	}{
		{"name", in.Name},
		{"roll_number", in.RollNumber},
		{"class_code", in.ClassCode},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return c.reject(OpLogin, ScreenDashboard, &FieldError{Field: f.name})
		}
	}
	c.state.User = &UserData{
		Name:       strings.TrimSpace(in.Name),
		RollNumber: strings.TrimSpace(in.RollNumber),
		ClassCode:  strings.TrimSpace(in.ClassCode),
		Role:       c.state.Role,
	}
	c.state.Screen = ScreenDashboard
	c.state.ActiveTab = TabHome
	return nil
}

// BackToWelcome abandons the login form.
func (c *Controller) BackToWelcome() error {
	if c.state.Screen != ScreenLogin {
		return c.reject(OpBackToWelcome, ScreenWelcome, ErrInvalidTransition)
	}
	c.reset()
	return nil
}

// Back follows a screen's back arrow: the login form returns to welcome,
// every other logged-in screen returns to the dashboard.
func (c *Controller) Back() error {
	switch {
	case c.state.Screen == ScreenLogin:
		c.reset()
		return nil
	case c.state.LoggedIn() && c.state.Screen != ScreenDashboard:
		c.state.Screen = ScreenDashboard
		c.state.ActiveTab = TabHome
		return nil
	}
	return c.reject(OpBack, "", ErrInvalidTransition)
}

// Navigate moves to another logged-in screen if its preconditions hold.
// Rejected requests leave the state unchanged.
func (c *Controller) Navigate(to Screen) error {
	if _, err := ParseScreen(string(to)); err != nil {
		return c.reject(OpNavigate, to, err)
	}
	if !c.state.LoggedIn() {
		return c.reject(OpNavigate, to, ErrNotLoggedIn)
	}
	if !to.RequiresLogin() {
		return c.reject(OpNavigate, to, ErrInvalidTransition)
	}
	if r := to.RequiredRole(); r != RoleUnset && r != c.state.User.Role {
		return c.reject(OpNavigate, to, ErrForbidden)
	}
	c.state.Screen = to
	if t, ok := tabFor(to); ok {
		c.state.ActiveTab = t
	}
	return nil
}

// ChangeTab selects a bottom bar tab and opens its screen.
func (c *Controller) ChangeTab(tab Tab) error {
	if _, err := ParseTab(string(tab)); err != nil {
		return c.reject(OpChangeTab, "", err)
	}
	if !c.state.LoggedIn() {
		return c.reject(OpChangeTab, tab.Screen(), ErrNotLoggedIn)
	}
	c.state.ActiveTab = tab
	c.state.Screen = tab.Screen()
	return nil
}

// Logout ends the session and returns to welcome.
func (c *Controller) Logout() {
	c.reset()
}

// Effective returns the screen that is actually rendered. Snapshots whose
// screen preconditions do not hold fall back to welcome or dashboard.
func (c *Controller) Effective() Screen {
	s := c.state
	switch s.Screen {
	case ScreenWelcome:
		return ScreenWelcome
	case ScreenLogin:
		if s.Role != RoleUnset && s.User == nil {
			return ScreenLogin
		}
	case ScreenDashboard, ScreenCalendar, ScreenStreaks, ScreenAlerts, ScreenProfile,
		ScreenMarkAttendance, ScreenAttendanceSummary:
		if s.User != nil {
			if r := s.Screen.RequiredRole(); r == RoleUnset || r == s.User.Role {
				return s.Screen
			}
		}
	}
	if s.User != nil {
		return ScreenDashboard
	}
	return ScreenWelcome
}

func (c *Controller) reset() {
	c.state = Initial()
}

func (c *Controller) reject(op string, to Screen, err error) error {
	return &TransitionError{Op: op, From: c.state.Screen, To: to, Err: err}
}
