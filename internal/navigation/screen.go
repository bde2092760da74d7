package navigation

import "fmt"

// Screen identifies which view a session is showing.
type Screen string

const (
	ScreenWelcome           Screen = "welcome"
	ScreenLogin             Screen = "login"
	ScreenDashboard         Screen = "dashboard"
	ScreenCalendar          Screen = "calendar"
	ScreenMarkAttendance    Screen = "mark-attendance"
	ScreenAttendanceSummary Screen = "attendance-summary"
	ScreenStreaks           Screen = "streaks"
	ScreenAlerts            Screen = "alerts"
	ScreenProfile           Screen = "profile"
)

// Screens lists every screen in display order.
var Screens = []Screen{
	ScreenWelcome,
	ScreenLogin,
	ScreenDashboard,
	ScreenCalendar,
	ScreenMarkAttendance,
	ScreenAttendanceSummary,
	ScreenStreaks,
	ScreenAlerts,
	ScreenProfile,
}

// ParseScreen maps a wire name to a Screen.
func ParseScreen(s string) (Screen, error) {
	for _, sc := range Screens {
		if string(sc) == s {
			return sc, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScreen, s)
}

// RequiresLogin reports whether the screen needs user data.
func (s Screen) RequiresLogin() bool {
	switch s {
	case ScreenWelcome, ScreenLogin:
		return false
	default:
		return true
	}
}

// RequiredRole returns the role a screen is restricted to, or RoleUnset.
func (s Screen) RequiredRole() Role {
	switch s {
	case ScreenMarkAttendance:
		return RoleTeacher
	case ScreenAttendanceSummary:
		return RoleStudent
	default:
		return RoleUnset
	}
}

// ShowsBottomNav reports whether the bottom tab bar is drawn on this screen.
func (s Screen) ShowsBottomNav() bool {
	return s.RequiresLogin()
}

// Role is the user category fixed for a session.
type Role string

const (
	RoleUnset   Role = ""
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// ParseRole accepts "student" or "teacher".
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleTeacher:
		return Role(s), nil
	}
	return RoleUnset, fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// Tab is a bottom navigation entry.
type Tab string

const (
	TabHome     Tab = "home"
	TabCalendar Tab = "calendar"
	TabAlerts   Tab = "alerts"
	TabProfile  Tab = "profile"
)

// Tabs lists the bottom bar entries left to right.
var Tabs = []Tab{TabHome, TabCalendar, TabAlerts, TabProfile}

var tabScreens = map[Tab]Screen{
	TabHome:     ScreenDashboard,
	TabCalendar: ScreenCalendar,
	TabAlerts:   ScreenAlerts,
	TabProfile:  ScreenProfile,
}

// ParseTab maps a wire name to a Tab.
func ParseTab(s string) (Tab, error) {
	t := Tab(s)
	if _, ok := tabScreens[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
	}
	return t, nil
}

// Screen returns the canonical screen for the tab.
func (t Tab) Screen() Screen {
	return tabScreens[t]
}

// Label is the text shown under the tab icon.
func (t Tab) Label() string {
	switch t {
	case TabHome:
		return "Home"
	case TabCalendar:
		return "Calendar"
	case TabAlerts:
		return "Alerts"
	case TabProfile:
		return "Profile"
	}
	return string(t)
}

// tabFor returns the tab owning a screen, if any.
func tabFor(s Screen) (Tab, bool) {
	for t, sc := range tabScreens {
		if sc == s {
			return t, true
		}
	}
	return "", false
}
