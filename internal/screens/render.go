package screens

import (
	"time"

	"attendtrack/internal/navigation"
)

// TabItem is one bottom bar entry.
type TabItem struct {
	ID     navigation.Tab `json:"id"`
	Label  string         `json:"label"`
	Active bool           `json:"active"`
}

// View is everything a client needs to draw the current screen.
type View struct {
	Screen    navigation.Screen `json:"screen"`
	Role      navigation.Role   `json:"role,omitempty"`
	ActiveTab navigation.Tab    `json:"active_tab"`
	BottomNav []TabItem         `json:"bottom_nav,omitempty"`
	Content   any               `json:"content"`
}

// Render draws the effective screen of st.
func Render(st navigation.State, w *Workspace, now time.Time) View {
	screen := navigation.Restore(st).Effective()
	v := View{Screen: screen, Role: st.Role, ActiveTab: st.ActiveTab}
	if screen.ShowsBottomNav() {
		for _, t := range navigation.Tabs {
			v.BottomNav = append(v.BottomNav, TabItem{ID: t, Label: t.Label(), Active: t == st.ActiveTab})
		}
	}

	// Effective guarantees User is set for every screen past login.
	switch screen {
	case navigation.ScreenWelcome:
		v.Content = welcome()
	case navigation.ScreenLogin:
		v.Content = login(st.Role)
	case navigation.ScreenDashboard:
		if st.User.Role == navigation.RoleTeacher {
			v.Content = teacherDashboard(st.User.Name)
		} else {
			v.Content = studentDashboard(st.User.Name)
		}
	case navigation.ScreenCalendar:
		v.Content = buildCalendar(st.User.Role, w, now)
	case navigation.ScreenMarkAttendance:
		v.Content = MarkAttendance(w, FilterAll, now)
	case navigation.ScreenAttendanceSummary:
		v.Content = summary(w)
	case navigation.ScreenStreaks:
		v.Content = goalTracker(st.User.Name, w)
	case navigation.ScreenAlerts:
		active := w.ActiveAlerts(st.User.Role)
		v.Content = AlertsView{Title: "Alerts", Count: len(active), Alerts: active}
	case navigation.ScreenProfile:
		v.Content = profile(*st.User, w)
	default:
		v.Screen = navigation.ScreenWelcome
		v.Content = welcome()
	}
	return v
}
