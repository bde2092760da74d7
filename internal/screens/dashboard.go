package screens

import (
	"fmt"

	"attendtrack/internal/navigation"
)

type RoleCard struct {
	Role        navigation.Role `json:"role"`
	Icon        string          `json:"icon"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
}

// WelcomeView offers the two role cards.
type WelcomeView struct {
	Roles  []RoleCard `json:"roles"`
	Submit string     `json:"submit"`
	Hint   string     `json:"hint"`
}

type LoginField struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
}

// LoginView is the login form, labelled for the chosen role.
type LoginView struct {
	Title       string       `json:"title"`
	Fields      []LoginField `json:"fields"`
	Submit      string       `json:"submit"`
	CreateClass bool         `json:"create_class,omitempty"`
}

// Shortcut is a dashboard button leading to another screen.
type Shortcut struct {
	Label  string            `json:"label"`
	Screen navigation.Screen `json:"screen"`
}

// StudentDashboardView is the student home screen.
type StudentDashboardView struct {
	Greeting        string     `json:"greeting"`
	TodayStatus     DayMark    `json:"today_status"`
	TodayIcon       string     `json:"today_icon"`
	Percentage      int        `json:"percentage"`
	AttendedClasses int        `json:"attended_classes"`
	TotalClasses    int        `json:"total_classes"`
	CurrentStreak   int        `json:"current_streak"`
	Shortcuts       []Shortcut `json:"shortcuts"`
}

// TeacherDashboardView is the teacher home screen.
type TeacherDashboardView struct {
	Greeting   string     `json:"greeting"`
	Present    int        `json:"present"`
	Absent     int        `json:"absent"`
	Total      int        `json:"total"`
	Percentage int        `json:"percentage"`
	Shortcuts  []Shortcut `json:"shortcuts"`
}

type Slice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type WeekdayTally struct {
	Day     string `json:"day"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

type HistoryEntry struct {
	Date    string  `json:"date"`
	Status  DayMark `json:"status"`
	Subject string  `json:"subject"`
}

type SummaryStats struct {
	TotalClasses    int `json:"total_classes"`
	AttendedClasses int `json:"attended_classes"`
	MissedClasses   int `json:"missed_classes"`
	Percentage      int `json:"percentage"`
	CurrentStreak   int `json:"current_streak"`
	LongestStreak   int `json:"longest_streak"`
	Goal            int `json:"goal"`
}

// SummaryView is the attendance summary screen.
type SummaryView struct {
	Title        string         `json:"title"`
	Subtitle     string         `json:"subtitle"`
	Stats        SummaryStats   `json:"stats"`
	GoalMessage  string         `json:"goal_message"`
	Distribution []Slice        `json:"distribution"`
	Weekly       []WeekdayTally `json:"weekly"`
	History      []HistoryEntry `json:"history"`
}

func welcome() WelcomeView {
	return WelcomeView{
		Roles: []RoleCard{
			{Role: navigation.RoleStudent, Icon: "🎓", Title: "Student", Description: "Track your attendance and view insights"},
			{Role: navigation.RoleTeacher, Icon: "👨‍🏫", Title: "Teacher", Description: "Manage class attendance and analytics"},
		},
		Submit: "Continue",
		Hint:   "You can change your role later in settings",
	}
}

func login(role navigation.Role) LoginView {
	v := LoginView{
		Title: "Student Login",
		Fields: []LoginField{
			{Name: "name", Label: "Full Name", Placeholder: "Enter your full name"},
			{Name: "roll_number", Label: "Roll Number", Placeholder: "Enter roll number"},
			{Name: "class_code", Label: "Class Code", Placeholder: "Enter class code"},
		},
		Submit: "Join Class",
	}
	if role == navigation.RoleTeacher {
		v.Title = "Teacher Login"
		v.Fields[1].Label = "Teacher ID"
		v.Fields[1].Placeholder = "Enter teacher ID"
		v.Submit = "Access Class"
		v.CreateClass = true
	}
	return v
}

func studentDashboard(name string) StudentDashboardView {
	return StudentDashboardView{
		Greeting:        fmt.Sprintf("Hi, %s 👋", name),
		TodayStatus:     DayPresent,
		TodayIcon:       "✅",
		Percentage:      studentAttendance,
		AttendedClasses: studentAttendedClasses,
		TotalClasses:    studentTotalClasses,
		CurrentStreak:   studentStreak,
		Shortcuts: []Shortcut{
			{Label: "Goals", Screen: navigation.ScreenStreaks},
			{Label: "View Calendar", Screen: navigation.ScreenCalendar},
			{Label: "Attendance Summary", Screen: navigation.ScreenAttendanceSummary},
		},
	}
}

func teacherDashboard(name string) TeacherDashboardView {
	return TeacherDashboardView{
		Greeting:   fmt.Sprintf("Hi, %s 👨‍🏫", name),
		Present:    teacherPresentToday,
		Absent:     teacherClassSize - teacherPresentToday,
		Total:      teacherClassSize,
		Percentage: percent(teacherPresentToday, teacherClassSize),
		Shortcuts: []Shortcut{
			{Label: "Mark Attendance", Screen: navigation.ScreenMarkAttendance},
			{Label: "View Calendar", Screen: navigation.ScreenCalendar},
		},
	}
}

func summary(w *Workspace) SummaryView {
	msg := "🎉 Goal achieved! Keep it up!"
	if studentAttendance < w.Goal {
		msg = fmt.Sprintf("%d%% more to reach your goal", w.Goal-studentAttendance)
	}
	return SummaryView{
		Title:    "My Attendance",
		Subtitle: "Detailed statistics & trends",
		Stats: SummaryStats{
			TotalClasses:    studentTotalClasses,
			AttendedClasses: studentAttendedClasses,
			MissedClasses:   studentTotalClasses - studentAttendedClasses,
			Percentage:      studentAttendance,
			CurrentStreak:   studentStreak,
			LongestStreak:   studentBestStreak,
			Goal:            w.Goal,
		},
		GoalMessage:  msg,
		Distribution: distribution,
		Weekly:       weeklyTrend,
		History:      recentHistory,
	}
}
