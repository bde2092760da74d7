package screens

import (
	"fmt"
	"math"
	"time"

	"attendtrack/internal/navigation"
)

// DayMark is the dot drawn under a calendar day.
type DayMark string

const (
	DayPresent  DayMark = "present"
	DayAbsent   DayMark = "absent"
	DayNoClass  DayMark = "no-class"
	DayToday    DayMark = "today"
	DayUpcoming DayMark = "upcoming"
)

type LegendItem struct {
	Mark  DayMark `json:"mark"`
	Label string  `json:"label"`
}

var legend = []LegendItem{
	{Mark: DayPresent, Label: "Present"},
	{Mark: DayAbsent, Label: "Absent"},
	{Mark: DayUpcoming, Label: "No Class"},
	{Mark: DayToday, Label: "Today"},
}

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date string  `json:"date"`
	Day  int     `json:"day"`
	Mark DayMark `json:"mark"`
}

// CalendarView is the month grid with its legend.
type CalendarView struct {
	Title    string        `json:"title"`
	Month    string        `json:"month"`
	MonthKey string        `json:"month_key"`
	Legend   []LegendItem  `json:"legend"`
	Days     []CalendarDay `json:"days"`
}

// ClassInfo describes the class held on a day.
type ClassInfo struct {
	Subject       string `json:"subject"`
	Time          string `json:"time"`
	TotalStudents int    `json:"total_students"`
	PresentCount  int    `json:"present_count"`
}

type ClassStudent struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	RollNumber string  `json:"roll_number"`
	Status     DayMark `json:"status"`
}

// DayDetail is the content of the dialog opened by tapping a day.
type DayDetail struct {
	Date           string         `json:"date"`
	Title          string         `json:"title"`
	Status         DayMark        `json:"status,omitempty"`
	Message        string         `json:"message,omitempty"`
	Class          *ClassInfo     `json:"class,omitempty"`
	PresentPercent int            `json:"present_percent,omitempty"`
	Students       []ClassStudent `json:"students,omitempty"`
}

// ShiftMonth moves the calendar one month back ("prev") or forward ("next").
func (w *Workspace) ShiftMonth(direction string) error {
	var delta int
	switch direction {
	case "prev":
		delta = -1
	case "next":
		delta = 1
	default:
		return ErrInvalidMonth
	}
	w.Month = w.month().AddDate(0, delta, 0).Format(monthLayout)
	return nil
}

func recordedMark(role navigation.Role, key string) DayMark {
	if role == navigation.RoleTeacher {
		if _, ok := teacherCalendar[key]; ok {
			return DayPresent
		}
		return DayNoClass
	}
	if m, ok := studentCalendar[key]; ok {
		return m
	}
	return DayNoClass
}

func buildCalendar(role navigation.Role, w *Workspace, now time.Time) CalendarView {
	first := w.month()
	today := now.Format(dateLayout)
	view := CalendarView{
		Title:    "Attendance Calendar",
		Month:    first.Format("January 2006"),
		MonthKey: first.Format(monthLayout),
		Legend:   legend,
	}
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		mark := recordedMark(role, key)
		switch {
		case key == today:
			mark = DayToday
		case key > today:
			mark = DayUpcoming
		}
		view.Days = append(view.Days, CalendarDay{Date: key, Day: d.Day(), Mark: mark})
	}
	return view
}

// Day returns the details dialog for a date given as YYYY-MM-DD.
func Day(role navigation.Role, date string, now time.Time) (DayDetail, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return DayDetail{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	key := d.Format(dateLayout)
	future := key > now.Format(dateLayout)
	detail := DayDetail{Date: key, Title: d.Format("Monday, January 2, 2006")}

	if role != navigation.RoleTeacher {
		detail.Status = DayNoClass
		detail.Message = "No class scheduled"
		if future {
			return detail, nil
		}
		switch studentCalendar[key] {
		case DayPresent:
			detail.Status = DayPresent
			detail.Message = "You attended class on this day"
		case DayAbsent:
			detail.Status = DayAbsent
			detail.Message = "You missed class on this day"
		}
		return detail, nil
	}

	if day, ok := teacherCalendar[key]; ok {
		class := day.class
		detail.Class = &class
		detail.PresentPercent = percent(class.PresentCount, class.TotalStudents)
		detail.Students = append([]ClassStudent(nil), day.students...)
	}
	if len(detail.Students) == 0 && !future {
		detail.Message = "No attendance data available"
	}
	return detail, nil
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
