package screens

import (
	"fmt"
	"time"
)

// RosterEntry is one student on the marking list.
type RosterEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	RollNumber string `json:"roll_number"`
	Present    bool   `json:"present"`
}

// RosterFilter selects which students the marking list shows.
type RosterFilter string

const (
	FilterAll     RosterFilter = "all"
	FilterPresent RosterFilter = "present"
	FilterAbsent  RosterFilter = "absent"
)

// ParseRosterFilter treats an empty filter as all.
func ParseRosterFilter(s string) (RosterFilter, error) {
	switch RosterFilter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPresent, FilterAbsent:
		return RosterFilter(s), nil
	}
	return "", ErrInvalidFilter
}

// FilterTab is a roster filter button with its count.
type FilterTab struct {
	Filter RosterFilter `json:"filter"`
	Label  string       `json:"label"`
	Count  int          `json:"count"`
}

// MarkAttendanceView is the teacher's marking screen.
type MarkAttendanceView struct {
	Title     string        `json:"title"`
	Class     string        `json:"class"`
	Date      string        `json:"date"`
	Badge     string        `json:"badge"`
	Filter    RosterFilter  `json:"filter"`
	Filters   []FilterTab   `json:"filters"`
	Students  []RosterEntry `json:"students"`
	SaveLabel string        `json:"save_label"`
}

// ToggleStudent flips one student's presence.
func (w *Workspace) ToggleStudent(id string) (RosterEntry, error) {
	for i := range w.Roster {
		if w.Roster[i].ID == id {
			w.Roster[i].Present = !w.Roster[i].Present
			return w.Roster[i], nil
		}
	}
	return RosterEntry{}, fmt.Errorf("%w: %q", ErrUnknownStudent, id)
}

// RosterCounts returns how many students are marked present out of the class.
func (w *Workspace) RosterCounts() (present, total int) {
	for _, s := range w.Roster {
		if s.Present {
			present++
		}
	}
	return present, len(w.Roster)
}

// FilterRoster returns the students matching f.
func (w *Workspace) FilterRoster(f RosterFilter) []RosterEntry {
	out := make([]RosterEntry, 0, len(w.Roster))
	for _, s := range w.Roster {
		switch {
		case f == FilterPresent && !s.Present, f == FilterAbsent && s.Present:
			continue
		}
		out = append(out, s)
	}
	return out
}

// SaveMessage is the confirmation shown when the roster is saved.
func (w *Workspace) SaveMessage() string {
	present, total := w.RosterCounts()
	return fmt.Sprintf("Attendance saved! %d/%d students present", present, total)
}

// MarkAttendance renders the roster screen with the given filter applied.
func MarkAttendance(w *Workspace, f RosterFilter, now time.Time) MarkAttendanceView {
	present, total := w.RosterCounts()
	return MarkAttendanceView{
		Title:  "Mark Attendance",
		Class:  rosterClass,
		Date:   now.Format("Monday, January 2, 2006"),
		Badge:  "Today",
		Filter: f,
		Filters: []FilterTab{
			{Filter: FilterAll, Label: fmt.Sprintf("All (%d)", total), Count: total},
			{Filter: FilterPresent, Label: fmt.Sprintf("Present (%d)", present), Count: present},
			{Filter: FilterAbsent, Label: fmt.Sprintf("Absent (%d)", total-present), Count: total - present},
		},
		Students:  w.FilterRoster(f),
		SaveLabel: fmt.Sprintf("Save Attendance (%d/%d)", present, total),
	}
}
