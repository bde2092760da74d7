package screens

import (
	"fmt"
	"math"
)

// Achievement is a streak badge.
type Achievement struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
	Icon        string `json:"icon"`
}

// GoalTrackerView is the streaks and goals screen.
type GoalTrackerView struct {
	Title               string        `json:"title"`
	Goal                int           `json:"goal"`
	GoalRange           [2]int        `json:"goal_range"`
	GoalStep            int           `json:"goal_step"`
	CurrentAttendance   int           `json:"current_attendance"`
	ProgressToGoal      float64       `json:"progress_to_goal"`
	ClassesNeeded       int           `json:"classes_needed"`
	TotalClasses        int           `json:"total_classes"`
	AttendedClasses     int           `json:"attended_classes"`
	CurrentStreak       int           `json:"current_streak"`
	LongestStreak       int           `json:"longest_streak"`
	StreakStart         string        `json:"streak_start"`
	StreakMessage       string        `json:"streak_message"`
	MotivationalMessage string        `json:"motivational_message"`
	Achievements        []Achievement `json:"achievements"`
	Closing             string        `json:"closing"`
}

// SetGoal changes the attendance target.
func (w *Workspace) SetGoal(goal int) (string, error) {
	if goal < minGoal || goal > maxGoal || goal%goalStep != 0 {
		return "", ErrInvalidGoal
	}
	w.Goal = goal
	return fmt.Sprintf("Goal updated to %d%%!", goal), nil
}

// ProgressToGoal is current/goal as a percentage, capped at 100.
func ProgressToGoal(current, goal int) float64 {
	if goal <= 0 {
		return 100
	}
	return math.Min(float64(current)/float64(goal)*100, 100)
}

// ClassesNeeded is how many more attended classes reach goal percent of total.
func ClassesNeeded(goal, total, attended int) int {
	n := math.Ceil(float64(goal*total)/100 - float64(attended))
	return int(math.Max(0, n))
}

func streakMessage(streak int) string {
	switch {
	case streak == 0:
		return "Start your streak today! 💪"
	case streak < 7:
		return "Keep going! You're building momentum 🚀"
	case streak < 14:
		return "Great streak! You're on fire 🔥"
	case streak < 30:
		return "Amazing consistency! 🌟"
	}
	return "Legendary streak! You're unstoppable! 👑"
}

func motivationalMessage(current, goal, needed int) string {
	switch {
	case current >= goal:
		return "🎉 Goal achieved! You're doing amazing!"
	case current >= goal-5:
		return "🎯 So close! Just a little more to reach your goal!"
	}
	return fmt.Sprintf("📈 %d more classes to reach your %d%% goal!", needed, goal)
}

func goalTracker(name string, w *Workspace) GoalTrackerView {
	needed := ClassesNeeded(w.Goal, studentTotalClasses, studentAttendedClasses)
	return GoalTrackerView{
		Title:               "Goal Tracker",
		Goal:                w.Goal,
		GoalRange:           [2]int{minGoal, maxGoal},
		GoalStep:            goalStep,
		CurrentAttendance:   studentAttendance,
		ProgressToGoal:      ProgressToGoal(studentAttendance, w.Goal),
		ClassesNeeded:       needed,
		TotalClasses:        studentTotalClasses,
		AttendedClasses:     studentAttendedClasses,
		CurrentStreak:       studentStreak,
		LongestStreak:       studentLongestStreak,
		StreakStart:         studentStreakStart,
		StreakMessage:       streakMessage(studentStreak),
		MotivationalMessage: motivationalMessage(studentAttendance, w.Goal, needed),
		Achievements:        achievements,
		Closing:             fmt.Sprintf("Keep Going, %s!", name),
	}
}
