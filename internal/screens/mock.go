package screens

// Fixed figures the screens are drawn from.
const (
	studentTotalClasses    = 45
	studentAttendedClasses = 39
	studentAttendance      = 87
	studentStreak          = 7
	studentBestStreak      = 12
	studentLongestStreak   = 15
	studentStreakStart     = "2024-01-15"

	teacherPresentToday = 26
	teacherClassSize    = 30

	defaultGoal = 90
	minGoal     = 50
	maxGoal     = 100
	goalStep    = 5

	rosterClass = "CS101 - Data Structures"
	appVersion  = "AttendanceTracker v1.0.0"
)

var studentCalendar = map[string]DayMark{
	"2024-01-15": DayPresent,
	"2024-01-16": DayAbsent,
	"2024-01-17": DayPresent,
	"2024-01-18": DayPresent,
	"2024-01-19": DayAbsent,
	"2024-01-22": DayPresent,
	"2024-01-23": DayPresent,
	"2024-01-24": DayPresent,
	"2024-01-25": DayAbsent,
	"2024-01-26": DayPresent,
}

type teacherDay struct {
	class    ClassInfo
	students []ClassStudent
}

var teacherCalendar = map[string]teacherDay{
	"2024-01-15": {
		class: ClassInfo{Subject: "Computer Science 3A", Time: "10:00 AM", TotalStudents: 30, PresentCount: 26},
		students: []ClassStudent{
			{ID: "1", Name: "Alex Johnson", RollNumber: "CS001", Status: DayPresent},
			{ID: "2", Name: "Sarah Wilson", RollNumber: "CS002", Status: DayPresent},
			{ID: "3", Name: "Mike Brown", RollNumber: "CS003", Status: DayAbsent},
			{ID: "4", Name: "Emma Davis", RollNumber: "CS004", Status: DayPresent},
			{ID: "5", Name: "John Smith", RollNumber: "CS005", Status: DayAbsent},
		},
	},
}

func defaultRoster() []RosterEntry {
	return []RosterEntry{
		{ID: "1", Name: "Aarav Sharma", RollNumber: "CS001", Present: true},
		{ID: "2", Name: "Priya Patel", RollNumber: "CS002", Present: true},
		{ID: "3", Name: "Rahul Kumar", RollNumber: "CS003", Present: false},
		{ID: "4", Name: "Sneha Gupta", RollNumber: "CS004", Present: true},
		{ID: "5", Name: "Arjun Singh", RollNumber: "CS005", Present: false},
		{ID: "6", Name: "Kavya Reddy", RollNumber: "CS006", Present: true},
		{ID: "7", Name: "Vikram Joshi", RollNumber: "CS007", Present: true},
		{ID: "8", Name: "Ananya Iyer", RollNumber: "CS008", Present: false},
		{ID: "9", Name: "Rohan Mehta", RollNumber: "CS009", Present: true},
		{ID: "10", Name: "Ishita Agarwal", RollNumber: "CS010", Present: true},
		{ID: "11", Name: "Karan Verma", RollNumber: "CS011", Present: false},
		{ID: "12", Name: "Nisha Bansal", RollNumber: "CS012", Present: true},
		{ID: "13", Name: "Siddharth Roy", RollNumber: "CS013", Present: true},
		{ID: "14", Name: "Pooja Nair", RollNumber: "CS014", Present: false},
		{ID: "15", Name: "Amit Saxena", RollNumber: "CS015", Present: true},
	}
}

var distribution = []Slice{
	{Name: "Present", Value: 87, Color: "#22c55e"},
	{Name: "Absent", Value: 13, Color: "#ef4444"},
}

var weeklyTrend = []WeekdayTally{
	{Day: "Mon", Present: 1, Absent: 0},
	{Day: "Tue", Present: 1, Absent: 0},
	{Day: "Wed", Present: 0, Absent: 1},
	{Day: "Thu", Present: 1, Absent: 0},
	{Day: "Fri", Present: 1, Absent: 0},
	{Day: "Sat", Present: 1, Absent: 0},
	{Day: "Sun", Present: 0, Absent: 1},
}

var recentHistory = []HistoryEntry{
	{Date: "2024-01-22", Status: DayPresent, Subject: "Data Structures"},
	{Date: "2024-01-21", Status: DayPresent, Subject: "Algorithms"},
	{Date: "2024-01-20", Status: DayAbsent, Subject: "Database Systems"},
	{Date: "2024-01-19", Status: DayPresent, Subject: "Web Development"},
	{Date: "2024-01-18", Status: DayPresent, Subject: "Data Structures"},
	{Date: "2024-01-17", Status: DayPresent, Subject: "Algorithms"},
	{Date: "2024-01-16", Status: DayPresent, Subject: "Database Systems"},
}

var achievements = []Achievement{
	{ID: 1, Name: "First Week", Description: "7 days streak", Unlocked: true, Icon: "🔥"},
	{ID: 2, Name: "Consistent", Description: "14 days streak", Unlocked: false, Icon: "⚡"},
	{ID: 3, Name: "Dedicated", Description: "30 days streak", Unlocked: false, Icon: "🏆"},
	{ID: 4, Name: "Perfect Month", Description: "100% for a month", Unlocked: false, Icon: "⭐"},
}

var studentAlerts = []Alert{
	{ID: "1", Kind: AlertWarning, Title: "Attendance Below Target", Message: "Your attendance has dropped to 87%. You need 90% to meet your goal.", Timestamp: "2 hours ago", Actionable: true},
	{ID: "2", Kind: AlertError, Title: "3 Days Missed This Week", Message: "You've missed 3 classes this week. Consider catching up with classmates.", Timestamp: "1 day ago", Actionable: true},
	{ID: "3", Kind: AlertInfo, Title: "Class Average Update", Message: "Your class average attendance is 89% this month. You're slightly below average.", Timestamp: "2 days ago"},
	{ID: "4", Kind: AlertSuccess, Title: "Streak Achievement!", Message: "Congratulations! You've maintained a 7-day attendance streak.", Timestamp: "3 days ago"},
	{ID: "5", Kind: AlertWarning, Title: "Upcoming Deadline", Message: "Remember: 75% attendance is required for exam eligibility.", Timestamp: "1 week ago"},
}

var teacherAlerts = []Alert{
	{ID: "t1", Kind: AlertWarning, Title: "Low Class Attendance", Message: "Today's attendance was only 73%. Consider following up with absent students.", Timestamp: "1 hour ago", Actionable: true},
	{ID: "t2", Kind: AlertInfo, Title: "Weekly Summary", Message: "This week's average attendance: 85%. 5 students have perfect attendance.", Timestamp: "2 days ago"},
	{ID: "t3", Kind: AlertError, Title: "Students at Risk", Message: "3 students have attendance below 75%. Intervention may be needed.", Timestamp: "3 days ago", Actionable: true},
}

var alertActions = map[string]string{
	"1":  "Redirecting to attendance summary...",
	"2":  "Opening study group recommendations...",
	"t1": "Opening student contact list...",
	"t3": "Opening at-risk students report...",
}
