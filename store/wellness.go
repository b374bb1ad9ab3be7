package store

// Wellness is the per-calendar-day wellness record. Rows are keyed by the
// local date string (YYYY-MM-DD); a new day always starts from a fresh row,
// partial state never migrates across midnight.
type Wellness struct {
	Date string

	Breakfast bool
	Lunch     bool
	Snacks    bool
	Dinner    bool

	Water     int
	WaterGoal int

	Study      bool
	Calories   int
	SleepHours float64

	AskedBreakfast bool
	AskedLunch     bool
	AskedSnacks    bool
	AskedDinner    bool

	LastWaterNudgeTs int64
	LastVisitTs      int64
}
