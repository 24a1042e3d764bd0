package officer

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusOnLeave  Status = "on_leave"
)

// DayAvailability is one weekday's working window. Start and End are
// wall-clock times in "HH:MM" form.
type DayAvailability struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// WeekAvailability maps lowercase weekday names ("monday".."sunday") to
// working windows. Days absent from the map are treated as unavailable.
type WeekAvailability map[string]DayAvailability

type Workload struct {
	Current int
	Maximum int
}

// Officer is the scheduling subsystem's view of an officer record. The
// officer service owns the full record; this subsystem reads availability
// and adjusts workload and performance counters.
type Officer struct {
	ID                uuid.UUID
	Name              string
	Department        string
	Email             *string
	Status            Status
	Workload          Workload
	Availability      WeekAvailability
	AvgProcessingMins float64
	RatingAvg         float64
	RatingCount       int
	CompletedCount    int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AvailableOn reports whether the officer works the given weekday and
// returns the day's window when so.
func (o *Officer) AvailableOn(weekday string) (DayAvailability, bool) {
	day, ok := o.Availability[weekday]
	if !ok || !day.Available {
		return DayAvailability{}, false
	}
	return day, true
}
