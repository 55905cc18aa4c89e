package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "Present"
	StatusHalfDay Status = "Half day"
	StatusAbsent  Status = "Absent"
)

type Punctuality string

const (
	PunctualityOnTime Punctuality = "On Time"
	PunctualityLate   Punctuality = "Late"
)

// Attendance is one user's record for one calendar day. At most one record
// exists per (user, date). Status, punctuality and the time totals are
// derived; they only carry meaning once LogoutTime is set.
type Attendance struct {
	ID               string
	UserID           string
	Date             time.Time
	Day              string
	LoginTime        *time.Time
	LogoutTime       *time.Time
	Status           Status
	Punctuality      *Punctuality
	RegulationReason *string
	TotalLoginHours  int
	TotalLoginMins   int
	TotalBreakHours  int
	TotalBreakMins   int
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// DTO
	UserName *string
	UserRole *string
}

// Finalized reports whether the record has been closed by a logout.
func (a Attendance) Finalized() bool {
	return a.LogoutTime != nil
}
