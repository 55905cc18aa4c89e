package breaks

import (
	"time"
)

// Break is a bounded interval of non-working time within an attendance day.
// It is created active and closed exactly once; a user has at most one
// active break at any time (enforced by a partial unique index).
type Break struct {
	ID           string
	UserID       string
	AttendanceID string
	BreakTypeID  string
	StartTime    time.Time
	EndTime      *time.Time
	Active       bool
	CreatedAt    time.Time

	// DTO
	BreakTypeName string
	UserName      *string
	UserRole      *string
}

// DurationMinutes returns the whole minutes of a closed break, truncating
// any partial minute. Open breaks contribute zero.
func (b Break) DurationMinutes() int {
	if b.EndTime == nil {
		return 0
	}
	mins := int(b.EndTime.Sub(b.StartTime) / time.Minute)
	if mins < 0 {
		return 0
	}
	return mins
}

// AggregateMinutes sums the durations of the closed breaks in the set. Open
// breaks should not exist at finalize time, but when they do they count as
// zero rather than failing the aggregation.
func AggregateMinutes(set []Break) int {
	total := 0
	for _, b := range set {
		total += b.DurationMinutes()
	}
	return total
}

// BreakType is the admin-managed break category (TEA, LUNCH, BRIEFING, ...).
type BreakType struct {
	ID   string
	Name string
}
