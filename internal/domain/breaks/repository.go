package breaks

import (
	"context"
	"time"
)

// Repository defines data access for break records.
type Repository interface {
	// Create persists a new active break. The storage layer enforces "at
	// most one active break per user": a concurrent duplicate surfaces as
	// ErrAlreadyOnBreak from the unique-constraint violation, making the
	// check-and-create atomic.
	Create(ctx context.Context, b Break) (Break, error)

	// GetActiveByUser returns the user's active break, nil when none
	GetActiveByUser(ctx context.Context, userID string) (*Break, error)

	// CloseActiveByUser closes the user's active break in one statement and
	// returns it, or nil when no break was active. Racing callers cannot
	// both close the same break.
	CloseActiveByUser(ctx context.Context, userID string, endTime time.Time) (*Break, error)

	// CloseByID closes a specific break if it is still active, nil when it
	// was already closed. Used by the stale-break sweeper so it never
	// touches a break the user started after the stale one ended.
	CloseByID(ctx context.Context, id string, endTime time.Time) (*Break, error)

	// ListByAttendance returns every break attributed to an attendance day
	ListByAttendance(ctx context.Context, attendanceID string) ([]Break, error)

	// ListActive returns active breaks with user info joined. A nil userIDs
	// slice means all users (administrative view).
	ListActive(ctx context.Context, userIDs []string) ([]Break, error)

	// ListStaleActive returns active breaks that started before the cutoff
	ListStaleActive(ctx context.Context, cutoff time.Time) ([]Break, error)
}

// TypeRepository defines data access for the break type master list.
type TypeRepository interface {
	List(ctx context.Context) ([]BreakType, error)
	GetByID(ctx context.Context, id string) (BreakType, error)
	Create(ctx context.Context, name string) (BreakType, error)
	Delete(ctx context.Context, id string) error
}
