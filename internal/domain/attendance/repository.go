package attendance

import (
	"context"
	"time"
)

// Repository defines data access for attendance records. Date parameters are
// calendar days (midnight in the business timezone).
type Repository interface {
	// UpsertLogin creates the day's record on first login, or touches the
	// existing one. The login time is only written when unset: the first
	// login of the day wins. Atomic via INSERT .. ON CONFLICT.
	UpsertLogin(ctx context.Context, userID string, date time.Time, loginTime time.Time, day string) (Attendance, error)

	// GetByID retrieves a record by id
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndDate retrieves the record for a specific day, nil when absent
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// LockByUserAndDate is GetByUserAndDate with a row lock, for use inside
	// a transaction so finalize cannot race a concurrent break close
	LockByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// GetOpenByUser returns the user's most recent record without a logout,
	// nil when none. Used to attribute post-midnight breaks and logouts to
	// the session's owning day.
	GetOpenByUser(ctx context.Context, userID string) (*Attendance, error)

	// Finalize writes logout time and every derived field in one statement
	Finalize(ctx context.Context, att Attendance) error

	// UpdateRegulationReason edits the supervisor note without re-derivation
	UpdateRegulationReason(ctx context.Context, id string, reason string) error

	// List retrieves records with filters and pagination. A non-nil
	// UserIDs slice restricts the result to those users (role scoping).
	List(ctx context.Context, filter Filter) ([]Attendance, int64, error)
}
