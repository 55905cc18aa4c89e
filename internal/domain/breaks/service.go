package breaks

import "context"

// Service is the break ledger business surface.
type Service interface {
	// StartBreak opens a break for the caller. Fails with ErrAlreadyOnBreak
	// when one is active, with ErrBreakTypeNotFound for an unknown type and
	// with attendance.ErrNotLoggedInToday when no attendance day is open.
	StartBreak(ctx context.Context, req StartBreakRequest) (BreakResponse, error)

	// EndBreak closes the caller's active break. Returns nil without error
	// when no break was active; the caller decides how to report that.
	EndBreak(ctx context.Context) (*BreakResponse, error)

	// SweepStale force-closes breaks that have run past the configured
	// maximum. Returns the number of breaks closed.
	SweepStale(ctx context.Context) (int, error)

	// Break type administration
	ListTypes(ctx context.Context) ([]BreakTypeResponse, error)
	CreateType(ctx context.Context, req CreateBreakTypeRequest) (BreakTypeResponse, error)
	DeleteType(ctx context.Context, id string) error
}
