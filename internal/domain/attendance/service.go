package attendance

import "context"

// Service is the attendance business surface. The caller's identity comes
// from the verified token on the context.
type Service interface {
	// MarkLogin opens (or touches) the caller's record for today. The first
	// login of a day is the one that sticks.
	MarkLogin(ctx context.Context) (Response, error)

	// MarkLogout finalizes the caller's open record: closes any active
	// break, aggregates break minutes and derives status, punctuality and
	// the time totals. A repeated logout re-finalizes with the later time.
	MarkLogout(ctx context.Context) (Response, error)

	// List retrieves attendance records scoped to what the caller may see
	List(ctx context.Context, filter Filter) (ListResponse, error)

	// UpdateRegulationReason attaches a supervisor note to a record
	UpdateRegulationReason(ctx context.Context, req RegulationRequest) error
}
