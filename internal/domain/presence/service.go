package presence

import "context"

// Service answers presence queries and, through the embedded Notifier,
// fans break transitions out to the SSE channels.
type Service interface {
	Notifier

	// CurrentBreaks returns the active breaks visible to the caller:
	// administrators see everyone, team leaders their own agents, and
	// anyone else is denied.
	CurrentBreaks(ctx context.Context) ([]BreakEvent, error)

	// UserState returns a user's presence snapshot. Unknown users yield a
	// state with Known false rather than an error, so pollers can treat
	// "no such user" and "not on break" uniformly.
	UserState(ctx context.Context, userID string) (UserState, error)
}
