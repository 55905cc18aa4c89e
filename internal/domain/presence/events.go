package presence

import "time"

// SSE event names carried on the presence streams.
const (
	EventBreakStarted = "break_started"
	EventBreakEnded   = "break_ended"
)

// BreakEvent is the wire payload for both presence events. A started event
// carries the full snapshot; an ended event carries only the user id with
// on_break false.
type BreakEvent struct {
	UserID    string     `json:"user_id"`
	UserName  string     `json:"user_name,omitempty"`
	Role      string     `json:"role,omitempty"`
	OnBreak   bool       `json:"on_break"`
	BreakType string     `json:"break_type,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
}

// UserState is the point-in-time presence snapshot for a single user.
// Known distinguishes "user exists but is not on break" from "no such user".
type UserState struct {
	UserID    string     `json:"user_id"`
	Known     bool       `json:"known"`
	OnBreak   bool       `json:"on_break"`
	BreakType *string    `json:"break_type,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
}

// Notifier receives break lifecycle transitions and fans them out to the
// interested presence channels. Implementations must not block the caller.
type Notifier interface {
	BreakStarted(userID, userName, role, breakType string, startTime time.Time)
	BreakEnded(userID string)
}
