package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrNotLoggedInToday   = errors.New("no attendance record for today")
)
