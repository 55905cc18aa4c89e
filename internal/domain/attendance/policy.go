package attendance

import "time"

// Shift policy. The grace cutoff for punctuality is shift start plus the
// grace period (09:10:00); logins at or before it are on time, everything
// after is late.
const (
	ShiftStartHour   = 9
	ShiftStartMinute = 0
	ShiftEndHour     = 18
	ShiftEndMinute   = 0

	GracePeriodMinutes = 10

	HalfDayThresholdMinutes = 270 // 4.5h
	FullDayThresholdMinutes = 540 // 9h
)

// ShiftStart returns the shift start instant on the login's calendar day, in
// the login's location.
func ShiftStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), ShiftStartHour, ShiftStartMinute, 0, 0, t.Location())
}

// LateCutoff returns the last on-time login instant on the login's day.
func LateCutoff(t time.Time) time.Time {
	return ShiftStart(t).Add(GracePeriodMinutes * time.Minute)
}

// ClassifyPunctuality classifies a login instant against the shift start
// plus grace period.
func ClassifyPunctuality(login time.Time) Punctuality {
	if !login.After(LateCutoff(login)) {
		return PunctualityOnTime
	}
	return PunctualityLate
}

// ClassifyStatus classifies a day by its effective working minutes.
func ClassifyStatus(effectiveWorkingMinutes int) Status {
	switch {
	case effectiveWorkingMinutes >= FullDayThresholdMinutes:
		return StatusPresent
	case effectiveWorkingMinutes >= HalfDayThresholdMinutes:
		return StatusHalfDay
	default:
		return StatusAbsent
	}
}

// SplitMinutes splits a minute total into an (hours, minutes) pair for display.
func SplitMinutes(total int) (hours int, minutes int) {
	return total / 60, total % 60
}

// Derived is the result of finalizing an attendance day.
type Derived struct {
	Status           Status
	Punctuality      Punctuality
	RawLoginMinutes  int
	BreakMinutes     int
	EffectiveMinutes int
	// Clamped is set when break time exceeded the login window and the
	// effective total was clamped to zero. Callers should log it as a
	// data-integrity warning.
	Clamped bool
}

// Derive computes the derived attendance fields from a closed login window
// and the day's aggregated break minutes. It is pure: calling it again with
// the same inputs yields the same result, which is what makes re-finalizing
// after late break edits safe.
func Derive(login time.Time, logout time.Time, breakMinutes int) Derived {
	raw := int(logout.Sub(login) / time.Minute)

	effective := raw - breakMinutes
	clamped := effective < 0
	if clamped {
		effective = 0
	}

	return Derived{
		Status:           ClassifyStatus(effective),
		Punctuality:      ClassifyPunctuality(login),
		RawLoginMinutes:  raw,
		BreakMinutes:     breakMinutes,
		EffectiveMinutes: effective,
		Clamped:          clamped,
	}
}
