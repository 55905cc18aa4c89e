package breaks

import "errors"

// Break ledger errors
var (
	// Lifecycle errors
	ErrAlreadyOnBreak = errors.New("an active break already exists for this user")
	ErrNotOnBreak     = errors.New("no active break for this user")

	// Resolution errors
	ErrBreakNotFound     = errors.New("break record not found")
	ErrBreakTypeNotFound = errors.New("break type not found")
	ErrBreakTypeExists   = errors.New("break type already exists")
)
