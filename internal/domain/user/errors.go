package user

import "errors"

// User directory errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already registered")

	ErrAdminAccessRequired      = errors.New("administrator access required")
	ErrSupervisorAccessRequired = errors.New("administrator or team leader access required")
)
