package presence

import "errors"

var (
	ErrPermissionDenied = errors.New("not allowed to view this presence scope")
)
