package response

import (
	"errors"
	"net/http"

	"github.com/initcore/callcenter-backend-go/internal/domain/attendance"
	"github.com/initcore/callcenter-backend-go/internal/domain/breaks"
	"github.com/initcore/callcenter-backend-go/internal/domain/payment"
	"github.com/initcore/callcenter-backend-go/internal/domain/presence"
	"github.com/initcore/callcenter-backend-go/internal/domain/user"
	"github.com/initcore/callcenter-backend-go/internal/pkg/jwt"
	"github.com/initcore/callcenter-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity errors
	case errors.Is(err, jwt.ErrMissingIdentity):
		Unauthorized(w, "Missing or invalid identity token")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrAdminAccessRequired),
		errors.Is(err, user.ErrSupervisorAccessRequired):
		Forbidden(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrNotLoggedInToday):
		NotFound(w, "No attendance login recorded for today")

	// Break domain errors
	case errors.Is(err, breaks.ErrAlreadyOnBreak):
		Conflict(w, "An active break already exists")
	case errors.Is(err, breaks.ErrNotOnBreak):
		Conflict(w, "No active break to end")
	case errors.Is(err, breaks.ErrBreakNotFound):
		NotFound(w, "Break record not found")
	case errors.Is(err, breaks.ErrBreakTypeNotFound):
		NotFound(w, "Break type not found")
	case errors.Is(err, breaks.ErrBreakTypeExists):
		Conflict(w, "Break type already exists")

	// Presence domain errors
	case errors.Is(err, presence.ErrPermissionDenied):
		Forbidden(w, "Not allowed to view this presence scope")

	// Payment domain errors
	case errors.Is(err, payment.ErrPaymentNotFound):
		NotFound(w, "Payment record not found")
	case errors.Is(err, payment.ErrPaymentAlreadyVerified):
		Conflict(w, "Payment has already been verified")
	case errors.Is(err, payment.ErrInvoiceNotFound):
		NotFound(w, "No invoice issued for this payment")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
