package breaks

import (
	"github.com/initcore/callcenter-backend-go/internal/pkg/validator"
)

type StartBreakRequest struct {
	BreakTypeID string `json:"break_type_id"`
}

func (r *StartBreakRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.BreakTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "break_type_id",
			Message: "break_type_id is required",
		})
	} else if !validator.IsValidUUID(r.BreakTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "break_type_id",
			Message: "break_type_id must be a valid id",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateBreakTypeRequest struct {
	Name string `json:"name"`
}

func (r *CreateBreakTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type BreakResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	BreakType string `json:"break_type"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time,omitempty"`
	Active    bool   `json:"active"`
}

type BreakTypeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
