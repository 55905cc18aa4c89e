package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/initcore/callcenter-backend-go/internal/domain/attendance"
	"github.com/initcore/callcenter-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	UpdateRegulation(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Login implements AttendanceHandler.
func (h *attendanceHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.MarkLogin(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login recorded", resp)
}

// Logout implements AttendanceHandler.
func (h *attendanceHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.MarkLogout(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logout recorded", resp)
}

func stringQueryPtr(r *http.Request, key string) *string {
	if val := r.URL.Query().Get(key); val != "" {
		return &val
	}
	return nil
}

func intQuery(r *http.Request, key string) int {
	val, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return val
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := attendance.Filter{
		Date:      stringQueryPtr(r, "date"),
		StartDate: stringQueryPtr(r, "start_date"),
		EndDate:   stringQueryPtr(r, "end_date"),
		Status:    stringQueryPtr(r, "status"),
		Page:      intQuery(r, "page"),
		Limit:     intQuery(r, "limit"),
		SortBy:    r.URL.Query().Get("sort_by"),
		SortOrder: r.URL.Query().Get("sort_order"),
	}

	resp, err := h.attendanceService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, resp.Attendances, &response.Meta{
		Page:       resp.Page,
		Limit:      resp.Limit,
		TotalItems: resp.TotalCount,
		TotalPages: resp.TotalPages,
	})
}

// UpdateRegulation implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpdateRegulation(w http.ResponseWriter, r *http.Request) {
	var req attendance.RegulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := h.attendanceService.UpdateRegulationReason(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Regulation reason updated", nil)
}
