package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/initcore/callcenter-backend-go/internal/domain/breaks"
	"github.com/initcore/callcenter-backend-go/internal/domain/presence"
	"github.com/initcore/callcenter-backend-go/internal/handler/http/response"
)

type BreakHandler interface {
	Start(w http.ResponseWriter, r *http.Request)
	End(w http.ResponseWriter, r *http.Request)
	State(w http.ResponseWriter, r *http.Request)
	ListActive(w http.ResponseWriter, r *http.Request)

	ListTypes(w http.ResponseWriter, r *http.Request)
	CreateType(w http.ResponseWriter, r *http.Request)
	DeleteType(w http.ResponseWriter, r *http.Request)
}

type breakHandlerImpl struct {
	breakService    breaks.Service
	presenceService presence.Service
}

func NewBreakHandler(breakService breaks.Service, presenceService presence.Service) BreakHandler {
	return &breakHandlerImpl{
		breakService:    breakService,
		presenceService: presenceService,
	}
}

// Start implements BreakHandler.
func (h *breakHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	var req breaks.StartBreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.breakService.StartBreak(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Break started", resp)
}

// End implements BreakHandler.
func (h *breakHandlerImpl) End(w http.ResponseWriter, r *http.Request) {
	resp, err := h.breakService.EndBreak(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if resp == nil {
		// No active break to close; the state is already what an end
		// requests, but the caller should know their request was a no-op.
		response.HandleError(w, breaks.ErrNotOnBreak)
		return
	}

	response.SuccessWithMessage(w, "Break ended", resp)
}

// State implements BreakHandler.
func (h *breakHandlerImpl) State(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	state, err := h.presenceService.UserState(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, state)
}

// ListActive implements BreakHandler.
func (h *breakHandlerImpl) ListActive(w http.ResponseWriter, r *http.Request) {
	events, err := h.presenceService.CurrentBreaks(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, events)
}

// ListTypes implements BreakHandler.
func (h *breakHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.breakService.ListTypes(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, types)
}

// CreateType implements BreakHandler.
func (h *breakHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	var req breaks.CreateBreakTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.breakService.CreateType(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Break type created", created)
}

// DeleteType implements BreakHandler.
func (h *breakHandlerImpl) DeleteType(w http.ResponseWriter, r *http.Request) {
	if err := h.breakService.DeleteType(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break type deleted", nil)
}
