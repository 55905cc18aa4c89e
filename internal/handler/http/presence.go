package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/initcore/callcenter-backend-go/internal/domain/presence"
	"github.com/initcore/callcenter-backend-go/internal/domain/user"
	"github.com/initcore/callcenter-backend-go/internal/handler/http/response"
	"github.com/initcore/callcenter-backend-go/internal/pkg/jwt"
	"github.com/initcore/callcenter-backend-go/internal/pkg/sse"
)

type PresenceHandler interface {
	// MonitorStream streams the break events of everyone the caller
	// supervises: the full floor for administrators, the caller's agents
	// for team leaders.
	MonitorStream(w http.ResponseWriter, r *http.Request)

	// SelfStream streams one user's own break state, opening with a
	// snapshot so a reconnecting dashboard does not miss the current break.
	SelfStream(w http.ResponseWriter, r *http.Request)
}

type presenceHandlerImpl struct {
	hub             *sse.Hub
	presenceService presence.Service
}

func NewPresenceHandler(hub *sse.Hub, presenceService presence.Service) PresenceHandler {
	return &presenceHandlerImpl{
		hub:             hub,
		presenceService: presenceService,
	}
}

// MonitorStream implements PresenceHandler.
func (h *presenceHandlerImpl) MonitorStream(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// The channel is fixed at connect time from the verified role claim
	var channel string
	switch identity.Role {
	case user.RoleAdministrator:
		channel = sse.ChannelAdmin
	case user.RoleTeamLeader:
		channel = sse.SupervisorChannel(identity.UserID)
	default:
		response.HandleError(w, presence.ErrPermissionDenied)
		return
	}

	h.stream(w, r, channel, nil)
}

// SelfStream implements PresenceHandler.
func (h *presenceHandlerImpl) SelfStream(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	userID := chi.URLParam(r, "userID")
	if userID != identity.UserID && !identity.Role.IsSupervisory() {
		response.HandleError(w, presence.ErrPermissionDenied)
		return
	}

	state, err := h.presenceService.UserState(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	h.stream(w, r, sse.UserChannel(userID), &state)
}

func (h *presenceHandlerImpl) stream(w http.ResponseWriter, r *http.Request, channel string, snapshot *presence.UserState) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(channel)
	defer cleanup()

	if snapshot != nil {
		data, err := json.Marshal(snapshot)
		if err != nil {
			slog.Error("Failed to encode presence snapshot", "channel", channel, "error", err)
		} else {
			fmt.Fprintf(w, "event: state\ndata: %s\n\n", data)
		}
	} else {
		fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	}
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Failed to encode presence event", "channel", channel, "event", event.Name, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
