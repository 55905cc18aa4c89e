package presence

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/initcore/callcenter-backend-go/internal/domain/breaks"
	"github.com/initcore/callcenter-backend-go/internal/domain/presence"
	"github.com/initcore/callcenter-backend-go/internal/domain/user"
	"github.com/initcore/callcenter-backend-go/internal/pkg/jwt"
	"github.com/initcore/callcenter-backend-go/internal/pkg/sse"
)

type PresenceServiceImpl struct {
	hub       *sse.Hub
	breakRepo breaks.Repository
	directory user.Directory
}

func NewPresenceService(hub *sse.Hub, breakRepo breaks.Repository, directory user.Directory) presence.Service {
	return &PresenceServiceImpl{
		hub:       hub,
		breakRepo: breakRepo,
		directory: directory,
	}
}

// fanOut publishes one event to every channel interested in the user: the
// administrative feed, the supervising leader's feed when the user has one,
// and the user's own feed. Publication never blocks; a slow subscriber
// misses the event.
func (p *PresenceServiceImpl) fanOut(userID string, event sse.Event) {
	p.hub.Publish(sse.ChannelAdmin, event)

	supervisorID, err := p.directory.ResolveSupervisor(context.Background(), userID)
	if err != nil {
		slog.Error("failed to resolve supervisor for presence fan-out",
			"user_id", userID,
			"error", err,
		)
	} else if supervisorID != nil {
		p.hub.Publish(sse.SupervisorChannel(*supervisorID), event)
	}

	p.hub.Publish(sse.UserChannel(userID), event)
}

// BreakStarted implements presence.Notifier.
func (p *PresenceServiceImpl) BreakStarted(userID, userName, role, breakType string, startTime time.Time) {
	p.fanOut(userID, sse.Event{
		Name: presence.EventBreakStarted,
		Data: presence.BreakEvent{
			UserID:    userID,
			UserName:  userName,
			Role:      role,
			OnBreak:   true,
			BreakType: breakType,
			StartTime: &startTime,
		},
	})
}

// BreakEnded implements presence.Notifier.
func (p *PresenceServiceImpl) BreakEnded(userID string) {
	p.fanOut(userID, sse.Event{
		Name: presence.EventBreakEnded,
		Data: presence.BreakEvent{
			UserID:  userID,
			OnBreak: false,
		},
	})
}

// CurrentBreaks implements presence.Service.
func (p *PresenceServiceImpl) CurrentBreaks(ctx context.Context) ([]presence.BreakEvent, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var scope []string
	switch identity.Role {
	case user.RoleAdministrator:
		scope = nil // everyone
	case user.RoleTeamLeader:
		scope, err = p.directory.ListAgentIDsByLeader(ctx, identity.UserID)
		if err != nil {
			return nil, err
		}
		if scope == nil {
			scope = []string{} // a leader with no agents sees an empty set, not everyone
		}
	default:
		return nil, presence.ErrPermissionDenied
	}

	active, err := p.breakRepo.ListActive(ctx, scope)
	if err != nil {
		return nil, err
	}

	events := make([]presence.BreakEvent, 0, len(active))
	for _, br := range active {
		ev := presence.BreakEvent{
			UserID:    br.UserID,
			OnBreak:   true,
			BreakType: br.BreakTypeName,
			StartTime: &br.StartTime,
		}
		if br.UserName != nil {
			ev.UserName = *br.UserName
		}
		if br.UserRole != nil {
			ev.Role = *br.UserRole
		}
		events = append(events, ev)
	}

	return events, nil
}

// UserState implements presence.Service.
func (p *PresenceServiceImpl) UserState(ctx context.Context, userID string) (presence.UserState, error) {
	if _, err := p.directory.GetByID(ctx, userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return presence.UserState{UserID: userID, Known: false}, nil
		}
		return presence.UserState{}, err
	}

	state := presence.UserState{UserID: userID, Known: true}

	active, err := p.breakRepo.GetActiveByUser(ctx, userID)
	if err != nil {
		return presence.UserState{}, err
	}
	if active != nil {
		state.OnBreak = true
		state.BreakType = &active.BreakTypeName
		state.StartTime = &active.StartTime
	}

	return state, nil
}
