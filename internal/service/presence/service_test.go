package presence

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/initcore/callcenter-backend-go/internal/domain/breaks"
	"github.com/initcore/callcenter-backend-go/internal/domain/presence"
	"github.com/initcore/callcenter-backend-go/internal/domain/user"
	"github.com/initcore/callcenter-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityCtx(t *testing.T, userID, fullName string, role user.Role) context.Context {
	t.Helper()
	tokenAuth := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{
		"user_id":   userID,
		"full_name": fullName,
		"role":      string(role),
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

type fakeBreakRepo struct {
	active map[string]*breaks.Break
}

func newFakeBreakRepo() *fakeBreakRepo {
	return &fakeBreakRepo{active: make(map[string]*breaks.Break)}
}

func (f *fakeBreakRepo) Create(_ context.Context, b breaks.Break) (breaks.Break, error) {
	panic("not used")
}

func (f *fakeBreakRepo) GetActiveByUser(_ context.Context, userID string) (*breaks.Break, error) {
	if b, ok := f.active[userID]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeBreakRepo) CloseActiveByUser(_ context.Context, _ string, _ time.Time) (*breaks.Break, error) {
	panic("not used")
}

func (f *fakeBreakRepo) CloseByID(_ context.Context, _ string, _ time.Time) (*breaks.Break, error) {
	panic("not used")
}

func (f *fakeBreakRepo) ListByAttendance(_ context.Context, _ string) ([]breaks.Break, error) {
	panic("not used")
}

func (f *fakeBreakRepo) ListActive(_ context.Context, userIDs []string) ([]breaks.Break, error) {
	var out []breaks.Break
	for _, b := range f.active {
		if userIDs != nil {
			match := false
			for _, id := range userIDs {
				if id == b.UserID {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBreakRepo) ListStaleActive(_ context.Context, _ time.Time) ([]breaks.Break, error) {
	panic("not used")
}

type fakeDirectory struct {
	users       map[string]user.User
	supervisors map[string]string
	agents      map[string][]string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users:       make(map[string]user.User),
		supervisors: make(map[string]string),
		agents:      make(map[string][]string),
	}
}

func (f *fakeDirectory) GetByID(_ context.Context, id string) (user.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeDirectory) ResolveSupervisor(_ context.Context, userID string) (*string, error) {
	if leaderID, ok := f.supervisors[userID]; ok {
		return &leaderID, nil
	}
	return nil, nil
}

func (f *fakeDirectory) ListAgentIDsByLeader(_ context.Context, leaderID string) ([]string, error) {
	return f.agents[leaderID], nil
}

func drain(ch chan sse.Event) []sse.Event {
	var out []sse.Event
	for {
		select {
		case ev := <-ch:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestBreakStarted_FanOut(t *testing.T) {
	hub := sse.NewHub()
	dir := newFakeDirectory()
	dir.supervisors["agent-1"] = "leader-1"

	adminCh, adminLeave := hub.Subscribe(sse.ChannelAdmin)
	defer adminLeave()
	leaderCh, leaderLeave := hub.Subscribe(sse.SupervisorChannel("leader-1"))
	defer leaderLeave()
	otherLeaderCh, otherLeave := hub.Subscribe(sse.SupervisorChannel("leader-2"))
	defer otherLeave()
	selfCh, selfLeave := hub.Subscribe(sse.UserChannel("agent-1"))
	defer selfLeave()

	svc := NewPresenceService(hub, newFakeBreakRepo(), dir)

	start := time.Date(2026, 8, 24, 11, 0, 0, 0, time.UTC)
	svc.BreakStarted("agent-1", "Asha Rao", "Agent", "TEA", start)

	adminEvents := drain(adminCh)
	require.Len(t, adminEvents, 1)
	assert.Equal(t, presence.EventBreakStarted, adminEvents[0].Name)

	payload, ok := adminEvents[0].Data.(presence.BreakEvent)
	require.True(t, ok)
	assert.Equal(t, "agent-1", payload.UserID)
	assert.Equal(t, "Asha Rao", payload.UserName)
	assert.True(t, payload.OnBreak)
	assert.Equal(t, "TEA", payload.BreakType)
	require.NotNil(t, payload.StartTime)
	assert.True(t, payload.StartTime.Equal(start))

	assert.Len(t, drain(leaderCh), 1)
	assert.Len(t, drain(otherLeaderCh), 0)
	assert.Len(t, drain(selfCh), 1)
}

func TestBreakStarted_UnsupervisedUserSkipsSupervisorChannel(t *testing.T) {
	hub := sse.NewHub()
	dir := newFakeDirectory()

	adminCh, adminLeave := hub.Subscribe(sse.ChannelAdmin)
	defer adminLeave()
	leaderCh, leaderLeave := hub.Subscribe(sse.SupervisorChannel("leader-1"))
	defer leaderLeave()

	svc := NewPresenceService(hub, newFakeBreakRepo(), dir)
	svc.BreakStarted("leader-1", "Priya Nair", "Team Leader", "LUNCH", time.Now())

	assert.Len(t, drain(adminCh), 1)
	assert.Len(t, drain(leaderCh), 0)
}

func TestBreakEnded_FanOut(t *testing.T) {
	hub := sse.NewHub()
	dir := newFakeDirectory()
	dir.supervisors["agent-1"] = "leader-1"

	leaderCh, leaderLeave := hub.Subscribe(sse.SupervisorChannel("leader-1"))
	defer leaderLeave()

	svc := NewPresenceService(hub, newFakeBreakRepo(), dir)
	svc.BreakEnded("agent-1")

	events := drain(leaderCh)
	require.Len(t, events, 1)
	assert.Equal(t, presence.EventBreakEnded, events[0].Name)

	payload, ok := events[0].Data.(presence.BreakEvent)
	require.True(t, ok)
	assert.Equal(t, "agent-1", payload.UserID)
	assert.False(t, payload.OnBreak)
	assert.Nil(t, payload.StartTime)
}

func activeBreak(userID, name, role string) *breaks.Break {
	return &breaks.Break{
		ID:            "break-" + userID,
		UserID:        userID,
		BreakTypeName: "TEA",
		StartTime:     time.Date(2026, 8, 24, 11, 0, 0, 0, time.UTC),
		Active:        true,
		UserName:      &name,
		UserRole:      &role,
	}
}

func TestCurrentBreaks_Administrator(t *testing.T) {
	brRepo := newFakeBreakRepo()
	brRepo.active["agent-1"] = activeBreak("agent-1", "Asha Rao", "Agent")
	brRepo.active["agent-9"] = activeBreak("agent-9", "Vikram Shah", "Agent")

	svc := NewPresenceService(sse.NewHub(), brRepo, newFakeDirectory())

	events, err := svc.CurrentBreaks(identityCtx(t, "admin-1", "Admin", user.RoleAdministrator))
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestCurrentBreaks_TeamLeaderScopedToOwnAgents(t *testing.T) {
	brRepo := newFakeBreakRepo()
	brRepo.active["agent-1"] = activeBreak("agent-1", "Asha Rao", "Agent")
	brRepo.active["agent-9"] = activeBreak("agent-9", "Vikram Shah", "Agent")

	dir := newFakeDirectory()
	dir.agents["leader-1"] = []string{"agent-1"}

	svc := NewPresenceService(sse.NewHub(), brRepo, dir)

	events, err := svc.CurrentBreaks(identityCtx(t, "leader-1", "Priya Nair", user.RoleTeamLeader))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "agent-1", events[0].UserID)
	assert.Equal(t, "Asha Rao", events[0].UserName)
}

func TestCurrentBreaks_LeaderWithNoAgentsSeesNone(t *testing.T) {
	brRepo := newFakeBreakRepo()
	brRepo.active["agent-1"] = activeBreak("agent-1", "Asha Rao", "Agent")

	svc := NewPresenceService(sse.NewHub(), brRepo, newFakeDirectory())

	events, err := svc.CurrentBreaks(identityCtx(t, "leader-2", "Rohit Iyer", user.RoleTeamLeader))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCurrentBreaks_AgentDenied(t *testing.T) {
	svc := NewPresenceService(sse.NewHub(), newFakeBreakRepo(), newFakeDirectory())

	_, err := svc.CurrentBreaks(identityCtx(t, "agent-1", "Asha Rao", user.RoleAgent))
	assert.ErrorIs(t, err, presence.ErrPermissionDenied)
}

func TestUserState(t *testing.T) {
	brRepo := newFakeBreakRepo()
	dir := newFakeDirectory()
	dir.users["agent-1"] = user.User{ID: "agent-1", FullName: "Asha Rao", Role: user.RoleAgent}
	dir.users["agent-2"] = user.User{ID: "agent-2", FullName: "Vikram Shah", Role: user.RoleAgent}
	brRepo.active["agent-1"] = activeBreak("agent-1", "Asha Rao", "Agent")

	svc := NewPresenceService(sse.NewHub(), brRepo, dir)

	state, err := svc.UserState(context.Background(), "agent-1")
	require.NoError(t, err)
	assert.True(t, state.Known)
	assert.True(t, state.OnBreak)
	require.NotNil(t, state.BreakType)
	assert.Equal(t, "TEA", *state.BreakType)
	require.NotNil(t, state.StartTime)

	state, err = svc.UserState(context.Background(), "agent-2")
	require.NoError(t, err)
	assert.True(t, state.Known)
	assert.False(t, state.OnBreak)
	assert.Nil(t, state.BreakType)

	// Unknown users are reported, not errored
	state, err = svc.UserState(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, state.Known)
	assert.False(t, state.OnBreak)
}
