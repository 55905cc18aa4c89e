package breaks

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/initcore/callcenter-backend-go/internal/domain/attendance"
	"github.com/initcore/callcenter-backend-go/internal/domain/breaks"
	"github.com/initcore/callcenter-backend-go/internal/domain/user"
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
	nextID int
}

func newFakeBreakRepo() *fakeBreakRepo {
	return &fakeBreakRepo{active: make(map[string]*breaks.Break)}
}

func (f *fakeBreakRepo) Create(_ context.Context, b breaks.Break) (breaks.Break, error) {
	if _, ok := f.active[b.UserID]; ok {
		return breaks.Break{}, breaks.ErrAlreadyOnBreak
	}
	f.nextID++
	b.ID = "break-" + b.UserID
	b.Active = true
	f.active[b.UserID] = &b
	return b, nil
}

func (f *fakeBreakRepo) GetActiveByUser(_ context.Context, userID string) (*breaks.Break, error) {
	if b, ok := f.active[userID]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeBreakRepo) CloseActiveByUser(_ context.Context, userID string, endTime time.Time) (*breaks.Break, error) {
	b, ok := f.active[userID]
	if !ok {
		return nil, nil
	}
	delete(f.active, userID)
	b.EndTime = &endTime
	b.Active = false
	cp := *b
	return &cp, nil
}

func (f *fakeBreakRepo) CloseByID(_ context.Context, id string, endTime time.Time) (*breaks.Break, error) {
	for userID, b := range f.active {
		if b.ID == id {
			return f.CloseActiveByUser(context.Background(), userID, endTime)
		}
	}
	return nil, nil
}

func (f *fakeBreakRepo) ListByAttendance(_ context.Context, _ string) ([]breaks.Break, error) {
	return nil, nil
}

func (f *fakeBreakRepo) ListActive(_ context.Context, _ []string) ([]breaks.Break, error) {
	var out []breaks.Break
	for _, b := range f.active {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBreakRepo) ListStaleActive(_ context.Context, cutoff time.Time) ([]breaks.Break, error) {
	var out []breaks.Break
	for _, b := range f.active {
		if b.StartTime.Before(cutoff) {
			out = append(out, *b)
		}
	}
	return out, nil
}

const (
	typeTeaID     = "01920000-0000-7000-8000-000000000001"
	typeMissingID = "01920000-0000-7000-8000-00000000beef"
)

type fakeTypeRepo struct {
	types map[string]breaks.BreakType
}

func newFakeTypeRepo() *fakeTypeRepo {
	return &fakeTypeRepo{types: map[string]breaks.BreakType{
		typeTeaID: {ID: typeTeaID, Name: "TEA"},
	}}
}

func (f *fakeTypeRepo) List(_ context.Context) ([]breaks.BreakType, error) {
	var out []breaks.BreakType
	for _, bt := range f.types {
		out = append(out, bt)
	}
	return out, nil
}

func (f *fakeTypeRepo) GetByID(_ context.Context, id string) (breaks.BreakType, error) {
	if bt, ok := f.types[id]; ok {
		return bt, nil
	}
	return breaks.BreakType{}, breaks.ErrBreakTypeNotFound
}

func (f *fakeTypeRepo) Create(_ context.Context, name string) (breaks.BreakType, error) {
	for _, bt := range f.types {
		if bt.Name == name {
			return breaks.BreakType{}, breaks.ErrBreakTypeExists
		}
	}
	bt := breaks.BreakType{ID: "type-" + name, Name: name}
	f.types[bt.ID] = bt
	return bt, nil
}

func (f *fakeTypeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.types[id]; !ok {
		return breaks.ErrBreakTypeNotFound
	}
	delete(f.types, id)
	return nil
}

type fakeAttendanceRepo struct {
	byDate map[string]*attendance.Attendance // user|date
	open   map[string]*attendance.Attendance // user
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{
		byDate: make(map[string]*attendance.Attendance),
		open:   make(map[string]*attendance.Attendance),
	}
}

func (f *fakeAttendanceRepo) addOpenDay(userID string, date time.Time, login time.Time) *attendance.Attendance {
	att := &attendance.Attendance{
		ID:        "att-" + userID + "-" + date.Format("20060102"),
		UserID:    userID,
		Date:      date,
		LoginTime: &login,
	}
	f.byDate[userID+"|"+date.Format("2006-01-02")] = att
	f.open[userID] = att
	return att
}

func (f *fakeAttendanceRepo) UpsertLogin(_ context.Context, _ string, _ time.Time, _ time.Time, _ string) (attendance.Attendance, error) {
	panic("not used")
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, _ string) (attendance.Attendance, error) {
	panic("not used")
}

func (f *fakeAttendanceRepo) GetByUserAndDate(_ context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	if att, ok := f.byDate[userID+"|"+date.Format("2006-01-02")]; ok {
		cp := *att
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) LockByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	return f.GetByUserAndDate(ctx, userID, date)
}

func (f *fakeAttendanceRepo) GetOpenByUser(_ context.Context, userID string) (*attendance.Attendance, error) {
	if att, ok := f.open[userID]; ok {
		cp := *att
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) Finalize(_ context.Context, _ attendance.Attendance) error { return nil }

func (f *fakeAttendanceRepo) UpdateRegulationReason(_ context.Context, _ string, _ string) error {
	return nil
}

func (f *fakeAttendanceRepo) List(_ context.Context, _ attendance.Filter) ([]attendance.Attendance, int64, error) {
	return nil, 0, nil
}

type recordingNotifier struct {
	started []string
	ended   []string
}

func (r *recordingNotifier) BreakStarted(userID, _, _, _ string, _ time.Time) {
	r.started = append(r.started, userID)
}

func (r *recordingNotifier) BreakEnded(userID string) {
	r.ended = append(r.ended, userID)
}

func newTestService(brRepo *fakeBreakRepo, typeRepo *fakeTypeRepo, attRepo *fakeAttendanceRepo, notifier *recordingNotifier, now time.Time) *BreakServiceImpl {
	svc := NewBreakService(time.UTC, 4*time.Hour, brRepo, typeRepo, attRepo, notifier).(*BreakServiceImpl)
	svc.now = func() time.Time { return now }
	return svc
}

func TestStartBreak(t *testing.T) {
	brRepo := newFakeBreakRepo()
	attRepo := newFakeAttendanceRepo()
	notifier := &recordingNotifier{}
	ctx := identityCtx(t, "agent-1", "Asha Rao", user.RoleAgent)

	now := time.Date(2026, 8, 24, 11, 0, 0, 0, time.UTC)
	att := attRepo.addOpenDay("agent-1", time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), now.Add(-2*time.Hour))

	svc := newTestService(brRepo, newFakeTypeRepo(), attRepo, notifier, now)

	resp, err := svc.StartBreak(ctx, breaks.StartBreakRequest{BreakTypeID: typeTeaID})
	require.NoError(t, err)
	assert.Equal(t, "TEA", resp.BreakType)
	assert.True(t, resp.Active)
	assert.Equal(t, []string{"agent-1"}, notifier.started)

	require.NotNil(t, brRepo.active["agent-1"])
	assert.Equal(t, att.ID, brRepo.active["agent-1"].AttendanceID)
}

func TestStartBreak_SecondBreakRejected(t *testing.T) {
	brRepo := newFakeBreakRepo()
	attRepo := newFakeAttendanceRepo()
	ctx := identityCtx(t, "agent-1", "Asha Rao", user.RoleAgent)

	now := time.Date(2026, 8, 24, 11, 0, 0, 0, time.UTC)
	attRepo.addOpenDay("agent-1", time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), now.Add(-2*time.Hour))

	svc := newTestService(brRepo, newFakeTypeRepo(), attRepo, &recordingNotifier{}, now)

	_, err := svc.StartBreak(ctx, breaks.StartBreakRequest{BreakTypeID: typeTeaID})
	require.NoError(t, err)

	_, err = svc.StartBreak(ctx, breaks.StartBreakRequest{BreakTypeID: typeTeaID})
	assert.ErrorIs(t, err, breaks.ErrAlreadyOnBreak)
}

func TestStartBreak_UnknownType(t *testing.T) {
	attRepo := newFakeAttendanceRepo()
	ctx := identityCtx(t, "agent-1", "Asha Rao", user.RoleAgent)

	now := time.Date(2026, 8, 24, 11, 0, 0, 0, time.UTC)
	attRepo.addOpenDay("agent-1", time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), now.Add(-2*time.Hour))

	svc := newTestService(newFakeBreakRepo(), newFakeTypeRepo(), attRepo, &recordingNotifier{}, now)

	_, err := svc.StartBreak(ctx, breaks.StartBreakRequest{BreakTypeID: typeMissingID})
	assert.ErrorIs(t, err, breaks.ErrBreakTypeNotFound)
}

func TestStartBreak_WithoutAttendance(t *testing.T) {
	ctx := identityCtx(t, "agent-1", "Asha Rao", user.RoleAgent)
	now := time.Date(2026, 8, 24, 11, 0, 0, 0, time.UTC)

	svc := newTestService(newFakeBreakRepo(), newFakeTypeRepo(), newFakeAttendanceRepo(), &recordingNotifier{}, now)

	_, err := svc.StartBreak(ctx, breaks.StartBreakRequest{BreakTypeID: typeTeaID})
	assert.ErrorIs(t, err, attendance.ErrNotLoggedInToday)
}

func TestStartBreak_PostMidnightAttachesToOpenDay(t *testing.T) {
	brRepo := newFakeBreakRepo()
	attRepo := newFakeAttendanceRepo()
	ctx := identityCtx(t, "agent-1", "Asha Rao", user.RoleAgent)

	// Session opened yesterday evening, break starts after midnight
	login := time.Date(2026, 8, 24, 21, 0, 0, 0, time.UTC)
	att := attRepo.addOpenDay("agent-1", time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), login)

	now := time.Date(2026, 8, 25, 0, 30, 0, 0, time.UTC)
	svc := newTestService(brRepo, newFakeTypeRepo(), attRepo, &recordingNotifier{}, now)

	_, err := svc.StartBreak(ctx, breaks.StartBreakRequest{BreakTypeID: typeTeaID})
	require.NoError(t, err)
	assert.Equal(t, att.ID, brRepo.active["agent-1"].AttendanceID)
}

func TestEndBreak(t *testing.T) {
	brRepo := newFakeBreakRepo()
	attRepo := newFakeAttendanceRepo()
	notifier := &recordingNotifier{}
	ctx := identityCtx(t, "agent-1", "Asha Rao", user.RoleAgent)

	now := time.Date(2026, 8, 24, 11, 0, 0, 0, time.UTC)
	attRepo.addOpenDay("agent-1", time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), now.Add(-2*time.Hour))

	svc := newTestService(brRepo, newFakeTypeRepo(), attRepo, notifier, now)

	_, err := svc.StartBreak(ctx, breaks.StartBreakRequest{BreakTypeID: typeTeaID})
	require.NoError(t, err)

	svc.now = func() time.Time { return now.Add(20 * time.Minute) }
	resp, err := svc.EndBreak(ctx)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.False(t, resp.Active)
	assert.Equal(t, "2026-08-24 11:20:00", resp.EndTime)
	assert.Equal(t, []string{"agent-1"}, notifier.ended)
}

func TestEndBreak_NoneActive(t *testing.T) {
	notifier := &recordingNotifier{}
	ctx := identityCtx(t, "agent-1", "Asha Rao", user.RoleAgent)
	now := time.Date(2026, 8, 24, 11, 0, 0, 0, time.UTC)

	svc := newTestService(newFakeBreakRepo(), newFakeTypeRepo(), newFakeAttendanceRepo(), notifier, now)

	resp, err := svc.EndBreak(ctx)
	require.NoError(t, err)
	assert.Nil(t, resp)

	// The ended event still goes out: it is idempotent for subscribers
	assert.Equal(t, []string{"agent-1"}, notifier.ended)
}

func TestSweepStale(t *testing.T) {
	brRepo := newFakeBreakRepo()
	notifier := &recordingNotifier{}

	now := time.Date(2026, 8, 24, 16, 0, 0, 0, time.UTC)
	brRepo.active["agent-1"] = &breaks.Break{
		ID: "break-agent-1", UserID: "agent-1",
		StartTime: now.Add(-5 * time.Hour), Active: true,
	}
	brRepo.active["agent-2"] = &breaks.Break{
		ID: "break-agent-2", UserID: "agent-2",
		StartTime: now.Add(-30 * time.Minute), Active: true,
	}

	svc := newTestService(brRepo, newFakeTypeRepo(), newFakeAttendanceRepo(), notifier, now)

	closed, err := svc.SweepStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	assert.Equal(t, []string{"agent-1"}, notifier.ended)

	// The fresh break is untouched
	require.NotNil(t, brRepo.active["agent-2"])
	assert.Nil(t, brRepo.active["agent-1"])
}

func TestBreakTypes(t *testing.T) {
	typeRepo := newFakeTypeRepo()
	svc := newTestService(newFakeBreakRepo(), typeRepo, newFakeAttendanceRepo(), &recordingNotifier{}, time.Now())

	created, err := svc.CreateType(context.Background(), breaks.CreateBreakTypeRequest{Name: "LUNCH"})
	require.NoError(t, err)
	assert.Equal(t, "LUNCH", created.Name)

	_, err = svc.CreateType(context.Background(), breaks.CreateBreakTypeRequest{Name: "LUNCH"})
	assert.ErrorIs(t, err, breaks.ErrBreakTypeExists)

	types, err := svc.ListTypes(context.Background())
	require.NoError(t, err)
	assert.Len(t, types, 2)

	require.NoError(t, svc.DeleteType(context.Background(), created.ID))
	assert.ErrorIs(t, svc.DeleteType(context.Background(), created.ID), breaks.ErrBreakTypeNotFound)
}
