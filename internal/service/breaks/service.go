package breaks

import (
	"context"
	"log/slog"
	"time"

	"github.com/initcore/callcenter-backend-go/internal/domain/attendance"
	"github.com/initcore/callcenter-backend-go/internal/domain/breaks"
	"github.com/initcore/callcenter-backend-go/internal/domain/presence"
	"github.com/initcore/callcenter-backend-go/internal/pkg/jwt"
)

type BreakServiceImpl struct {
	loc         *time.Location
	maxDuration time.Duration

	breakRepo      breaks.Repository
	typeRepo       breaks.TypeRepository
	attendanceRepo attendance.Repository
	notifier       presence.Notifier

	now func() time.Time
}

func NewBreakService(
	loc *time.Location,
	maxDuration time.Duration,
	breakRepo breaks.Repository,
	typeRepo breaks.TypeRepository,
	attendanceRepo attendance.Repository,
	notifier presence.Notifier,
) breaks.Service {
	return &BreakServiceImpl{
		loc:            loc,
		maxDuration:    maxDuration,
		breakRepo:      breakRepo,
		typeRepo:       typeRepo,
		attendanceRepo: attendanceRepo,
		notifier:       notifier,
		now:            time.Now,
	}
}

func toBreakResponse(br breaks.Break) breaks.BreakResponse {
	resp := breaks.BreakResponse{
		ID:        br.ID,
		UserID:    br.UserID,
		BreakType: br.BreakTypeName,
		StartTime: br.StartTime.Format("2006-01-02 15:04:05"),
		Active:    br.Active,
	}
	if br.EndTime != nil {
		resp.EndTime = br.EndTime.Format("2006-01-02 15:04:05")
	}
	return resp
}

// StartBreak implements breaks.Service.
func (b *BreakServiceImpl) StartBreak(ctx context.Context, req breaks.StartBreakRequest) (breaks.BreakResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return breaks.BreakResponse{}, err
	}

	if err := req.Validate(); err != nil {
		return breaks.BreakResponse{}, err
	}

	breakType, err := b.typeRepo.GetByID(ctx, req.BreakTypeID)
	if err != nil {
		return breaks.BreakResponse{}, err
	}

	nowLocal := b.now().In(b.loc)

	// A break belongs to the attendance day it starts on; a post-midnight
	// break in an overnight session attaches to the session's open record.
	att, err := b.resolveAttendance(ctx, identity.UserID, nowLocal)
	if err != nil {
		return breaks.BreakResponse{}, err
	}

	// The storage layer rejects a second active break atomically, so there
	// is no check-then-create window here.
	created, err := b.breakRepo.Create(ctx, breaks.Break{
		UserID:       identity.UserID,
		AttendanceID: att.ID,
		BreakTypeID:  breakType.ID,
		StartTime:    nowLocal,
	})
	if err != nil {
		return breaks.BreakResponse{}, err
	}
	created.BreakTypeName = breakType.Name

	b.notifier.BreakStarted(identity.UserID, identity.FullName, string(identity.Role), breakType.Name, created.StartTime)

	return toBreakResponse(created), nil
}

func (b *BreakServiceImpl) resolveAttendance(ctx context.Context, userID string, nowLocal time.Time) (*attendance.Attendance, error) {
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, b.loc)

	att, err := b.attendanceRepo.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if att != nil && att.LoginTime != nil && !att.Finalized() {
		return att, nil
	}

	att, err = b.attendanceRepo.GetOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if att == nil {
		return nil, attendance.ErrNotLoggedInToday
	}
	return att, nil
}

// EndBreak implements breaks.Service.
func (b *BreakServiceImpl) EndBreak(ctx context.Context) (*breaks.BreakResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	nowLocal := b.now().In(b.loc)

	closed, err := b.breakRepo.CloseActiveByUser(ctx, identity.UserID, nowLocal)
	if err != nil {
		return nil, err
	}

	// The ended event is idempotent ("not on break"), so it goes out even
	// when the break was already closed by a racing request or the sweeper.
	b.notifier.BreakEnded(identity.UserID)

	if closed == nil {
		return nil, nil
	}

	resp := toBreakResponse(*closed)
	return &resp, nil
}

// SweepStale implements breaks.Service.
func (b *BreakServiceImpl) SweepStale(ctx context.Context) (int, error) {
	cutoff := b.now().In(b.loc).Add(-b.maxDuration)

	stale, err := b.breakRepo.ListStaleActive(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	closedCount := 0
	for _, br := range stale {
		endTime := br.StartTime.Add(b.maxDuration)
		closed, err := b.breakRepo.CloseByID(ctx, br.ID, endTime)
		if err != nil {
			return closedCount, err
		}
		if closed == nil {
			continue // already ended by the user
		}

		slog.Warn("force-closed stale break",
			"user_id", br.UserID,
			"break_id", br.ID,
			"start_time", br.StartTime,
			"end_time", endTime,
		)
		b.notifier.BreakEnded(br.UserID)
		closedCount++
	}

	return closedCount, nil
}

// ListTypes implements breaks.Service.
func (b *BreakServiceImpl) ListTypes(ctx context.Context) ([]breaks.BreakTypeResponse, error) {
	types, err := b.typeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]breaks.BreakTypeResponse, 0, len(types))
	for _, bt := range types {
		responses = append(responses, breaks.BreakTypeResponse{ID: bt.ID, Name: bt.Name})
	}
	return responses, nil
}

// CreateType implements breaks.Service.
func (b *BreakServiceImpl) CreateType(ctx context.Context, req breaks.CreateBreakTypeRequest) (breaks.BreakTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return breaks.BreakTypeResponse{}, err
	}

	bt, err := b.typeRepo.Create(ctx, req.Name)
	if err != nil {
		return breaks.BreakTypeResponse{}, err
	}

	return breaks.BreakTypeResponse{ID: bt.ID, Name: bt.Name}, nil
}

// DeleteType implements breaks.Service.
func (b *BreakServiceImpl) DeleteType(ctx context.Context, id string) error {
	return b.typeRepo.Delete(ctx, id)
}
