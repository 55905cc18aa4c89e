package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/initcore/callcenter-backend-go/internal/domain/attendance"
	"github.com/initcore/callcenter-backend-go/internal/domain/breaks"
	"github.com/initcore/callcenter-backend-go/internal/domain/presence"
	"github.com/initcore/callcenter-backend-go/internal/domain/user"
	"github.com/initcore/callcenter-backend-go/internal/pkg/database"
	"github.com/initcore/callcenter-backend-go/internal/pkg/jwt"
)

type AttendanceServiceImpl struct {
	tx  database.TxRunner
	loc *time.Location

	attendanceRepo attendance.Repository
	breakRepo      breaks.Repository
	directory      user.Directory
	notifier       presence.Notifier

	now func() time.Time
}

func NewAttendanceService(
	tx database.TxRunner,
	loc *time.Location,
	attendanceRepo attendance.Repository,
	breakRepo breaks.Repository,
	directory user.Directory,
	notifier presence.Notifier,
) attendance.Service {
	return &AttendanceServiceImpl{
		tx:             tx,
		loc:            loc,
		attendanceRepo: attendanceRepo,
		breakRepo:      breakRepo,
		directory:      directory,
		notifier:       notifier,
		now:            time.Now,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

func punctualityPtrToString(p *attendance.Punctuality) *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}

func toResponse(att attendance.Attendance) attendance.Response {
	return attendance.Response{
		ID:               att.ID,
		UserID:           att.UserID,
		UserName:         att.UserName,
		UserRole:         att.UserRole,
		Date:             att.Date.Format("2006-01-02"),
		Day:              att.Day,
		LoginTime:        timePtrToString(att.LoginTime),
		LogoutTime:       timePtrToString(att.LogoutTime),
		Status:           string(att.Status),
		Punctuality:      punctualityPtrToString(att.Punctuality),
		RegulationReason: att.RegulationReason,
		TotalLoginTime:   fmt.Sprintf("%02d:%02d", att.TotalLoginHours, att.TotalLoginMins),
		TotalBreakTime:   fmt.Sprintf("%02d:%02d", att.TotalBreakHours, att.TotalBreakMins),
	}
}

// MarkLogin implements attendance.Service.
func (a *AttendanceServiceImpl) MarkLogin(ctx context.Context) (attendance.Response, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return attendance.Response{}, err
	}

	nowLocal := a.now().In(a.loc)
	date := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, a.loc)
	day := nowLocal.Weekday().String()

	att, err := a.attendanceRepo.UpsertLogin(ctx, identity.UserID, date, nowLocal, day)
	if err != nil {
		return attendance.Response{}, err
	}

	return toResponse(att), nil
}

// MarkLogout implements attendance.Service.
func (a *AttendanceServiceImpl) MarkLogout(ctx context.Context) (attendance.Response, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return attendance.Response{}, err
	}

	nowLocal := a.now().In(a.loc)
	today := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, a.loc)

	// Resolve the day to close outside the transaction: today's record when
	// it has a login, otherwise the most recent open record (overnight
	// sessions close against the day they started).
	target, err := a.attendanceRepo.GetByUserAndDate(ctx, identity.UserID, today)
	if err != nil {
		return attendance.Response{}, err
	}
	if target == nil || target.LoginTime == nil {
		target, err = a.attendanceRepo.GetOpenByUser(ctx, identity.UserID)
		if err != nil {
			return attendance.Response{}, err
		}
		if target == nil {
			return attendance.Response{}, attendance.ErrNotLoggedInToday
		}
	}

	var finalized attendance.Attendance
	var closedBreak bool
	err = a.tx.RunInTx(ctx, func(ctx context.Context) error {
		att, err := a.attendanceRepo.LockByUserAndDate(ctx, identity.UserID, target.Date)
		if err != nil {
			return err
		}
		if att == nil || att.LoginTime == nil {
			return attendance.ErrNotLoggedInToday
		}

		// A logout while on break implicitly ends the break
		closed, err := a.breakRepo.CloseActiveByUser(ctx, identity.UserID, nowLocal)
		if err != nil {
			return err
		}
		closedBreak = closed != nil

		daysBreaks, err := a.breakRepo.ListByAttendance(ctx, att.ID)
		if err != nil {
			return err
		}
		breakMinutes := breaks.AggregateMinutes(daysBreaks)

		// Storage hands timestamps back in the database session zone, so the
		// login must be moved into the business timezone before punctuality is
		// classified against the shift clock.
		loginLocal := att.LoginTime.In(a.loc)

		derived := attendance.Derive(loginLocal, nowLocal, breakMinutes)
		if derived.Clamped {
			slog.Warn("break time exceeded login window, clamping effective minutes to zero",
				"user_id", identity.UserID,
				"attendance_id", att.ID,
				"raw_login_minutes", derived.RawLoginMinutes,
				"break_minutes", derived.BreakMinutes,
			)
		}

		att.LoginTime = &loginLocal
		att.LogoutTime = &nowLocal
		att.Status = derived.Status
		att.Punctuality = &derived.Punctuality
		att.TotalLoginHours, att.TotalLoginMins = attendance.SplitMinutes(derived.EffectiveMinutes)
		att.TotalBreakHours, att.TotalBreakMins = attendance.SplitMinutes(derived.BreakMinutes)

		if err := a.attendanceRepo.Finalize(ctx, *att); err != nil {
			return err
		}

		finalized = *att
		return nil
	})
	if err != nil {
		return attendance.Response{}, err
	}

	if closedBreak {
		a.notifier.BreakEnded(identity.UserID)
	}

	return toResponse(finalized), nil
}

// List implements attendance.Service.
func (a *AttendanceServiceImpl) List(ctx context.Context, filter attendance.Filter) (attendance.ListResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return attendance.ListResponse{}, err
	}

	if err := filter.Validate(); err != nil {
		return attendance.ListResponse{}, err
	}

	// Role scoping: administrators see everyone, team leaders their agents
	// plus themselves, agents only themselves.
	switch identity.Role {
	case user.RoleAdministrator:
		filter.UserIDs = nil
	case user.RoleTeamLeader:
		agentIDs, err := a.directory.ListAgentIDsByLeader(ctx, identity.UserID)
		if err != nil {
			return attendance.ListResponse{}, err
		}
		filter.UserIDs = append(agentIDs, identity.UserID)
	default:
		filter.UserIDs = []string{identity.UserID}
	}

	records, total, err := a.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListResponse{}, err
	}

	responses := make([]attendance.Response, 0, len(records))
	for _, att := range records {
		responses = append(responses, toResponse(att))
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return attendance.ListResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Attendances: responses,
	}, nil
}

// UpdateRegulationReason implements attendance.Service.
func (a *AttendanceServiceImpl) UpdateRegulationReason(ctx context.Context, req attendance.RegulationRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	return a.attendanceRepo.UpdateRegulationReason(ctx, req.ID, req.Reason)
}
