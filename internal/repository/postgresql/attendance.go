package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/initcore/callcenter-backend-go/internal/domain/attendance"
	"github.com/initcore/callcenter-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `
	a.id, a.user_id, a.date, a.day, a.login_time, a.logout_time,
	a.status, a.punctuality, a.regulation_reason,
	a.total_login_hours, a.total_login_mins, a.total_break_hours, a.total_break_mins,
	a.created_at, a.updated_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.UserID, &att.Date, &att.Day, &att.LoginTime, &att.LogoutTime,
		&att.Status, &att.Punctuality, &att.RegulationReason,
		&att.TotalLoginHours, &att.TotalLoginMins, &att.TotalBreakHours, &att.TotalBreakMins,
		&att.CreatedAt, &att.UpdatedAt,
	)
	return att, err
}

// UpsertLogin implements attendance.Repository.
func (a *attendanceRepository) UpsertLogin(ctx context.Context, userID string, date time.Time, loginTime time.Time, day string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	// COALESCE keeps the stored login_time once set: the first login of the
	// day wins, later logins are no-ops.
	query := `
		INSERT INTO attendances (user_id, date, day, login_time, status)
		VALUES ($1, $2, $3, $4, 'Absent')
		ON CONFLICT (user_id, date) DO UPDATE
			SET login_time = COALESCE(attendances.login_time, EXCLUDED.login_time),
			    updated_at = NOW()
		RETURNING id, user_id, date, day, login_time, logout_time,
			status, punctuality, regulation_reason,
			total_login_hours, total_login_mins, total_break_hours, total_break_mins,
			created_at, updated_at
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, date, day, loginTime))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert login: %w", err)
	}

	return att, nil
}

// GetByID implements attendance.Repository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `,
			u.full_name AS user_name,
			u.role AS user_role
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a.id = $1
	`

	var att attendance.Attendance
	err := q.QueryRow(ctx, query, id).Scan(
		&att.ID, &att.UserID, &att.Date, &att.Day, &att.LoginTime, &att.LogoutTime,
		&att.Status, &att.Punctuality, &att.RegulationReason,
		&att.TotalLoginHours, &att.TotalLoginMins, &att.TotalBreakHours, &att.TotalBreakMins,
		&att.CreatedAt, &att.UpdatedAt,
		&att.UserName, &att.UserRole,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return att, nil
}

// GetByUserAndDate implements attendance.Repository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	return a.getByUserAndDate(ctx, userID, date, false)
}

// LockByUserAndDate implements attendance.Repository.
func (a *attendanceRepository) LockByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	return a.getByUserAndDate(ctx, userID, date, true)
}

func (a *attendanceRepository) getByUserAndDate(ctx context.Context, userID string, date time.Time, forUpdate bool) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.user_id = $1 AND a.date = $2
		LIMIT 1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No attendance for that day
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}

	return &att, nil
}

// GetOpenByUser implements attendance.Repository.
func (a *attendanceRepository) GetOpenByUser(ctx context.Context, userID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.user_id = $1
		  AND a.login_time IS NOT NULL
		  AND a.logout_time IS NULL
		ORDER BY a.date DESC
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open attendance: %w", err)
	}

	return &att, nil
}

// Finalize implements attendance.Repository.
func (a *attendanceRepository) Finalize(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET logout_time = $2,
		    status = $3,
		    punctuality = $4,
		    total_login_hours = $5,
		    total_login_mins = $6,
		    total_break_hours = $7,
		    total_break_mins = $8,
		    updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		att.ID,
		att.LogoutTime,
		att.Status,
		att.Punctuality,
		att.TotalLoginHours,
		att.TotalLoginMins,
		att.TotalBreakHours,
		att.TotalBreakMins,
	)
	if err != nil {
		return fmt.Errorf("failed to finalize attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// UpdateRegulationReason implements attendance.Repository.
func (a *attendanceRepository) UpdateRegulationReason(ctx context.Context, id string, reason string) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET regulation_reason = $2, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, reason)
	if err != nil {
		return fmt.Errorf("failed to update regulation reason: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// List implements attendance.Repository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserIDs != nil {
		baseWhere += fmt.Sprintf(" AND a.user_id = ANY($%d)", argIdx)
		args = append(args, filter.UserIDs)
		argIdx++
	}

	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	// Count total
	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	// Build ORDER BY
	orderByField := "a.date"
	switch filter.SortBy {
	case "login_time":
		orderByField = "a.login_time"
	case "logout_time":
		orderByField = "a.logout_time"
	case "status":
		orderByField = "a.status"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`
		SELECT `+attendanceColumns+`,
			u.full_name AS user_name,
			u.role AS user_role
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var results []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		err := rows.Scan(
			&att.ID, &att.UserID, &att.Date, &att.Day, &att.LoginTime, &att.LogoutTime,
			&att.Status, &att.Punctuality, &att.RegulationReason,
			&att.TotalLoginHours, &att.TotalLoginMins, &att.TotalBreakHours, &att.TotalBreakMins,
			&att.CreatedAt, &att.UpdatedAt,
			&att.UserName, &att.UserRole,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		results = append(results, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return results, total, nil
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}
