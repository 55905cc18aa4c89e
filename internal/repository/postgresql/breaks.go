package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/initcore/callcenter-backend-go/internal/domain/breaks"
	"github.com/initcore/callcenter-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type breakRepository struct {
	db *database.DB
}

const uniqueViolation = "23505"

// Create implements breaks.Repository.
func (b *breakRepository) Create(ctx context.Context, br breaks.Break) (breaks.Break, error) {
	q := GetQuerier(ctx, b.db)

	query := `
		INSERT INTO breaks (user_id, attendance_id, break_type_id, start_time, active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		br.UserID,
		br.AttendanceID,
		br.BreakTypeID,
		br.StartTime,
	).Scan(&br.ID, &br.CreatedAt)
	if err != nil {
		// The partial unique index on (user_id) WHERE active turns a racing
		// second start into a constraint violation instead of a double break.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return breaks.Break{}, breaks.ErrAlreadyOnBreak
		}
		return breaks.Break{}, fmt.Errorf("failed to create break: %w", err)
	}

	br.Active = true
	return br, nil
}

// GetActiveByUser implements breaks.Repository.
func (b *breakRepository) GetActiveByUser(ctx context.Context, userID string) (*breaks.Break, error) {
	q := GetQuerier(ctx, b.db)

	query := `
		SELECT b.id, b.user_id, b.attendance_id, b.break_type_id, b.start_time, b.end_time, b.active, b.created_at,
			bt.name AS break_type_name
		FROM breaks b
		JOIN break_types bt ON bt.id = b.break_type_id
		WHERE b.user_id = $1 AND b.active
		LIMIT 1
	`

	var br breaks.Break
	err := q.QueryRow(ctx, query, userID).Scan(
		&br.ID, &br.UserID, &br.AttendanceID, &br.BreakTypeID, &br.StartTime, &br.EndTime, &br.Active, &br.CreatedAt,
		&br.BreakTypeName,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active break: %w", err)
	}

	return &br, nil
}

// CloseActiveByUser implements breaks.Repository.
func (b *breakRepository) CloseActiveByUser(ctx context.Context, userID string, endTime time.Time) (*breaks.Break, error) {
	q := GetQuerier(ctx, b.db)

	// Single-statement close: of two racing enders only one gets a row back,
	// the other sees no active break.
	query := `
		UPDATE breaks
		SET end_time = $2, active = FALSE
		WHERE user_id = $1 AND active
		RETURNING id, user_id, attendance_id, break_type_id, start_time, end_time, active, created_at
	`

	var br breaks.Break
	err := q.QueryRow(ctx, query, userID, endTime).Scan(
		&br.ID, &br.UserID, &br.AttendanceID, &br.BreakTypeID, &br.StartTime, &br.EndTime, &br.Active, &br.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to close active break: %w", err)
	}

	return &br, nil
}

// CloseByID implements breaks.Repository.
func (b *breakRepository) CloseByID(ctx context.Context, id string, endTime time.Time) (*breaks.Break, error) {
	q := GetQuerier(ctx, b.db)

	query := `
		UPDATE breaks
		SET end_time = $2, active = FALSE
		WHERE id = $1 AND active
		RETURNING id, user_id, attendance_id, break_type_id, start_time, end_time, active, created_at
	`

	var br breaks.Break
	err := q.QueryRow(ctx, query, id, endTime).Scan(
		&br.ID, &br.UserID, &br.AttendanceID, &br.BreakTypeID, &br.StartTime, &br.EndTime, &br.Active, &br.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to close break: %w", err)
	}

	return &br, nil
}

// ListByAttendance implements breaks.Repository.
func (b *breakRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]breaks.Break, error) {
	q := GetQuerier(ctx, b.db)

	query := `
		SELECT b.id, b.user_id, b.attendance_id, b.break_type_id, b.start_time, b.end_time, b.active, b.created_at,
			bt.name AS break_type_name
		FROM breaks b
		JOIN break_types bt ON bt.id = b.break_type_id
		WHERE b.attendance_id = $1
		ORDER BY b.start_time
	`

	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list breaks by attendance: %w", err)
	}
	defer rows.Close()

	return scanBreaks(rows, false)
}

// ListActive implements breaks.Repository.
func (b *breakRepository) ListActive(ctx context.Context, userIDs []string) ([]breaks.Break, error) {
	q := GetQuerier(ctx, b.db)

	query := `
		SELECT b.id, b.user_id, b.attendance_id, b.break_type_id, b.start_time, b.end_time, b.active, b.created_at,
			bt.name AS break_type_name,
			u.full_name AS user_name,
			u.role AS user_role
		FROM breaks b
		JOIN break_types bt ON bt.id = b.break_type_id
		JOIN users u ON u.id = b.user_id
		WHERE b.active
	`
	args := []interface{}{}
	if userIDs != nil {
		query += " AND b.user_id = ANY($1)"
		args = append(args, userIDs)
	}
	query += " ORDER BY b.start_time"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list active breaks: %w", err)
	}
	defer rows.Close()

	return scanBreaks(rows, true)
}

// ListStaleActive implements breaks.Repository.
func (b *breakRepository) ListStaleActive(ctx context.Context, cutoff time.Time) ([]breaks.Break, error) {
	q := GetQuerier(ctx, b.db)

	query := `
		SELECT b.id, b.user_id, b.attendance_id, b.break_type_id, b.start_time, b.end_time, b.active, b.created_at,
			bt.name AS break_type_name
		FROM breaks b
		JOIN break_types bt ON bt.id = b.break_type_id
		WHERE b.active AND b.start_time < $1
		ORDER BY b.start_time
	`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale breaks: %w", err)
	}
	defer rows.Close()

	return scanBreaks(rows, false)
}

func scanBreaks(rows pgx.Rows, withUser bool) ([]breaks.Break, error) {
	var results []breaks.Break
	for rows.Next() {
		var br breaks.Break
		dest := []interface{}{
			&br.ID, &br.UserID, &br.AttendanceID, &br.BreakTypeID, &br.StartTime, &br.EndTime, &br.Active, &br.CreatedAt,
			&br.BreakTypeName,
		}
		if withUser {
			dest = append(dest, &br.UserName, &br.UserRole)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan break: %w", err)
		}
		results = append(results, br)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate breaks: %w", err)
	}
	return results, nil
}

func NewBreakRepository(db *database.DB) breaks.Repository {
	return &breakRepository{db: db}
}

type breakTypeRepository struct {
	db *database.DB
}

// List implements breaks.TypeRepository.
func (b *breakTypeRepository) List(ctx context.Context) ([]breaks.BreakType, error) {
	q := GetQuerier(ctx, b.db)

	rows, err := q.Query(ctx, `SELECT id, name FROM break_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list break types: %w", err)
	}
	defer rows.Close()

	var results []breaks.BreakType
	for rows.Next() {
		var bt breaks.BreakType
		if err := rows.Scan(&bt.ID, &bt.Name); err != nil {
			return nil, fmt.Errorf("failed to scan break type: %w", err)
		}
		results = append(results, bt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate break types: %w", err)
	}

	return results, nil
}

// GetByID implements breaks.TypeRepository.
func (b *breakTypeRepository) GetByID(ctx context.Context, id string) (breaks.BreakType, error) {
	q := GetQuerier(ctx, b.db)

	var bt breaks.BreakType
	err := q.QueryRow(ctx, `SELECT id, name FROM break_types WHERE id = $1`, id).Scan(&bt.ID, &bt.Name)
	if err != nil {
		if err == pgx.ErrNoRows {
			return breaks.BreakType{}, breaks.ErrBreakTypeNotFound
		}
		return breaks.BreakType{}, fmt.Errorf("failed to get break type: %w", err)
	}

	return bt, nil
}

// Create implements breaks.TypeRepository.
func (b *breakTypeRepository) Create(ctx context.Context, name string) (breaks.BreakType, error) {
	q := GetQuerier(ctx, b.db)

	var bt breaks.BreakType
	err := q.QueryRow(ctx, `INSERT INTO break_types (name) VALUES ($1) RETURNING id, name`, name).Scan(&bt.ID, &bt.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return breaks.BreakType{}, breaks.ErrBreakTypeExists
		}
		return breaks.BreakType{}, fmt.Errorf("failed to create break type: %w", err)
	}

	return bt, nil
}

// Delete implements breaks.TypeRepository.
func (b *breakTypeRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, b.db)

	tag, err := q.Exec(ctx, `DELETE FROM break_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete break type: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return breaks.ErrBreakTypeNotFound
	}

	return nil
}

func NewBreakTypeRepository(db *database.DB) breaks.TypeRepository {
	return &breakTypeRepository{db: db}
}
