package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/initcore/callcenter-backend-go/internal/domain/user"
	"github.com/initcore/callcenter-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

type userRepository struct {
	db *database.DB
}

// GetByID implements user.Repository.
func (u *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, u.db)

	query := `
		SELECT id, full_name, email, password_hash, role, status, phone_number, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var usr user.User
	err := q.QueryRow(ctx, query, id).Scan(
		&usr.ID, &usr.FullName, &usr.Email, &usr.PasswordHash,
		&usr.Role, &usr.Status, &usr.PhoneNumber, &usr.CreatedAt, &usr.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return usr, nil
}

// ResolveSupervisor implements user.Directory.
func (u *userRepository) ResolveSupervisor(ctx context.Context, userID string) (*string, error) {
	q := GetQuerier(ctx, u.db)

	// Agents belong to teams through team_members; the supervisor is the
	// leader of the first team joined. Leaders and administrators resolve
	// to no supervisor.
	query := `
		SELECT t.leader_id
		FROM team_members tm
		JOIN teams t ON t.id = tm.team_id
		WHERE tm.user_id = $1
		ORDER BY tm.created_at
		LIMIT 1
	`

	var leaderID string
	err := q.QueryRow(ctx, query, userID).Scan(&leaderID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve supervisor: %w", err)
	}

	return &leaderID, nil
}

// ListAgentIDsByLeader implements user.Directory.
func (u *userRepository) ListAgentIDsByLeader(ctx context.Context, leaderID string) ([]string, error) {
	q := GetQuerier(ctx, u.db)

	query := `
		SELECT tm.user_id
		FROM team_members tm
		JOIN teams t ON t.id = tm.team_id
		WHERE t.leader_id = $1
	`

	rows, err := q.Query(ctx, query, leaderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents by leader: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan agent id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate agent ids: %w", err)
	}

	return ids, nil
}

// Create implements user.Repository.
func (u *userRepository) Create(ctx context.Context, usr user.User, password string) (user.User, error) {
	q := GetQuerier(ctx, u.db)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `
		INSERT INTO users (full_name, email, password_hash, role, status, phone_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		usr.FullName,
		usr.Email,
		string(hash),
		usr.Role,
		usr.Status,
		usr.PhoneNumber,
	).Scan(&usr.ID, &usr.CreatedAt, &usr.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	usr.PasswordHash = string(hash)
	return usr, nil
}

func NewUserRepository(db *database.DB) user.Repository {
	return &userRepository{db: db}
}
