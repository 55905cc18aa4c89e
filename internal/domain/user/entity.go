package user

import "time"

type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleTeamLeader    Role = "Team Leader"
	RoleAgent         Role = "Agent"
)

// IsSupervisory reports whether the role may watch other users' break state.
func (r Role) IsSupervisory() bool {
	return r == RoleAdministrator || r == RoleTeamLeader
}

type Status string

const (
	StatusActive         Status = "Active"
	StatusInactive       Status = "Inactive"
	StatusOnResignPeriod Status = "On Resign Period"
	StatusAbsconded      Status = "Absconded"
)

type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	Role         Role
	Status       Status
	PhoneNumber  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
