package user

import "context"

// Directory is the identity/role lookup surface the attendance and presence
// services consume. Supervisor resolution returns nil for users that have no
// supervisor (team leaders and administrators).
type Directory interface {
	// GetByID retrieves a user by id
	GetByID(ctx context.Context, id string) (User, error)

	// ResolveSupervisor returns the id of the team leader supervising the
	// user, or nil when the user is not a supervised agent
	ResolveSupervisor(ctx context.Context, userID string) (*string, error)

	// ListAgentIDsByLeader returns the ids of every agent in the leader's teams
	ListAgentIDsByLeader(ctx context.Context, leaderID string) ([]string, error)
}

// Repository extends the directory with the writes the administrative
// screens (external to the core) persist through.
type Repository interface {
	Directory

	// Create stores a new user with a bcrypt password hash
	Create(ctx context.Context, u User, password string) (User, error)
}
