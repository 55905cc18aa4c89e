package jwt

import (
	"context"
	"errors"

	"github.com/go-chi/jwtauth/v5"
	"github.com/initcore/callcenter-backend-go/internal/domain/user"
)

var ErrMissingIdentity = errors.New("identity claims missing from token")

// Identity is the claim set the core reads from a verified token.
type Identity struct {
	UserID   string
	FullName string
	Role     user.Role
}

// IdentityFromContext extracts the caller's identity from the verified token
// placed on the context by the jwtauth middleware.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Identity{}, ErrMissingIdentity
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Identity{}, ErrMissingIdentity
	}

	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return Identity{}, ErrMissingIdentity
	}

	fullName, _ := claims["full_name"].(string)

	return Identity{
		UserID:   userID,
		FullName: fullName,
		Role:     user.Role(role),
	}, nil
}
