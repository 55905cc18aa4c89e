package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/initcore/callcenter-backend-go/internal/domain/user"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies identity tokens issued by the session collaborator and
// exposes the claims the core reads: user_id, full_name, role. Login/refresh
// flows live outside this service.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	GenerateIdentityToken(userID string, fullName string, role user.Role, ttl time.Duration) (token string, err error)
}

type JWTService struct {
	secretKey string
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		secretKey: secretKey,
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// GenerateIdentityToken encodes an identity token with the claim set the
// middleware expects. Used by tooling and tests; production tokens come from
// the session collaborator with the same shape.
func (j *JWTService) GenerateIdentityToken(userID string, fullName string, role user.Role, ttl time.Duration) (string, error) {
	claims := map[string]interface{}{
		"user_id":   userID,
		"full_name": fullName,
		"role":      string(role),
		"type":      "access",
		"exp":       time.Now().Add(ttl).Unix(),
	}
	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, err
}
