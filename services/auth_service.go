package services

import (
	"github.com/apex/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/wildsighthq/wildsight/config"
	apiError "github.com/wildsighthq/wildsight/errors"
	"github.com/wildsighthq/wildsight/services/jwt"
)

// AuthGate is the opaque credential gate in front of admin operations.
type AuthGate interface {
	Login(username, password string) (string, *apiError.Error)
	// VerifyCredential returns the identity bound to a valid token.
	VerifyCredential(token string) (string, *apiError.Error)
}

type authGate struct {
	jwtSecret string
	adminUser string
	adminHash []byte
}

// NewAuthGate hashes the configured admin password once at construction.
// The gate holds no mutable state after this point.
func NewAuthGate(conf *config.Config) (AuthGate, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(conf.AdminPass), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &authGate{
		jwtSecret: conf.JWTSecret,
		adminUser: conf.AdminUser,
		adminHash: hash,
	}, nil
}

func (g *authGate) Login(username, password string) (string, *apiError.Error) {
	if username != g.adminUser {
		return "", apiError.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(g.adminHash, []byte(password)); err != nil {
		return "", apiError.ErrUnauthorized
	}
	token, err := jwt.GenerateAdminToken(username, g.jwtSecret)
	if err != nil {
		log.Errorf("token generation failed: %v", err)
		return "", apiError.ErrInternalServerError
	}
	return token, nil
}

func (g *authGate) VerifyCredential(token string) (string, *apiError.Error) {
	claims, err := jwt.ValidateAndGetClaims(token, g.jwtSecret)
	if err != nil {
		return "", apiError.ErrUnauthorized
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", apiError.ErrUnauthorized
	}
	return sub, nil
}
