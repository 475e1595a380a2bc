package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields of the backend's access token that are useful to show.
type Claims struct {
	Subject   string
	Role      string
	UserID    int64
	ExpiresAt time.Time
}

// Expired reports whether the token expiry has passed at now. Tokens without
// an expiry never expire.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseClaims decodes the token payload without verifying the signature. The
// signing key lives on the server; this is for display only.
func ParseClaims(token string) (Claims, error) {
	if token == "" {
		return Claims{}, errors.New("session: empty token")
	}
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, err
	}

	var c Claims
	c.Subject, _ = mc.GetSubject()
	if role, ok := mc["role"].(string); ok {
		c.Role = role
	}
	if id, ok := mc["user_id"].(float64); ok {
		c.UserID = int64(id)
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
