// Package session holds the client's view of the logged-in user, decoded
// from the access token. Components that gate affordances on identity (e.g.
// "can I edit this post") receive a Session explicitly instead of reading
// ambient globals.
package session

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid access token")

// Session identifies the current user for UI gating. The token signature is
// verified by the server on every request; the client only needs the claims.
type Session struct {
	UserID   string
	Nickname string
	Token    string
}

type claims struct {
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

// Parse decodes the user identity from a JWT access token without verifying
// the signature (the client has no key material; the server is the
// authority). An empty subject is rejected.
func Parse(accessToken string) (*Session, error) {
	var c claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, &c); err != nil {
		return nil, ErrInvalidToken
	}
	if c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &Session{UserID: c.Subject, Nickname: c.Nickname, Token: accessToken}, nil
}

// Owns reports whether the given resource owner is the session user.
func (s *Session) Owns(ownerUserID string) bool {
	return s != nil && ownerUserID != "" && s.UserID == ownerUserID
}
