// Package session carries the authenticated caller's identity through the
// service layer. A Session is built once from the validated token and handed
// to every operation explicitly; services never read identity from request
// paths or bodies.
package session

import (
	"errors"
	"strings"
)

// ErrMissingIdentity is returned when a session has no identity token.
var ErrMissingIdentity = errors.New("session has no identity")

// Session is the caller of an operation. UID is the opaque identity token
// issued by the authentication provider (the JWT subject) and is the key of
// both user and worker accounts.
type Session struct {
	UID string
}

// New builds a Session for uid.
func New(uid string) (Session, error) {
	s := Session{UID: strings.TrimSpace(uid)}
	if err := s.Validate(); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Validate reports whether the session carries an identity.
func (s Session) Validate() error {
	if s.UID == "" {
		return ErrMissingIdentity
	}
	return nil
}

// Is reports whether the session belongs to the account uid.
func (s Session) Is(uid string) bool {
	return s.UID != "" && s.UID == uid
}
