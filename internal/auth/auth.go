// Package auth derives and verifies request tokens. Regular callers are
// authenticated with a digest over their identity fields; the admin
// identity is authenticated with a digest over the current hour, so an
// admin token is valid only within the hour it was minted for.
package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"time"
)

// hourLayout is the time resolution of the admin digest.
const hourLayout = "2006010215"

// Identity is the minimal caller view the authenticator needs.
type Identity interface {
	Account() string
	Login() string
	Token() string
	IsAdmin() bool
}

// Authenticator verifies supplied tokens against expected digests.
type Authenticator struct {
	salt      string
	adminSalt string
	now       func() time.Time
}

// Option applies a configuration option to the Authenticator.
type Option func(*Authenticator)

// WithClock replaces the wall clock used for admin digests.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an Authenticator with the given shared and admin secrets.
func New(salt, adminSalt string, opts ...Option) *Authenticator {
	a := &Authenticator{
		salt:      salt,
		adminSalt: adminSalt,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Check reports whether the identity's token matches the expected digest.
// The comparison is constant-time; a failure discloses nothing about which
// part mismatched.
func (a *Authenticator) Check(id Identity) bool {
	var expected string
	if id.IsAdmin() {
		expected = a.AdminDigest(a.now())
	} else {
		expected = a.UserDigest(id.Account(), id.Login())
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(id.Token())) == 1
}

// UserDigest derives the expected token for a regular caller.
func (a *Authenticator) UserDigest(account, login string) string {
	return digest(account + login + a.salt)
}

// AdminDigest derives the expected admin token for the hour containing t.
func (a *Authenticator) AdminDigest(t time.Time) string {
	return digest(t.Format(hourLayout) + a.adminSalt)
}

func digest(material string) string {
	sum := sha512.Sum512([]byte(material))
	return hex.EncodeToString(sum[:])
}
