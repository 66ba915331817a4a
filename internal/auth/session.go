// Package auth issues and verifies the signed admin session token and hashes
// admin passwords.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"frieren/internal/domain"
)

const (
	CookieName = "frieren-admin-token"
	TokenTTL   = 24 * time.Hour
)

type claims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(secret string) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: TokenTTL, now: time.Now}
}

// WithClock returns a copy that reads time from now.
func (s *Sessions) WithClock(now func() time.Time) *Sessions {
	cp := *s
	cp.now = now
	return &cp
}

func (s *Sessions) TTL() time.Duration { return s.ttl }

// Issue signs a token for the actor and returns it with its expiry.
func (s *Sessions) Issue(a domain.Actor) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	c := claims{
		ID:       a.ID,
		Username: a.Username,
		Role:     a.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	return tok, exp, err
}

// Verify returns the actor for a valid, unexpired token. Any failure is
// reported as domain.ErrUnauthorized.
func (s *Sessions) Verify(token string) (*domain.Actor, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	var c claims
	key := func(*jwt.Token) (any, error) { return s.secret, nil }
	parsed, err := jwt.ParseWithClaims(token, &c, key,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || c.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	return &domain.Actor{ID: c.ID, Username: c.Username, Role: c.Role}, nil
}

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword compares hash with plain. An empty hash still pays the bcrypt
// cost so unknown usernames take as long as wrong passwords.
func CheckPassword(hash, plain string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("frieren-dummy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(errors.Join(errors.New("auth: dummy hash"), err))
	}
	return h
}()
