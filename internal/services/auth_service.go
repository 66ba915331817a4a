package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"frieren/internal/auth"
	"frieren/internal/domain"
	"frieren/internal/metrics"
	"frieren/internal/validate"
)

// ErrBadCreds never says whether the username or the password was wrong.
var ErrBadCreds = fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)

// AdminStore is implemented by repos.AdminRepo and repos.MongoAdminRepo.
type AdminStore interface {
	ByUsername(ctx context.Context, username string) (*domain.Admin, error)
	Create(ctx context.Context, a *domain.Admin) error
	TouchLogin(ctx context.Context, id string, at time.Time) error
}

type AuthService struct {
	Admins   AdminStore
	Sessions *auth.Sessions

	// BootstrapUser/BootstrapPass create the first super-admin on a matching
	// login when that username does not exist yet.
	BootstrapUser string
	BootstrapPass string

	Now func() time.Time
}

type Session struct {
	Admin   *domain.Admin
	Token   string
	Expires time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) Login(ctx context.Context, username, password string) (Session, error) {
	name, ok := validate.Username(username)
	if !ok || !validate.Password(password) {
		metrics.Logins.WithLabelValues("rejected").Inc()
		return Session{}, ErrBadCreds
	}

	a, err := s.Admins.ByUsername(ctx, name)
	if errors.Is(err, domain.ErrNotFound) && s.bootstrapMatches(name, password) {
		a, err = s.CreateAdmin(ctx, name, password, domain.RoleSuperAdmin)
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		auth.CheckPassword("", password)
		metrics.Logins.WithLabelValues("rejected").Inc()
		return Session{}, ErrBadCreds
	case err != nil:
		metrics.Logins.WithLabelValues("error").Inc()
		return Session{}, err
	}

	if !auth.CheckPassword(a.Hash, password) {
		metrics.Logins.WithLabelValues("rejected").Inc()
		return Session{}, ErrBadCreds
	}

	now := s.now().UTC()
	if err := s.Admins.TouchLogin(ctx, a.ID, now); err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		return Session{}, err
	}
	a.LastLogin = &now

	tok, exp, err := s.Sessions.Issue(domain.Actor{ID: a.ID, Username: a.Username, Role: a.Role})
	if err != nil {
		metrics.Logins.WithLabelValues("error").Inc()
		return Session{}, fmt.Errorf("issue session: %w", err)
	}
	metrics.Logins.WithLabelValues("ok").Inc()
	return Session{Admin: a, Token: tok, Expires: exp}, nil
}

func (s *AuthService) bootstrapMatches(name, password string) bool {
	if s.BootstrapUser == "" || s.BootstrapPass == "" {
		return false
	}
	boot, _ := validate.Username(s.BootstrapUser)
	return name == boot && subtle.ConstantTimeCompare([]byte(password), []byte(s.BootstrapPass)) == 1
}

// CurrentActor returns nil for a missing, invalid or expired token.
func (s *AuthService) CurrentActor(token string) *domain.Actor {
	a, err := s.Sessions.Verify(token)
	if err != nil {
		return nil
	}
	return a
}

func (s *AuthService) CreateAdmin(ctx context.Context, username, password, role string) (*domain.Admin, error) {
	bad := map[string]string{}
	name, ok := validate.Username(username)
	if !ok {
		bad["username"] = fmt.Sprintf("Username must be %d-%d characters", validate.UsernameMin, validate.UsernameMax)
	}
	if !validate.Password(password) {
		bad["password"] = fmt.Sprintf("Password must be %d-%d characters", validate.PasswordMin, validate.PasswordMax)
	}
	if role == "" {
		role = domain.RoleAdmin
	}
	if role != domain.RoleAdmin && role != domain.RoleSuperAdmin {
		bad["role"] = "Role must be admin or super-admin"
	}
	if len(bad) > 0 {
		return nil, &domain.ValidationError{Fields: bad}
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	a := &domain.Admin{
		ID:        uuid.NewString(),
		Username:  name,
		Hash:      hash,
		Role:      role,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.Admins.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}
