package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"frieren/internal/domain"
)

type AdminRepo struct{ DB *sqlx.DB }

func NewAdminRepo(db *sqlx.DB) *AdminRepo { return &AdminRepo{DB: db} }

type adminRow struct {
	ID        string         `db:"id"`
	Username  string         `db:"username"`
	Hash      string         `db:"password_hash"`
	Role      string         `db:"role"`
	LastLogin sql.NullString `db:"last_login"`
	CreatedAt string         `db:"created_at"`
}

func (r adminRow) toDomain() *domain.Admin {
	a := &domain.Admin{
		ID:        r.ID,
		Username:  r.Username,
		Hash:      r.Hash,
		Role:      r.Role,
		CreatedAt: parseTS(r.CreatedAt),
	}
	if r.LastLogin.Valid {
		t := parseTS(r.LastLogin.String)
		a.LastLogin = &t
	}
	return a
}

func (r *AdminRepo) ByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	var row adminRow
	err := r.DB.GetContext(ctx, &row,
		`SELECT id,username,password_hash,role,last_login,created_at FROM admins WHERE LOWER(username)=LOWER(?)`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.Persistence("admin by username", err)
	}
	return row.toDomain(), nil
}

func (r *AdminRepo) Create(ctx context.Context, a *domain.Admin) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO admins(id,username,password_hash,role,created_at) VALUES(?,?,?,?,?)`,
		a.ID, strings.ToLower(a.Username), a.Hash, a.Role, formatTS(a.CreatedAt))
	if err != nil && strings.Contains(err.Error(), "UNIQUE") {
		return domain.ErrDuplicate
	}
	return domain.Persistence("create admin", err)
}

// TouchLogin records a successful sign-in.
func (r *AdminRepo) TouchLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE admins SET last_login=? WHERE id=?`, formatTS(at), id)
	return domain.Persistence("touch login", err)
}
