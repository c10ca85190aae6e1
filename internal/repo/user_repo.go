package repo

import (
	"context"
	"time"

	dom "AccountAPI/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

const userCols = `id, name, email, password_hash, birth_date, phone, active, created_at, updated_at`

// UserRepo provides user persistence. GetByID reports absence via
// pgx.ErrNoRows; callers translate it.
type UserRepo interface {
	Create(ctx context.Context, u dom.User) (dom.User, error)
	GetByID(ctx context.Context, id int64) (dom.User, error)
	GetAll(ctx context.Context) ([]dom.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id int64, patch dom.User) (dom.User, error)
	SoftDelete(ctx context.Context, id int64, at time.Time) (dom.User, error)
}

// PGUserRepo implements UserRepo with Postgres. Each statement is its own
// transaction; INSERT/UPDATE ... RETURNING makes write-and-read atomic.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// Create inserts a new user and returns it with the assigned id. The unique
// index on lower(email) surfaces duplicates as pgconn error 23505.
func (r *PGUserRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, birth_date, phone, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userCols
	var out dom.User
	err := r.db.QueryRow(ctx, query,
		u.Name, u.Email, u.PasswordHash, u.BirthDate, u.Phone, u.Active, u.CreatedAt,
	).Scan(
		&out.ID, &out.Name, &out.Email, &out.PasswordHash, &out.BirthDate,
		&out.Phone, &out.Active, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

// GetByID returns the user by id, active or not.
func (r *PGUserRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id,
	).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.BirthDate,
		&u.Phone, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// GetAll returns every user, soft-deleted ones included.
func (r *PGUserRepo) GetAll(ctx context.Context) ([]dom.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userCols+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.User
	for rows.Next() {
		var u dom.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.BirthDate,
			&u.Phone, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// EmailExists reports whether any row, active or not, owns the email.
// The argument must already be lowercased.
func (r *PGUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email,
	).Scan(&exists)
	return exists, err
}

// Update overwrites the mutable columns and stamps updated_at. The password
// hash column is not touched.
func (r *PGUserRepo) Update(ctx context.Context, id int64, patch dom.User) (dom.User, error) {
	query := `
		UPDATE users
		SET name = $2, email = $3, birth_date = $4, phone = $5, active = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userCols
	var u dom.User
	err := r.db.QueryRow(ctx, query,
		id, patch.Name, patch.Email, patch.BirthDate, patch.Phone, patch.Active,
	).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.BirthDate,
		&u.Phone, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// SoftDelete marks the user inactive and stamps updated_at. Running it on an
// already-inactive row re-stamps updated_at.
func (r *PGUserRepo) SoftDelete(ctx context.Context, id int64, at time.Time) (dom.User, error) {
	query := `
		UPDATE users SET active = FALSE, updated_at = $2
		WHERE id = $1
		RETURNING ` + userCols
	var u dom.User
	err := r.db.QueryRow(ctx, query, id, at).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.BirthDate,
		&u.Phone, &u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}
