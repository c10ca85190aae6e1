package repo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	dom "AccountAPI/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MemoryRepo is an in-memory UserRepo for tests and local runs. It mirrors
// the Postgres behavior the service depends on: pgx.ErrNoRows for absent
// ids, a 23505 pgconn error when the unique email index would fire, and
// context errors at every call.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]dom.User
}

// NewMemoryRepo returns an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1, users: make(map[int64]dom.User)}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_lower_key"}
}

func (r *MemoryRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	if err := ctx.Err(); err != nil {
		return dom.User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.users {
		if strings.EqualFold(other.Email, u.Email) {
			return dom.User{}, uniqueViolation()
		}
	}
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = u
	return u, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (dom.User, error) {
	if err := ctx.Err(); err != nil {
		return dom.User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *MemoryRepo) GetAll(ctx context.Context) ([]dom.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]dom.User, 0, len(r.users))
	for _, u := range r.users {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *MemoryRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id int64, patch dom.User) (dom.User, error) {
	if err := ctx.Err(); err != nil {
		return dom.User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	for _, other := range r.users {
		if other.ID != id && strings.EqualFold(other.Email, patch.Email) {
			return dom.User{}, uniqueViolation()
		}
	}
	now := time.Now().UTC()
	u.Name = patch.Name
	u.Email = patch.Email
	u.BirthDate = patch.BirthDate
	u.Phone = patch.Phone
	u.Active = patch.Active
	u.UpdatedAt = &now
	r.users[id] = u
	return u, nil
}

func (r *MemoryRepo) SoftDelete(ctx context.Context, id int64, at time.Time) (dom.User, error) {
	if err := ctx.Err(); err != nil {
		return dom.User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	u.Active = false
	u.UpdatedAt = &at
	r.users[id] = u
	return u, nil
}
