package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"AccountAPI/internal/cache"
	dom "AccountAPI/internal/domain"
	"AccountAPI/internal/dto"
	"AccountAPI/internal/repo"
	"AccountAPI/internal/utils"
	"AccountAPI/internal/validate"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
)

const minAge = 18

var (
	ErrNotFound        = errors.New("user not found")
	ErrEmailRegistered = errors.New("email already registered")
	ErrEmailInUse      = errors.New("email in use by another user")
	ErrUnderage        = errors.New("user must be at least 18 years old")
)

// UserService orchestrates validation, business rules and persistence for
// user accounts. It holds no per-request state and is safe for concurrent
// use; the clock is injected so tests can pin "now".
type UserService struct {
	repo     repo.UserRepo
	rules    *validate.Engine
	cache    *cache.UserCache
	now      func() time.Time
	listOnce singleflight.Group
}

// NewUserService creates a UserService. If c is nil, list caching is
// disabled. If now is nil, time.Now is used.
func NewUserService(r repo.UserRepo, rules *validate.Engine, c *cache.UserCache, now func() time.Time) *UserService {
	if now == nil {
		now = time.Now
	}
	return &UserService{repo: r, rules: rules, cache: c, now: now}
}

// List returns every user, soft-deleted ones included, in store order.
// Whether callers should filter on Active is left to them.
func (s *UserService) List(ctx context.Context) ([]dto.UserResponse, error) {
	if s.cache != nil {
		v, err, _ := s.listOnce.Do("list", func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx); err == nil && list != nil {
				return list, nil
			}
			users, err := s.repo.GetAll(ctx)
			if err != nil {
				return nil, err
			}
			list := usersToResponses(users)
			_ = s.cache.SetList(ctx, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dto.UserResponse), nil
	}
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return usersToResponses(users), nil
}

// GetByID returns the user and true, or false when no such id exists.
// Absence is an expected outcome here, not an error.
func (s *UserService) GetByID(ctx context.Context, id int64) (dto.UserResponse, bool, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dto.UserResponse{}, false, nil
		}
		return dto.UserResponse{}, false, err
	}
	return userToResponse(u), true, nil
}

// Create validates the request, enforces email uniqueness and the minimum
// age, then persists a new active user. The password is stored only as a
// bcrypt hash. No persistence call happens on a failed check.
func (s *UserService) Create(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error) {
	if err := s.rules.Create(req); err != nil {
		return dto.UserResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if taken {
		return dto.UserResponse{}, ErrEmailRegistered
	}

	if ageAt(req.BirthDate.Time(), s.now()) < minAge {
		return dto.UserResponse{}, ErrUnderage
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, err
	}

	u, err := s.repo.Create(ctx, dom.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		BirthDate:    req.BirthDate.Time(),
		Phone:        req.Phone,
		Active:       true,
		CreatedAt:    s.now(),
	})
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dto.UserResponse{}, ErrEmailRegistered
		}
		return dto.UserResponse{}, err
	}
	s.invalidateCache(ctx)
	return userToResponse(u), nil
}

// Update overwrites name, email, birth date, phone and active on an existing
// user. The stored password hash is never touched. Changing the email to one
// owned by a different user fails with ErrEmailInUse.
func (s *UserService) Update(ctx context.Context, id int64, req dto.UpdateUserRequest) (dto.UserResponse, error) {
	if err := s.rules.Update(req); err != nil {
		return dto.UserResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dto.UserResponse{}, ErrNotFound
		}
		return dto.UserResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != existing.Email {
		taken, err := s.repo.EmailExists(ctx, email)
		if err != nil {
			return dto.UserResponse{}, err
		}
		if taken {
			return dto.UserResponse{}, ErrEmailInUse
		}
	}

	u, err := s.repo.Update(ctx, id, dom.User{
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		BirthDate: req.BirthDate.Time(),
		Phone:     req.Phone,
		Active:    req.Active,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dto.UserResponse{}, ErrNotFound
		}
		if utils.IsPGUniqueViolation(err) {
			return dto.UserResponse{}, ErrEmailInUse
		}
		return dto.UserResponse{}, err
	}
	s.invalidateCache(ctx)
	return userToResponse(u), nil
}

// Delete soft-deletes the user: active=false, updated_at stamped. Returns
// false when the id does not exist, so callers can tell "nothing to delete"
// from failure. Deleting an already-inactive user returns true and
// re-stamps updated_at.
func (s *UserService) Delete(ctx context.Context, id int64) (bool, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if _, err := s.repo.SoftDelete(ctx, id, s.now()); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	s.invalidateCache(ctx)
	return true, nil
}

// ageAt returns whole years elapsed from birth to now: calendar-year
// subtraction, minus one if the birthday has not yet occurred this year.
func ageAt(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	anniversary := birth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}

func (s *UserService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx)
	}
}

func userToResponse(u dom.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		BirthDate: dto.NewDate(u.BirthDate),
		Phone:     u.Phone,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

func usersToResponses(users []dom.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userToResponse(u))
	}
	return out
}
