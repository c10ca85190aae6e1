package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Date parses birth_date from JSON as either date-only ("2006-01-02") or
// RFC3339. Date-only is stored as start of that day in UTC.
type Date struct{ t time.Time }

// NewDate wraps t, useful in tests and mapping code.
func NewDate(t time.Time) Date { return Date{t: t} }

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = time.Time{}
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02", // date only
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			if layout == "2006-01-02" {
				parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			}
			d.t = parsed
			return nil
		}
	}
	return fmt.Errorf("birth_date: use date (YYYY-MM-DD) or RFC3339 datetime")
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.t.Format("2006-01-02"))
}

// Time returns the wrapped time.Time for use in service/domain.
func (d Date) Time() time.Time { return d.t }

// IsZero reports whether no date was supplied.
func (d Date) IsZero() bool { return d.t.IsZero() }

// CreateUserRequest is the JSON body for POST /users.
// Validation runs in the service via internal/validate, not in binding.
type CreateUserRequest struct {
	Name      string  `json:"name" validate:"required,min=3,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required"`
	BirthDate Date    `json:"birth_date" validate:"required"`
	Phone     *string `json:"phone"`
}

// UpdateUserRequest is the JSON body for PUT /users/:id.
// There is no password field: updates never touch the stored hash.
type UpdateUserRequest struct {
	Name      string  `json:"name" validate:"required,min=3,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	BirthDate Date    `json:"birth_date" validate:"required"`
	Phone     *string `json:"phone"`
	Active    bool    `json:"active"`
}

// UserResponse is the outward projection of a user. It never carries the
// password hash.
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	BirthDate Date      `json:"birth_date"`
	Phone     *string   `json:"phone"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type ListUsersResponse struct {
	Items []UserResponse `json:"items"`
}
