package validate_test

import (
	"strings"
	"testing"
	"time"

	"AccountAPI/internal/dto"
	"AccountAPI/internal/validate"

	"github.com/stretchr/testify/require"
)

var birth = dto.NewDate(time.Date(1990, time.May, 20, 0, 0, 0, 0, time.UTC))

func fields(t *testing.T, err error) []string {
	t.Helper()
	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	out := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		out = append(out, f.Field)
	}
	return out
}

func TestCreateRules(t *testing.T) {
	e := validate.New()

	valid := dto.CreateUserRequest{
		Name:      "Alice Example",
		Email:     "alice@example.com",
		Password:  "s3cret",
		BirthDate: birth,
	}
	require.NoError(t, e.Create(valid))

	tests := []struct {
		name   string
		mutate func(*dto.CreateUserRequest)
		field  string
	}{
		{"empty name", func(r *dto.CreateUserRequest) { r.Name = "" }, "name"},
		{"name too short", func(r *dto.CreateUserRequest) { r.Name = "ab" }, "name"},
		{"name too long", func(r *dto.CreateUserRequest) { r.Name = strings.Repeat("a", 101) }, "name"},
		{"malformed email", func(r *dto.CreateUserRequest) { r.Email = "not-an-email" }, "email"},
		{"empty email", func(r *dto.CreateUserRequest) { r.Email = "" }, "email"},
		{"empty password", func(r *dto.CreateUserRequest) { r.Password = "" }, "password"},
		{"missing birth date", func(r *dto.CreateUserRequest) { r.BirthDate = dto.Date{} }, "birth_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			require.Equal(t, []string{tt.field}, fields(t, e.Create(req)))
		})
	}
}

func TestCreateReportsAllViolations(t *testing.T) {
	e := validate.New()
	err := e.Create(dto.CreateUserRequest{Name: "x", Email: "nope", Password: ""})
	require.Equal(t, []string{"name", "email", "password", "birth_date"}, fields(t, err))
}

func TestUpdateRules(t *testing.T) {
	e := validate.New()

	valid := dto.UpdateUserRequest{
		Name:      "Alice Example",
		Email:     "alice@example.com",
		BirthDate: birth,
		Active:    true,
	}
	require.NoError(t, e.Update(valid))

	// Boundary lengths are inclusive.
	edge := valid
	edge.Name = "abc"
	require.NoError(t, e.Update(edge))
	edge.Name = strings.Repeat("a", 100)
	require.NoError(t, e.Update(edge))

	bad := valid
	bad.Name = "ab"
	bad.Email = "still not an email"
	bad.BirthDate = dto.Date{}
	require.Equal(t, []string{"name", "email", "birth_date"}, fields(t, e.Update(bad)))
}

func TestErrorMessage(t *testing.T) {
	e := validate.New()
	err := e.Create(dto.CreateUserRequest{Name: "ab", Email: "a@b.co", Password: "x", BirthDate: birth})
	require.EqualError(t, err, "validation failed: name: must be at least 3 characters")
}
