package service_test

import (
	"context"
	"testing"
	"time"

	"AccountAPI/internal/dto"
	"AccountAPI/internal/repo"
	"AccountAPI/internal/service"
	"AccountAPI/internal/validate"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testNow = time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)

// newService returns a service over a fresh in-memory repo with the clock
// pinned to testNow. The returned *time.Time can be moved to simulate later
// operations.
func newService(t *testing.T) (*service.UserService, *repo.MemoryRepo, *time.Time) {
	t.Helper()
	now := testNow
	r := repo.NewMemoryRepo()
	svc := service.NewUserService(r, validate.New(), nil, func() time.Time { return now })
	return svc, r, &now
}

func strptr(s string) *string { return &s }

func validCreate() dto.CreateUserRequest {
	return dto.CreateUserRequest{
		Name:      "Alice Example",
		Email:     "Alice@Example.COM",
		Password:  "s3cret",
		BirthDate: dto.NewDate(time.Date(1990, time.May, 20, 0, 0, 0, 0, time.UTC)),
		Phone:     strptr("+55 11 99999-0000"),
	}
}

func TestCreateHappyPath(t *testing.T) {
	svc, r, _ := newService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", resp.Email)
	require.Equal(t, "Alice Example", resp.Name)
	require.True(t, resp.Active)
	require.Equal(t, testNow, resp.CreatedAt)
	require.NotNil(t, resp.Phone)

	stored, err := r.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	require.Nil(t, stored.UpdatedAt)
	require.NotEqual(t, "s3cret", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret")))
}

func TestCreateUnderage(t *testing.T) {
	svc, r, _ := newService(t)
	ctx := context.Background()

	// One day short of 18: birthday is tomorrow relative to testNow.
	req := validCreate()
	req.BirthDate = dto.NewDate(time.Date(2008, time.September, 2, 0, 0, 0, 0, time.UTC))
	_, err := svc.Create(ctx, req)
	require.ErrorIs(t, err, service.ErrUnderage)

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all, "no record may be persisted on a failed age check")

	// Exactly 18 today is allowed.
	req.BirthDate = dto.NewDate(time.Date(2008, time.September, 1, 0, 0, 0, 0, time.UTC))
	_, err = svc.Create(ctx, req)
	require.NoError(t, err)
}

func TestCreateDuplicateEmailCaseInsensitive(t *testing.T) {
	svc, r, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	dup := validCreate()
	dup.Email = "ALICE@example.com"
	_, err = svc.Create(ctx, dup)
	require.ErrorIs(t, err, service.ErrEmailRegistered)

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestCreateValidationListsEveryField(t *testing.T) {
	svc, r, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateUserRequest{
		Name:     "ab",
		Email:    "not-an-email",
		Password: "",
	})
	var verr *validate.Error
	require.ErrorAs(t, err, &verr)

	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	require.Equal(t, []string{"name", "email", "password", "birth_date"}, fields)

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all, "validation failure must precede any persistence call")
}

func TestGetByIDAbsentIsNotAnError(t *testing.T) {
	svc, _, _ := newService(t)

	_, found, err := svc.GetByID(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, found)
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	got, found, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, created, got)
}

func TestUpdateNotFound(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Update(context.Background(), 99, dto.UpdateUserRequest{
		Name:      "Bob Example",
		Email:     "bob@example.com",
		BirthDate: dto.NewDate(time.Date(1985, time.January, 2, 0, 0, 0, 0, time.UTC)),
		Active:    true,
	})
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdateOverwritesEverythingButTheHash(t *testing.T) {
	svc, r, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)
	before, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)

	newBirth := time.Date(1991, time.June, 21, 0, 0, 0, 0, time.UTC)
	resp, err := svc.Update(ctx, created.ID, dto.UpdateUserRequest{
		Name:      "Alice Updated",
		Email:     "Alice.New@Example.com",
		BirthDate: dto.NewDate(newBirth),
		Phone:     strptr("+55 11 88888-0000"),
		Active:    false,
	})
	require.NoError(t, err)
	require.Equal(t, "Alice Updated", resp.Name)
	require.Equal(t, "alice.new@example.com", resp.Email)
	require.Equal(t, newBirth, resp.BirthDate.Time())
	require.False(t, resp.Active)
	require.Equal(t, created.CreatedAt, resp.CreatedAt, "creation timestamp is immutable")

	after, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, before.PasswordHash, after.PasswordHash, "updates never touch the stored hash")
	require.NotNil(t, after.UpdatedAt)
}

func TestUpdateEmailConflicts(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	second := validCreate()
	second.Email = "bob@example.com"
	second.Name = "Bob Example"
	bob, err := svc.Create(ctx, second)
	require.NoError(t, err)

	// Taking another user's email fails.
	_, err = svc.Update(ctx, bob.ID, dto.UpdateUserRequest{
		Name:      bob.Name,
		Email:     first.Email,
		BirthDate: bob.BirthDate,
		Active:    true,
	})
	require.ErrorIs(t, err, service.ErrEmailInUse)

	// Keeping the same email (any casing) does not trip the uniqueness check.
	_, err = svc.Update(ctx, bob.ID, dto.UpdateUserRequest{
		Name:      "Bob Renamed",
		Email:     "BOB@example.com",
		BirthDate: bob.BirthDate,
		Active:    true,
	})
	require.NoError(t, err)
}

func TestDeleteAbsentReturnsFalse(t *testing.T) {
	svc, _, _ := newService(t)

	deleted, err := svc.Delete(context.Background(), 7)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestDeleteSoftDeletesAndIsIdempotent(t *testing.T) {
	svc, r, now := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	stored, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, stored.Active)
	require.NotNil(t, stored.UpdatedAt)
	firstStamp := *stored.UpdatedAt

	// A second delete of the already-inactive record still reports true and
	// re-stamps updated_at. There is no distinct "already deleted" outcome.
	*now = testNow.Add(time.Hour)
	deleted, err = svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	stored, err = r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, stored.UpdatedAt.After(firstStamp))
}

func TestListIncludesSoftDeletedUsers(t *testing.T) {
	// Soft-deleted users stay in the listing; filtering on Active is the
	// caller's job. This mirrors the upstream behavior on purpose.
	svc, _, _ := newService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, validCreate())
	require.NoError(t, err)

	second := validCreate()
	second.Email = "bob@example.com"
	b, err := svc.Create(ctx, second)
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, a.ID, list[0].ID)
	require.False(t, list[0].Active)
	require.Equal(t, b.ID, list[1].ID)
	require.True(t, list[1].Active)
}

func TestCancelledContextPropagates(t *testing.T) {
	svc, r, _ := newService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Create(ctx, validCreate())
	require.ErrorIs(t, err, context.Canceled)

	all, err := r.GetAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)
}
