package registry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garnizeh/weldtrack/internal/patch"
	"github.com/garnizeh/weldtrack/internal/registry"
	"github.com/garnizeh/weldtrack/pkg/models"
	"github.com/garnizeh/weldtrack/pkg/repository/mock"
)

func newService() (*registry.Service, *mock.Repo) {
	repo := mock.NewRepo()
	return registry.NewService(repo, repo, nil), repo
}

func newWelder(identifier string) *models.Welder {
	return &models.Welder{
		FirstName:  "Ion",
		LastName:   "Popescu",
		Identifier: identifier,
		Status:     "active",
	}
}

func newAuthorization(expiration models.Date) *models.Authorization {
	return &models.Authorization{
		Standard:       models.StandardASMEIX,
		Process:        "111",
		IssueDate:      expiration.AddDays(-180),
		ExpirationDate: expiration,
	}
}

func TestCreateWelderDuplicateIdentifier(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	first, err := svc.CreateWelder(ctx, newWelder("ID-001"))
	require.NoError(t, err)
	assert.Equal(t, "ID-001", first.Identifier)
	assert.NotNil(t, first.Authorizations)

	_, err = svc.CreateWelder(ctx, newWelder("ID-001"))
	assert.ErrorIs(t, err, registry.ErrConflict)
}

func TestCreateWelderDefaultsStatus(t *testing.T) {
	svc, _ := newService()

	w := newWelder("ID-002")
	w.Status = ""
	created, err := svc.CreateWelder(context.Background(), w)
	require.NoError(t, err)
	assert.Equal(t, registry.DefaultStatus, created.Status)
}

func TestCreateWelderWithInitialAuthorizations(t *testing.T) {
	svc, _ := newService()

	w := newWelder("ID-003")
	w.Authorizations = []models.Authorization{
		*newAuthorization(models.NewDate(2023, time.July, 15)),
	}

	created, err := svc.CreateWelder(context.Background(), w)
	require.NoError(t, err)
	require.Len(t, created.Authorizations, 1)
	assert.Equal(t, models.StandardASMEIX, created.Authorizations[0].Standard)
	assert.Equal(t, created.ID, created.Authorizations[0].WelderID)
}

func TestUpdateWelderPartial(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	phone := "0722000000"
	w := newWelder("ID-004")
	w.Phone = &phone
	created, err := svc.CreateWelder(ctx, w)
	require.NoError(t, err)

	updated, err := svc.UpdateWelder(ctx, created.ID, registry.WelderPatch{
		Status: patch.Set("suspended"),
	})
	require.NoError(t, err)

	assert.Equal(t, "suspended", updated.Status)
	assert.Equal(t, created.FirstName, updated.FirstName)
	assert.Equal(t, created.LastName, updated.LastName)
	assert.Equal(t, created.Identifier, updated.Identifier)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
}

func TestUpdateWelderNullClearsOptional(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	phone := "0722000000"
	w := newWelder("ID-005")
	w.Phone = &phone
	created, err := svc.CreateWelder(ctx, w)
	require.NoError(t, err)

	updated, err := svc.UpdateWelder(ctx, created.ID, registry.WelderPatch{
		Phone: patch.Null[string](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.Phone)
}

func TestUpdateWelderNullOnRequiredRejected(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created, err := svc.CreateWelder(ctx, newWelder("ID-006"))
	require.NoError(t, err)

	_, err = svc.UpdateWelder(ctx, created.ID, registry.WelderPatch{
		Identifier: patch.Null[string](),
	})
	assert.ErrorIs(t, err, registry.ErrInvalidRequest)
}

func TestUpdateWelderIdentifierCollision(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.CreateWelder(ctx, newWelder("ID-007"))
	require.NoError(t, err)
	second, err := svc.CreateWelder(ctx, newWelder("ID-008"))
	require.NoError(t, err)

	_, err = svc.UpdateWelder(ctx, second.ID, registry.WelderPatch{
		Identifier: patch.Set("ID-007"),
	})
	assert.ErrorIs(t, err, registry.ErrConflict)

	// renaming to its own identifier is not a collision
	updated, err := svc.UpdateWelder(ctx, second.ID, registry.WelderPatch{
		Identifier: patch.Set("ID-008"),
	})
	require.NoError(t, err)
	assert.Equal(t, "ID-008", updated.Identifier)
}

func TestUpdateWelderNotFound(t *testing.T) {
	svc, _ := newService()

	_, err := svc.UpdateWelder(context.Background(), 42, registry.WelderPatch{})
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestDeleteWelderCascades(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	w := newWelder("ID-009")
	w.Authorizations = []models.Authorization{
		*newAuthorization(models.NewDate(2023, time.July, 15)),
	}
	created, err := svc.CreateWelder(ctx, w)
	require.NoError(t, err)
	authID := created.Authorizations[0].ID

	require.NoError(t, svc.DeleteWelder(ctx, created.ID))

	assert.ErrorIs(t, svc.DeleteWelder(ctx, created.ID), registry.ErrNotFound)

	a, err := repo.GetAuthorizationByID(ctx, authID)
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestCreateAuthorizationUnknownWelder(t *testing.T) {
	svc, _ := newService()

	_, err := svc.CreateAuthorization(context.Background(), 99, newAuthorization(models.NewDate(2023, time.July, 15)))
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestUpdateAuthorizationNotFoundLeavesStoreUnchanged(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	created, err := svc.CreateWelder(ctx, newWelder("ID-010"))
	require.NoError(t, err)
	a, err := svc.CreateAuthorization(ctx, created.ID, newAuthorization(models.NewDate(2023, time.July, 15)))
	require.NoError(t, err)

	_, err = svc.UpdateAuthorization(ctx, a.ID+100, registry.AuthorizationPatch{
		Process: patch.Set("141"),
	})
	assert.ErrorIs(t, err, registry.ErrNotFound)

	stored, err := repo.GetAuthorizationByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "111", stored.Process)
}

func TestUpdateAuthorizationRejectsUnknownStandard(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created, err := svc.CreateWelder(ctx, newWelder("ID-011"))
	require.NoError(t, err)
	a, err := svc.CreateAuthorization(ctx, created.ID, newAuthorization(models.NewDate(2023, time.July, 15)))
	require.NoError(t, err)

	_, err = svc.UpdateAuthorization(ctx, a.ID, registry.AuthorizationPatch{
		Standard: patch.Set(models.Standard("EN 287")),
	})
	assert.ErrorIs(t, err, registry.ErrInvalidRequest)
}

func TestExpirationBeforeIssueAccepted(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created, err := svc.CreateWelder(ctx, newWelder("ID-012"))
	require.NoError(t, err)

	a := &models.Authorization{
		Standard:       models.StandardCR9,
		Process:        "141",
		IssueDate:      models.NewDate(2023, time.July, 15),
		ExpirationDate: models.NewDate(2023, time.January, 15),
	}
	stored, err := svc.CreateAuthorization(ctx, created.ID, a)
	require.NoError(t, err)
	assert.True(t, stored.ExpirationDate.Equal(models.NewDate(2023, time.January, 15)))
}

func TestListExpiringBoundaries(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	ref := models.NewDate(2023, time.June, 1)
	const days = 30

	created, err := svc.CreateWelder(ctx, newWelder("ID-013"))
	require.NoError(t, err)

	// expiration dates relative to ref: -1 excluded, 0/days included,
	// days+1 excluded
	offsets := []int{-1, 0, days, days + 1}
	for _, off := range offsets {
		_, err := svc.CreateAuthorization(ctx, created.ID, newAuthorization(ref.AddDays(off)))
		require.NoError(t, err)
	}

	out, err := svc.ListExpiring(ctx, ref, days)
	require.NoError(t, err)
	require.Len(t, out, 2)

	got := map[int]bool{}
	for _, e := range out {
		got[e.DaysUntilExpiration] = true
	}
	assert.True(t, got[0])
	assert.True(t, got[days])
}

func TestListExpiringEmptyResultIsNotNil(t *testing.T) {
	svc, _ := newService()

	out, err := svc.ListExpiring(context.Background(), models.Today(), registry.DefaultExpiringDays)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestListExpiringRejectsBadHorizon(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.ListExpiring(ctx, models.Today(), 0)
	assert.ErrorIs(t, err, registry.ErrInvalidRequest)

	_, err = svc.ListExpiring(ctx, models.Today(), registry.MaxExpiringDays+1)
	assert.ErrorIs(t, err, registry.ErrInvalidRequest)
}

func TestListWeldersIncludesAuthorizations(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	w := newWelder("ID-014")
	w.Authorizations = []models.Authorization{
		*newAuthorization(models.NewDate(2023, time.July, 15)),
	}
	_, err := svc.CreateWelder(ctx, w)
	require.NoError(t, err)
	_, err = svc.CreateWelder(ctx, newWelder("ID-015"))
	require.NoError(t, err)

	welders, err := svc.ListWelders(ctx, 100, 0)
	require.NoError(t, err)
	require.Len(t, welders, 2)
	assert.Len(t, welders[0].Authorizations, 1)
	assert.NotNil(t, welders[1].Authorizations)
	assert.Empty(t, welders[1].Authorizations)
}

func TestNewServiceNilLoggerDiscards(t *testing.T) {
	repo := mock.NewRepo()
	svc := registry.NewService(repo, repo, nil)

	// CreateWelder logs on success; with no logger supplied the output
	// must be discarded rather than crash.
	created, err := svc.CreateWelder(context.Background(), newWelder("ID-016"))
	require.NoError(t, err)
	assert.Equal(t, "ID-016", created.Identifier)
}
