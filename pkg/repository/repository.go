package repository

import (
	"context"
	"errors"

	"github.com/garnizeh/weldtrack/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

// ErrDuplicateIdentifier is returned by implementations when a write would
// violate the uniqueness of Welder.Identifier. The storage-level constraint
// is the authoritative backstop for the application-side check.
var ErrDuplicateIdentifier = errors.New("identifier already in use")

type WelderRepo interface {
	// CreateWelder stores w together with any embedded authorizations in a
	// single transaction and returns the new welder id.
	CreateWelder(ctx context.Context, w *models.Welder) (int64, error)
	// GetWelderByID returns nil, nil when no welder has the given id.
	GetWelderByID(ctx context.Context, id int64) (*models.Welder, error)
	// GetWelderByIdentifier returns nil, nil when no welder holds identifier.
	GetWelderByIdentifier(ctx context.Context, identifier string) (*models.Welder, error)
	ListWelders(ctx context.Context, limit, offset int) ([]models.Welder, error)
	UpdateWelder(ctx context.Context, w *models.Welder) error
	// DeleteWelder removes the welder; its authorizations cascade.
	DeleteWelder(ctx context.Context, id int64) error
}

type AuthorizationRepo interface {
	CreateAuthorization(ctx context.Context, a *models.Authorization) (int64, error)
	// GetAuthorizationByID returns nil, nil when no authorization has the given id.
	GetAuthorizationByID(ctx context.Context, id int64) (*models.Authorization, error)
	ListByWelder(ctx context.Context, welderID int64) ([]models.Authorization, error)
	UpdateAuthorization(ctx context.Context, a *models.Authorization) error
	DeleteAuthorization(ctx context.Context, id int64) error
	// ListExpiring returns every authorization with expiration_date <= deadline,
	// in storage order. Filtering of already-expired rows is the caller's job.
	ListExpiring(ctx context.Context, deadline models.Date) ([]models.Authorization, error)
}
