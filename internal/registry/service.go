// Package registry holds the domain rules for the welder registry:
// identifier uniqueness, partial-update semantics, cascade delete, and the
// expiring-authorizations computation.
package registry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"log/slog"

	"github.com/garnizeh/weldtrack/pkg/models"
	"github.com/garnizeh/weldtrack/pkg/repository"
)

const (
	// DefaultStatus is assigned to welders created without a status.
	DefaultStatus = "active"
	// DefaultExpiringDays is the horizon used when the caller does not
	// supply one.
	DefaultExpiringDays = 60
	// MaxExpiringDays bounds the horizon.
	MaxExpiringDays = 365
)

type Service struct {
	welders repository.WelderRepo
	auths   repository.AuthorizationRepo
	logger  *slog.Logger
}

func NewService(wr repository.WelderRepo, ar repository.AuthorizationRepo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Service{welders: wr, auths: ar, logger: logger}
}

// CreateWelder stores w and any embedded initial authorizations atomically.
// The identifier must not be in use; the storage UNIQUE index backstops the
// check against racing writers.
func (s *Service) CreateWelder(ctx context.Context, w *models.Welder) (*models.Welder, error) {
	existing, err := s.welders.GetWelderByIdentifier(ctx, w.Identifier)
	if err != nil {
		return nil, fmt.Errorf("check identifier: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrConflict, w.Identifier)
	}

	if w.Status == "" {
		w.Status = DefaultStatus
	}

	id, err := s.welders.CreateWelder(ctx, w)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateIdentifier) {
			return nil, fmt.Errorf("%w: %s", ErrConflict, w.Identifier)
		}
		return nil, fmt.Errorf("create welder: %w", err)
	}

	s.logger.Info("welder created", slog.Int64("id", id), slog.String("identifier", w.Identifier))

	return s.loadWelder(ctx, id)
}

func (s *Service) GetWelder(ctx context.Context, id int64) (*models.Welder, error) {
	return s.loadWelder(ctx, id)
}

func (s *Service) ListWelders(ctx context.Context, limit, offset int) ([]models.Welder, error) {
	welders, err := s.welders.ListWelders(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list welders: %w", err)
	}

	for i := range welders {
		auths, err := s.auths.ListByWelder(ctx, welders[i].ID)
		if err != nil {
			return nil, fmt.Errorf("list authorizations for welder %d: %w", welders[i].ID, err)
		}
		if auths == nil {
			auths = []models.Authorization{}
		}
		welders[i].Authorizations = auths
	}

	if welders == nil {
		welders = []models.Welder{}
	}

	return welders, nil
}

// UpdateWelder applies a sparse patch. A changed identifier must not be
// held by another welder.
func (s *Service) UpdateWelder(ctx context.Context, id int64, p WelderPatch) (*models.Welder, error) {
	w, err := s.welders.GetWelderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get welder: %w", err)
	}
	if w == nil {
		return nil, fmt.Errorf("%w: welder %d", ErrNotFound, id)
	}

	if ident, ok := p.Identifier.Value(); ok && ident != w.Identifier {
		other, err := s.welders.GetWelderByIdentifier(ctx, ident)
		if err != nil {
			return nil, fmt.Errorf("check identifier: %w", err)
		}
		if other != nil && other.ID != id {
			return nil, fmt.Errorf("%w: %s", ErrConflict, ident)
		}
	}

	if err := p.apply(w); err != nil {
		return nil, err
	}

	if err := s.welders.UpdateWelder(ctx, w); err != nil {
		if errors.Is(err, repository.ErrDuplicateIdentifier) {
			return nil, fmt.Errorf("%w: %s", ErrConflict, w.Identifier)
		}
		return nil, fmt.Errorf("update welder: %w", err)
	}

	return s.loadWelder(ctx, id)
}

// DeleteWelder removes the welder and, by cascade, all of its authorizations.
func (s *Service) DeleteWelder(ctx context.Context, id int64) error {
	w, err := s.welders.GetWelderByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get welder: %w", err)
	}
	if w == nil {
		return fmt.Errorf("%w: welder %d", ErrNotFound, id)
	}

	if err := s.welders.DeleteWelder(ctx, id); err != nil {
		return fmt.Errorf("delete welder: %w", err)
	}

	s.logger.Info("welder deleted", slog.Int64("id", id), slog.String("identifier", w.Identifier))

	return nil
}

func (s *Service) ListAuthorizations(ctx context.Context, welderID int64) ([]models.Authorization, error) {
	w, err := s.welders.GetWelderByID(ctx, welderID)
	if err != nil {
		return nil, fmt.Errorf("get welder: %w", err)
	}
	if w == nil {
		return nil, fmt.Errorf("%w: welder %d", ErrNotFound, welderID)
	}

	auths, err := s.auths.ListByWelder(ctx, welderID)
	if err != nil {
		return nil, fmt.Errorf("list authorizations: %w", err)
	}
	if auths == nil {
		auths = []models.Authorization{}
	}

	return auths, nil
}

func (s *Service) CreateAuthorization(ctx context.Context, welderID int64, a *models.Authorization) (*models.Authorization, error) {
	w, err := s.welders.GetWelderByID(ctx, welderID)
	if err != nil {
		return nil, fmt.Errorf("get welder: %w", err)
	}
	if w == nil {
		return nil, fmt.Errorf("%w: welder %d", ErrNotFound, welderID)
	}

	a.WelderID = welderID
	id, err := s.auths.CreateAuthorization(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("create authorization: %w", err)
	}

	created, err := s.auths.GetAuthorizationByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load authorization: %w", err)
	}

	return created, nil
}

func (s *Service) UpdateAuthorization(ctx context.Context, id int64, p AuthorizationPatch) (*models.Authorization, error) {
	a, err := s.auths.GetAuthorizationByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get authorization: %w", err)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: authorization %d", ErrNotFound, id)
	}

	if err := p.apply(a); err != nil {
		return nil, err
	}

	if err := s.auths.UpdateAuthorization(ctx, a); err != nil {
		return nil, fmt.Errorf("update authorization: %w", err)
	}

	updated, err := s.auths.GetAuthorizationByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load authorization: %w", err)
	}

	return updated, nil
}

func (s *Service) DeleteAuthorization(ctx context.Context, id int64) error {
	a, err := s.auths.GetAuthorizationByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get authorization: %w", err)
	}
	if a == nil {
		return fmt.Errorf("%w: authorization %d", ErrNotFound, id)
	}

	if err := s.auths.DeleteAuthorization(ctx, id); err != nil {
		return fmt.Errorf("delete authorization: %w", err)
	}

	return nil
}

// ListExpiring returns every authorization expiring within days of ref,
// paired with its day count. Already-expired authorizations (negative day
// count) are excluded even though they satisfy the upper bound; the
// resulting window is days_until_expiration in [0, days].
func (s *Service) ListExpiring(ctx context.Context, ref models.Date, days int) ([]models.ExpiringAuthorization, error) {
	if days <= 0 || days > MaxExpiringDays {
		return nil, fmt.Errorf("%w: days must be in (0, %d]", ErrInvalidRequest, MaxExpiringDays)
	}

	deadline := ref.AddDays(days)
	auths, err := s.auths.ListExpiring(ctx, deadline)
	if err != nil {
		return nil, fmt.Errorf("list expiring: %w", err)
	}

	out := []models.ExpiringAuthorization{}
	for _, a := range auths {
		daysUntil := ref.DaysUntil(a.ExpirationDate)
		if daysUntil < 0 {
			continue
		}
		out = append(out, models.ExpiringAuthorization{
			Authorization:       a,
			DaysUntilExpiration: daysUntil,
		})
	}

	return out, nil
}

func (s *Service) loadWelder(ctx context.Context, id int64) (*models.Welder, error) {
	w, err := s.welders.GetWelderByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get welder: %w", err)
	}
	if w == nil {
		return nil, fmt.Errorf("%w: welder %d", ErrNotFound, id)
	}

	auths, err := s.auths.ListByWelder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list authorizations: %w", err)
	}
	if auths == nil {
		auths = []models.Authorization{}
	}
	w.Authorizations = auths

	return w, nil
}
