package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/garnizeh/weldtrack/pkg/models"
	"github.com/garnizeh/weldtrack/pkg/repository"
)

// Repo is an in-memory implementation of the repository interfaces for
// tests. Errors can be injected per operation via the Err fields.
type Repo struct {
	mu sync.Mutex

	welders map[int64]models.Welder
	auths   map[int64]models.Authorization
	nextID  int64

	CreateWelderErr error
	CreateAuthErr   error
}

var _ repository.WelderRepo = (*Repo)(nil)
var _ repository.AuthorizationRepo = (*Repo)(nil)

func NewRepo() *Repo {
	return &Repo{
		welders: make(map[int64]models.Welder),
		auths:   make(map[int64]models.Authorization),
		nextID:  1,
	}
}

func (m *Repo) nextIDLocked() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *Repo) CreateWelder(ctx context.Context, w *models.Welder) (int64, error) {
	if m.CreateWelderErr != nil {
		return 0, m.CreateWelderErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.welders {
		if existing.Identifier == w.Identifier {
			return 0, fmt.Errorf("insert welder: %w", repository.ErrDuplicateIdentifier)
		}
	}

	id := m.nextIDLocked()
	stored := *w
	stored.ID = id
	stored.Authorizations = nil
	m.welders[id] = stored

	for _, a := range w.Authorizations {
		aid := m.nextIDLocked()
		a.ID = aid
		a.WelderID = id
		m.auths[aid] = a
	}

	return id, nil
}

func (m *Repo) GetWelderByID(ctx context.Context, id int64) (*models.Welder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w, ok := m.welders[id]; ok {
		return &w, nil
	}
	return nil, nil
}

func (m *Repo) GetWelderByIdentifier(ctx context.Context, identifier string) (*models.Welder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range m.welders {
		if w.Identifier == identifier {
			return &w, nil
		}
	}
	return nil, nil
}

func (m *Repo) ListWelders(ctx context.Context, limit, offset int) ([]models.Welder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Welder
	for id := int64(1); id < m.nextID; id++ {
		if w, ok := m.welders[id]; ok {
			out = append(out, w)
		}
	}

	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}

	return out, nil
}

func (m *Repo) UpdateWelder(ctx context.Context, w *models.Welder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.welders {
		if existing.ID != w.ID && existing.Identifier == w.Identifier {
			return fmt.Errorf("update welder: %w", repository.ErrDuplicateIdentifier)
		}
	}

	stored := *w
	stored.Authorizations = nil
	m.welders[w.ID] = stored
	return nil
}

func (m *Repo) DeleteWelder(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.welders, id)
	for aid, a := range m.auths {
		if a.WelderID == id {
			delete(m.auths, aid)
		}
	}
	return nil
}

func (m *Repo) CreateAuthorization(ctx context.Context, a *models.Authorization) (int64, error) {
	if m.CreateAuthErr != nil {
		return 0, m.CreateAuthErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextIDLocked()
	stored := *a
	stored.ID = id
	m.auths[id] = stored
	return id, nil
}

func (m *Repo) GetAuthorizationByID(ctx context.Context, id int64) (*models.Authorization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a, ok := m.auths[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (m *Repo) ListByWelder(ctx context.Context, welderID int64) ([]models.Authorization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Authorization
	for id := int64(1); id < m.nextID; id++ {
		if a, ok := m.auths[id]; ok && a.WelderID == welderID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Repo) UpdateAuthorization(ctx context.Context, a *models.Authorization) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.auths[a.ID] = *a
	return nil
}

func (m *Repo) DeleteAuthorization(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.auths, id)
	return nil
}

func (m *Repo) ListExpiring(ctx context.Context, deadline models.Date) ([]models.Authorization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Authorization
	for id := int64(1); id < m.nextID; id++ {
		if a, ok := m.auths[id]; ok && !a.ExpirationDate.After(deadline) {
			out = append(out, a)
		}
	}
	return out, nil
}
