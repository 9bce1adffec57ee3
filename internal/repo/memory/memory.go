package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hamed0406/upmonitor/internal/domain"
	"github.com/hamed0406/upmonitor/internal/repo"
)

// maxTicks bounds the history kept per website.
const maxTicks = 1000

type Store struct {
	mu       sync.RWMutex
	users    map[repo.UserID]*repo.User
	websites map[domain.WebsiteID]*repo.Website
	// ticks are stored oldest first and reversed on read.
	ticks map[domain.WebsiteID][]domain.Tick
}

func New() *Store {
	return &Store{
		users:    make(map[repo.UserID]*repo.User),
		websites: make(map[domain.WebsiteID]*repo.Website),
		ticks:    make(map[domain.WebsiteID][]domain.Tick),
	}
}

// ---- UserStore ----

func (m *Store) CreateUser(ctx context.Context, u *repo.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return repo.ErrConflict
		}
	}
	if u.ID == "" {
		u.ID = repo.UserID(uuid.NewString())
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *Store) UserByName(ctx context.Context, username string) (*repo.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *Store) UserByID(ctx context.Context, id repo.UserID) (*repo.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *Store) DeleteUser(ctx context.Context, id repo.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return repo.ErrNotFound
	}
	for wid, w := range m.websites {
		if w.Owner == id {
			delete(m.websites, wid)
			delete(m.ticks, wid)
		}
	}
	delete(m.users, id)
	return nil
}

// ---- WebsiteStore ----

func (m *Store) AddWebsite(ctx context.Context, w *repo.Website) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w.ID == "" {
		w.ID = domain.WebsiteID(uuid.NewString())
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	cp := *w
	m.websites[w.ID] = &cp
	return nil
}

func (m *Store) ListWebsites(ctx context.Context) ([]repo.Website, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(*repo.Website) bool { return true }), nil
}

func (m *Store) WebsitesByOwner(ctx context.Context, owner repo.UserID) ([]repo.Website, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collect(func(w *repo.Website) bool { return w.Owner == owner }), nil
}

// collect returns matching websites oldest first so listings are stable.
func (m *Store) collect(keep func(*repo.Website) bool) []repo.Website {
	out := make([]repo.Website, 0, len(m.websites))
	for _, w := range m.websites {
		if keep(w) {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *Store) WebsiteByID(ctx context.Context, owner repo.UserID, id domain.WebsiteID) (*repo.Website, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.websites[id]
	if !ok || w.Owner != owner {
		return nil, repo.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *Store) DeleteWebsite(ctx context.Context, owner repo.UserID, id domain.WebsiteID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.websites[id]
	if !ok || w.Owner != owner {
		return repo.ErrNotFound
	}
	delete(m.websites, id)
	delete(m.ticks, id)
	return nil
}

// ---- TickStore ----

func (m *Store) AppendTick(ctx context.Context, id domain.WebsiteID, t domain.Tick) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.websites[id]; !ok {
		// website deleted while its check was in flight
		return repo.ErrNotFound
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	ts := append(m.ticks[id], t)
	if len(ts) > maxTicks {
		ts = ts[len(ts)-maxTicks:]
	}
	m.ticks[id] = ts
	return nil
}

func (m *Store) Ticks(ctx context.Context, id domain.WebsiteID, limit int) ([]domain.Tick, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ts := m.ticks[id]
	n := len(ts)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.Tick, 0, n)
	for i := len(ts) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, ts[i])
	}
	return out, nil
}
