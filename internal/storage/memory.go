package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryStorage keeps everything in process memory. Data is lost on restart.
type MemoryStorage struct {
	mu       sync.RWMutex
	links    map[string]ReviewLink // by id
	slugs    map[string]string     // slug -> id
	feedback []ReviewFeedback
	users    map[string]User // by username
}

func CreateMemoryStorage() (*MemoryStorage, error) {
	return &MemoryStorage{
		links: make(map[string]ReviewLink),
		slugs: make(map[string]string),
		users: make(map[string]User),
	}, nil
}

func (m *MemoryStorage) ListLinks(ctx context.Context) ([]ReviewLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make([]ReviewLink, 0, len(m.links))
	for _, l := range m.links {
		res = append(res, l)
	}
	sortNewestFirst(res)

	return res, nil
}

func (m *MemoryStorage) FindLinkBySlug(ctx context.Context, slug string) (*ReviewLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugs[slug]
	if !ok {
		return nil, ErrNotFound
	}
	l := m.links[id]

	return &l, nil
}

func (m *MemoryStorage) CreateLink(ctx context.Context, link ReviewLink) (*ReviewLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.slugs[link.Slug]; exists {
		return nil, ErrConflict
	}
	if _, exists := m.links[link.ID]; exists {
		return nil, ErrConflict
	}

	m.links[link.ID] = link
	m.slugs[link.Slug] = link.ID

	return &link, nil
}

func (m *MemoryStorage) UpdateLink(ctx context.Context, id string, patch LinkPatch) (bool, error) {
	if patch.Empty() {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.links[id]
	if !ok {
		return false, nil
	}
	patch.Apply(&l)
	m.links[id] = l

	return true, nil
}

func (m *MemoryStorage) DeleteLink(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.links[id]
	if !ok {
		return false, nil
	}
	delete(m.links, id)
	delete(m.slugs, l.Slug)

	return true, nil
}

func (m *MemoryStorage) CreateFeedback(ctx context.Context, f ReviewFeedback) (*ReviewFeedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.feedback = append(m.feedback, f)

	return &f, nil
}

// Feedback returns a copy of the recorded feedback. It is not part of the
// public store contract and exists for inspection in tests and tooling.
func (m *MemoryStorage) Feedback() []ReviewFeedback {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]ReviewFeedback(nil), m.feedback...)
}

func (m *MemoryStorage) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[username]
	if !ok {
		return nil, ErrNotFound
	}

	return &u, nil
}

func (m *MemoryStorage) CreateUser(ctx context.Context, u User) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[u.Username]; exists {
		return false, nil
	}
	m.users[u.Username] = u

	return true, nil
}

// linkByID returns a copy of the stored link.
func (m *MemoryStorage) linkByID(id string) (ReviewLink, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.links[id]
	return l, ok
}

// putLink stores l as is, replacing any link with the same id.
func (m *MemoryStorage) putLink(l ReviewLink) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.links[l.ID] = l
	m.slugs[l.Slug] = l.ID
}

func (m *MemoryStorage) removeUser(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, username)
}

func (m *MemoryStorage) PingContext(c context.Context) error {
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

func sortNewestFirst(links []ReviewLink) {
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
}
