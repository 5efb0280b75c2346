package router

import (
	"context"
	"sort"
	"strings"
	"sync"

	"blog-api/internal/domain"
)

// memTable 通用内存表，按 id 递增
type memTable[T any] struct {
	mu     sync.Mutex
	rows   map[int]T
	nextID int
	id     func(*T) *int
	slug   func(*T) string
}

func newMemTable[T any](id func(*T) *int, slug func(*T) string) *memTable[T] {
	return &memTable[T]{rows: map[int]T{}, id: id, slug: slug}
}

func (m *memTable[T]) List(context.Context) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.rows[id])
	}
	return out, nil
}

func (m *memTable[T]) Get(_ context.Context, id int) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

func (m *memTable[T]) dup(v *T) bool {
	if m.slug == nil {
		return false
	}
	for _, x := range m.rows {
		if *m.id(&x) != *m.id(v) && m.slug(&x) == m.slug(v) {
			return true
		}
	}
	return false
}

func (m *memTable[T]) Create(_ context.Context, v *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dup(v) {
		return domain.ErrConflict
	}
	m.nextID++
	*m.id(v) = m.nextID
	m.rows[m.nextID] = *v
	return nil
}

func (m *memTable[T]) Update(_ context.Context, v *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dup(v) {
		return domain.ErrConflict
	}
	m.rows[*m.id(v)] = *v
	return nil
}

func (m *memTable[T]) Delete(_ context.Context, id int) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(m.rows, id)
	return &v, nil
}

type memCategories struct{ *memTable[domain.Category] }

func newMemCategories() *memCategories {
	return &memCategories{newMemTable(
		func(c *domain.Category) *int { return &c.ID },
		func(c *domain.Category) string { return c.Slug },
	)}
}

func (m *memCategories) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	list, _ := m.List(ctx)
	for _, c := range list {
		if strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memRoles struct{ *memTable[domain.Role] }

func newMemRoles() *memRoles {
	return &memRoles{newMemTable(
		func(r *domain.Role) *int { return &r.ID },
		func(r *domain.Role) string { return r.Slug },
	)}
}

func (m *memRoles) FindBySlugs(ctx context.Context, slugs []string) ([]domain.Role, error) {
	list, _ := m.List(ctx)
	var out []domain.Role
	for _, s := range slugs {
		found := false
		for _, r := range list {
			if r.Slug == strings.ToLower(s) {
				out = append(out, r)
				found = true
			}
		}
		if !found {
			return nil, domain.ErrNotFound
		}
	}
	return out, nil
}

func newMemTags() *memTable[domain.Tag] {
	return newMemTable(
		func(t *domain.Tag) *int { return &t.ID },
		func(t *domain.Tag) string { return t.Slug },
	)
}

type memUsers struct {
	mu     sync.Mutex
	rows   map[int]domain.User
	nextID int
}

func newMemUsers() *memUsers { return &memUsers{rows: map[int]domain.User{}} }

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.rows {
		if x.Email == u.Email {
			return domain.ErrConflict
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id int) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) find(match func(domain.User) bool) []domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.rows {
		if match(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	us := m.find(func(u domain.User) bool { return u.Email == strings.ToLower(email) })
	if len(us) == 0 {
		return nil, domain.ErrNotFound
	}
	return &us[0], nil
}

func (m *memUsers) FindByName(_ context.Context, name string) (*domain.User, error) {
	us := m.find(func(u domain.User) bool { return strings.EqualFold(u.Name, name) })
	if len(us) == 0 {
		return nil, domain.ErrNotFound
	}
	return &us[0], nil
}

func (m *memUsers) SearchByName(_ context.Context, frag string) ([]domain.User, error) {
	return m.find(func(u domain.User) bool {
		return strings.Contains(strings.ToLower(u.Name), strings.ToLower(frag))
	}), nil
}

func (m *memUsers) List(_ context.Context, offset, limit int, q string) ([]domain.User, int64, error) {
	us := m.find(func(u domain.User) bool {
		return q == "" || strings.Contains(u.Email, q) || strings.Contains(u.Name, q)
	})
	total := int64(len(us))
	if limit > 0 {
		offset = min(offset, len(us))
		us = us[offset:min(offset+limit, len(us))]
	}
	return us, total, nil
}

func (m *memUsers) Posts(ctx context.Context, id int) ([]domain.Post, error) {
	if _, err := m.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, nil
}

func (m *memUsers) Update(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, x := range m.rows {
		if id != u.ID && x.Email == u.Email {
			return domain.ErrConflict
		}
	}
	m.rows[u.ID] = *u
	return nil
}

func (m *memUsers) Delete(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, u.ID)
	return nil
}

func (m *memUsers) ReplaceRoles(_ context.Context, u *domain.User, roles []domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Roles = roles
	m.rows[u.ID] = *u
	return nil
}

type memPosts struct {
	*memTable[domain.Post]
	users *memUsers
	cats  *memCategories
}

func newMemPosts(users *memUsers, cats *memCategories) *memPosts {
	return &memPosts{
		memTable: newMemTable(func(p *domain.Post) *int { return &p.ID }, func(p *domain.Post) string { return p.Slug }),
		users:    users,
		cats:     cats,
	}
}

func (m *memPosts) hydrate(ctx context.Context, p *domain.Post) {
	p.Category, _ = m.cats.Get(ctx, p.CategoryID)
	p.Author, _ = m.users.FindByID(ctx, p.AuthorID)
}

func (m *memPosts) List(ctx context.Context, f domain.PostFilter) ([]domain.Post, int64, error) {
	all, _ := m.memTable.List(ctx)
	var out []domain.Post
	for _, p := range all {
		m.hydrate(ctx, &p)
		if f.Category != "" && (p.Category == nil ||
			!strings.Contains(strings.ToLower(p.Category.Name), strings.ToLower(f.Category))) {
			continue
		}
		out = append(out, p)
	}
	total := int64(len(out))
	off := min(f.Offset, len(out))
	out = out[off:min(off+f.Limit, len(out))]
	return out, total, nil
}

func (m *memPosts) FindByID(ctx context.Context, id int) (*domain.Post, error) {
	p, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m.hydrate(ctx, p)
	return p, nil
}

func (m *memPosts) Create(ctx context.Context, p *domain.Post) error {
	cp := *p
	cp.Category, cp.Author = nil, nil
	if err := m.memTable.Create(ctx, &cp); err != nil {
		return err
	}
	p.ID = cp.ID
	return nil
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, string, string, string, string) {}
