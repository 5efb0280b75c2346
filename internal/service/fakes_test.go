package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"blog-api/internal/domain"
)

type fakeUsers struct {
	mu     sync.Mutex
	byID   map[int]*domain.User
	nextID int
	posts  map[int][]domain.Post
	failOn string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int]*domain.User{}, posts: map[int][]domain.Post{}}
}

var errBoom = errors.New("boom")

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "create" {
		return errBoom
	}
	for _, x := range f.byID {
		if x.Email == u.Email {
			return domain.ErrConflict
		}
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id int) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) FindByName(_ context.Context, name string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if strings.EqualFold(u.Name, name) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) SearchByName(_ context.Context, frag string) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, u := range f.byID {
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(frag)) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsers) List(_ context.Context, offset, limit int, _ string) ([]domain.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	total := int64(len(out))
	if limit > 0 {
		if offset > len(out) {
			offset = len(out)
		}
		end := min(offset+limit, len(out))
		out = out[offset:end]
	}
	return out, total, nil
}

func (f *fakeUsers) Posts(ctx context.Context, id int) ([]domain.Post, error) {
	if _, err := f.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return f.posts[id], nil
}

func (f *fakeUsers) Update(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == "update" {
		return errBoom
	}
	for id, x := range f.byID {
		if id != u.ID && x.Email == u.Email {
			return domain.ErrConflict
		}
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, u.ID)
	return nil
}

func (f *fakeUsers) ReplaceRoles(_ context.Context, u *domain.User, roles []domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.Roles = roles
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(u *domain.User) (string, error) { return "token-for-" + u.Email, nil }

type putCall struct {
	name, contentType string
	size              int
}

type fakeStore struct {
	calls []putCall
	err   error
}

func (s *fakeStore) Put(_ context.Context, name, contentType string, data []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.calls = append(s.calls, putCall{name, contentType, len(data)})
	return "/uploads/" + name, nil
}

type note struct{ name, email, subject string }

type recNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (n *recNotifier) Notify(_ context.Context, name, email, subject, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note{name, email, subject})
}

func (n *recNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notes)
}
