package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/staybnb/webserver/internal/store"
	"github.com/staybnb/webserver/internal/uploads"
	"github.com/staybnb/webserver/types"
)

type fakeUsers struct {
	mu        sync.Mutex
	users     []types.User
	createErr error
	lookupErr error
}

func (f *fakeUsers) GetByID(_ context.Context, id int) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return types.User{}, f.lookupErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, user types.User) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return types.User{}, f.createErr
	}
	user.ID = len(f.users) + 1
	user.CreatedAt = time.Now()
	f.users = append(f.users, user)
	return user, nil
}

// plainHasher reverses the password so tests can tell hash from plaintext.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) {
	r := []rune(p)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return "h:" + string(r), nil
}

func (h plainHasher) Verify(p, hash string) bool {
	got, _ := h.Hash(p)
	return got == hash
}

type fakeProperties struct {
	properties []types.Property
	hosts      map[int]bool
	createErr  error
}

func (f *fakeProperties) Create(_ context.Context, p types.Property) (types.Property, error) {
	if f.createErr != nil {
		return types.Property{}, f.createErr
	}
	if f.hosts != nil && !f.hosts[p.HostID] {
		return types.Property{}, store.ErrForeignKeyViolation
	}
	p.ID = len(f.properties) + 1
	f.properties = append(f.properties, p)
	return p, nil
}

func (f *fakeProperties) ListByHost(_ context.Context, hostID int) ([]types.Property, error) {
	out := []types.Property{}
	for _, p := range f.properties {
		if p.HostID == hostID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeImages struct {
	stored    []string
	removed   []string
	err       error
	removeErr error
}

func (f *fakeImages) Remove(_ context.Context, name string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, name)
	return nil
}

func (f *fakeImages) Store(_ context.Context, file *uploads.File) (*string, error) {
	if file == nil {
		return nil, nil
	}
	if f.err != nil {
		return nil, f.err
	}
	name := uploads.Sanitize(file.Filename)
	f.stored = append(f.stored, name)
	return &name, nil
}

type fakePublisher struct {
	channel string
	events  []any
	err     error
}

func (f *fakePublisher) PublishJSON(_ context.Context, channel string, v any) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.channel = channel
	f.events = append(f.events, v)
	return "msg-1", nil
}

var errBoom = errors.New("boom")
