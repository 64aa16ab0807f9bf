package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/socialhub/internal/models"
	"github.com/socialhub/internal/repository"
)

// memUserStore mimics UserRepository, including the version check on Update.
type memUserStore struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]models.User

	// beforeUpdate, when set, runs once before the next Update is applied.
	beforeUpdate func(s *memUserStore)
	updateErr    error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uint]models.User)}
}

func cloneUser(u models.User) models.User {
	u.SocialHandles = append(models.SocialHandles{}, u.SocialHandles...)
	u.Images = append(models.Images{}, u.Images...)
	return u
}

func (s *memUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	s.nextID++
	user.ID = s.nextID
	if user.Version == 0 {
		user.Version = 1
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().Add(time.Duration(s.nextID) * time.Millisecond)
	}
	s.users[user.ID] = cloneUser(*user)
	return nil
}

func (s *memUserStore) GetByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	c := cloneUser(u)
	return &c, nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			c := cloneUser(u)
			return &c, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *memUserStore) List(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memUserStore) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	hook := s.beforeUpdate
	s.beforeUpdate = nil
	s.mu.Unlock()
	if hook != nil {
		hook(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	stored, ok := s.users[user.ID]
	if !ok || stored.Version != user.Version {
		return repository.ErrVersionConflict
	}
	user.Version++
	s.users[user.ID] = cloneUser(*user)
	return nil
}

func (s *memUserStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// appendImageBehindTheScenes simulates a concurrent request writing the row.
func (s *memUserStore) appendImageBehindTheScenes(id uint, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[id]
	u.Images = append(u.Images, models.Image{URL: url, UploadedAt: time.Now()})
	u.Version++
	s.users[id] = u
}

type memAdminStore struct {
	mu     sync.Mutex
	nextID uint
	admins map[uint]models.Admin
}

func newMemAdminStore() *memAdminStore {
	return &memAdminStore{admins: make(map[uint]models.Admin)}
}

func (s *memAdminStore) Create(_ context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	admin.ID = s.nextID
	s.admins[admin.ID] = *admin
	return nil
}

func (s *memAdminStore) GetByID(_ context.Context, id uint) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[id]
	if !ok {
		return nil, repository.ErrAdminNotFound
	}
	return &a, nil
}

func (s *memAdminStore) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.admins {
		if a.Username == username {
			c := a
			return &c, nil
		}
	}
	return nil, repository.ErrAdminNotFound
}

func (s *memAdminStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.admins)
}

type memRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	err     error
}

func newMemRevocations() *memRevocations {
	return &memRevocations{revoked: make(map[string]time.Duration)}
}

func (r *memRevocations) Revoke(_ context.Context, id string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.revoked[id] = ttl
	return nil
}

func (r *memRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[id]
	return ok, nil
}

// memFiles is a FileStore keeping contents in memory.
type memFiles struct {
	mu      sync.Mutex
	n       int
	files   map[string][]byte
	deleted []string
	// failAfter makes the Save call after that many successful saves fail
	failAfter int
}

func newMemFiles() *memFiles {
	return &memFiles{files: make(map[string][]byte), failAfter: -1}
}

func (f *memFiles) Save(name string, r io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAfter == 0 {
		return "", errors.New("disk full")
	}
	if f.failAfter > 0 {
		f.failAfter--
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.n++
	url := fmt.Sprintf("/uploads/%d-%s", f.n, path.Base(name))
	f.files[url] = data
	return url, nil
}

func (f *memFiles) Delete(url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	delete(f.files, url)
	return nil
}

func (f *memFiles) has(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[url]
	return ok
}

func (f *memFiles) put(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[url] = []byte("x")
}

func (f *memFiles) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}
