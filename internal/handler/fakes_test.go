package handler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/socialhub/internal/models"
	"github.com/socialhub/internal/repository"
)

// In-memory stand-ins for the GORM and Redis repositories.

type memUsers struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{rows: make(map[uint]models.User)}
}

func copyUser(u models.User) *models.User {
	u.SocialHandles = append(models.SocialHandles{}, u.SocialHandles...)
	u.Images = append(models.Images{}, u.Images...)
	return &u
}

func (s *memUsers) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.rows {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now().Add(time.Duration(s.nextID) * time.Millisecond)
	s.rows[user.ID] = *copyUser(*user)
	return nil
}

func (s *memUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (s *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.rows {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUsers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.GetByEmail(ctx, email)
	return err == nil, nil
}

func (s *memUsers) List(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.rows))
	for _, u := range s.rows {
		out = append(out, *copyUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *memUsers) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.rows[user.ID]
	if !ok || stored.Version != user.Version {
		return repository.ErrVersionConflict
	}
	user.Version++
	s.rows[user.ID] = *copyUser(*user)
	return nil
}

func (s *memUsers) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.rows, id)
	return nil
}

type memAdmins struct {
	mu   sync.Mutex
	rows []models.Admin
}

func (s *memAdmins) Create(_ context.Context, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	admin.ID = uint(len(s.rows) + 1)
	s.rows = append(s.rows, *admin)
	return nil
}

func (s *memAdmins) GetByID(_ context.Context, id uint) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.rows {
		if a.ID == id {
			c := a
			return &c, nil
		}
	}
	return nil, repository.ErrAdminNotFound
}

func (s *memAdmins) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.rows {
		if a.Username == username {
			c := a
			return &c, nil
		}
	}
	return nil, repository.ErrAdminNotFound
}

type memRevoked struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func (r *memRevoked) Revoke(_ context.Context, id string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ids == nil {
		r.ids = make(map[string]struct{})
	}
	r.ids[id] = struct{}{}
	return nil
}

func (r *memRevoked) IsRevoked(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ids[id]
	return ok, nil
}
