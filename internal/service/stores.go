package service

import (
	"context"
	"io"
	"time"

	"github.com/socialhub/internal/models"
)

// UserStore is the persistence the services need for users.
// *repository.UserRepository implements it.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

// AdminStore is implemented by *repository.AdminRepository
type AdminStore interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id uint) (*models.Admin, error)
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
}

// RevocationStore is implemented by *repository.RevocationRepository
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// FileStore is implemented by *storage.LocalStorage
type FileStore interface {
	Save(originalName string, r io.Reader) (string, error)
	Delete(url string) error
}
