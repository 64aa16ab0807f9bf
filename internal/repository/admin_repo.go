package repository

import (
	"context"
	"errors"

	"github.com/socialhub/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
)

// AdminRepository handles admin data access
type AdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create creates a new admin
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

// GetByID retrieves an admin by ID
func (r *AdminRepository) GetByID(ctx context.Context, id uint) (*models.Admin, error) {
	var admin models.Admin
	result := r.db.WithContext(ctx).First(&admin, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, result.Error
	}
	return &admin, nil
}

// GetByUsername retrieves an admin by username
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var admin models.Admin
	result := r.db.WithContext(ctx).Where("username = ?", username).First(&admin)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, result.Error
	}
	return &admin, nil
}
