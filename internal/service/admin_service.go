package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/socialhub/internal/config"
	"github.com/socialhub/internal/models"
	"github.com/socialhub/internal/repository"
	"github.com/socialhub/pkg/crypto"
)

// AdminService backs the admin console and the startup bootstrap
type AdminService struct {
	userRepo    UserStore
	adminRepo   AdminStore
	files       FileStore
	adminConfig config.AdminConfig
}

// NewAdminService creates a new AdminService
func NewAdminService(userRepo UserStore, adminRepo AdminStore, files FileStore, adminConfig config.AdminConfig) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		adminRepo:   adminRepo,
		files:       files,
		adminConfig: adminConfig,
	}
}

// EnsureDefaultAdmin creates the configured admin account unless it already
// exists. It is safe to call on every start. The returned bool reports
// whether an account was created.
func (s *AdminService) EnsureDefaultAdmin(ctx context.Context) (bool, error) {
	_, err := s.adminRepo.GetByUsername(ctx, s.adminConfig.Username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrAdminNotFound) {
		return false, err
	}

	passwordHash, err := crypto.HashPassword(s.adminConfig.Password)
	if err != nil {
		return false, err
	}

	admin := &models.Admin{
		Username:     s.adminConfig.Username,
		PasswordHash: passwordHash,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return false, err
	}

	logrus.WithField("username", admin.Username).Info("bootstrap: default admin created")
	return true, nil
}

// ListUsers returns all users, newest first
func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// DeleteUser removes every uploaded file of the user, then the user itself.
// Files that are already gone are skipped. Nothing is rolled back if the
// row delete fails after files were removed.
func (s *AdminService) DeleteUser(ctx context.Context, id uint) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	for _, url := range user.Images.URLs() {
		s.removeFile(user.ID, url)
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": id,
		"images":  len(user.Images),
	}).Info("admin: user deleted")
	return nil
}

// DeleteUserImage drops the image entry from the user and then deletes its
// file. Unknown urls leave both the user and the disk untouched.
func (s *AdminService) DeleteUserImage(ctx context.Context, id uint, url string) error {
	var removed bool
	if _, err := mutateUser(ctx, s.userRepo, id, func(u *models.User) {
		removed = u.Images.Remove(url)
	}); err != nil {
		return err
	}

	if removed {
		s.removeFile(id, url)
	}
	return nil
}

// DeleteSocialHandle drops the handle for platform. A platform the user never
// linked is not an error.
func (s *AdminService) DeleteSocialHandle(ctx context.Context, id uint, platform string) error {
	_, err := mutateUser(ctx, s.userRepo, id, func(u *models.User) {
		u.SocialHandles.Remove(platform)
	})
	return err
}

func (s *AdminService) removeFile(userID uint, url string) {
	if err := s.files.Delete(url); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"url":     url,
		}).Warn("admin: failed to delete image file")
	}
}
