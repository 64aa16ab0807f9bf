package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/socialhub/internal/models"
)

// ProfileService handles a user's own images and social handles
type ProfileService struct {
	userRepo UserStore
	files    FileStore
	now      func() time.Time
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo UserStore, files FileStore) *ProfileService {
	return &ProfileService{
		userRepo: userRepo,
		files:    files,
		now:      time.Now,
	}
}

// UploadFile is one file taken from a multipart upload
type UploadFile struct {
	Filename string
	Content  io.Reader
}

// UploadRequest carries the files and the optional social handle of one upload
type UploadRequest struct {
	Files    []UploadFile
	Platform string
	Handle   string
}

// UploadAssets stores every file, appends it to the user's images and, when
// both platform and handle are given, upserts the handle for that platform.
//
// Files are written before the user row. If the row write fails the files
// stay on disk unreferenced.
func (s *ProfileService) UploadAssets(ctx context.Context, userID uint, req *UploadRequest) (*models.User, error) {
	urls := make([]string, 0, len(req.Files))
	for _, f := range req.Files {
		url, err := s.files.Save(f.Filename, f.Content)
		if err != nil {
			s.discard(urls)
			return nil, fmt.Errorf("store %s: %w", f.Filename, err)
		}
		urls = append(urls, url)
	}

	platform := strings.TrimSpace(req.Platform)
	handle := strings.TrimSpace(req.Handle)
	now := s.now()

	user, err := mutateUser(ctx, s.userRepo, userID, func(u *models.User) {
		u.Images.Append(now, urls...)
		if platform != "" && handle != "" {
			u.SocialHandles.Upsert(platform, handle, now)
		}
	})
	if err != nil {
		if len(urls) > 0 {
			logrus.WithError(err).WithFields(logrus.Fields{
				"user_id": userID,
				"files":   urls,
			}).Warn("upload: user not updated, stored files left unreferenced")
		}
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"files":    len(urls),
		"platform": platform,
	}).Info("upload: assets stored")
	return user, nil
}

// GetProfile returns the user document
func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// discard removes files stored earlier in a request that failed before any
// user row referenced them.
func (s *ProfileService) discard(urls []string) {
	for _, url := range urls {
		if err := s.files.Delete(url); err != nil {
			logrus.WithError(err).WithField("url", url).Warn("upload: failed to remove partial upload")
		}
	}
}
