package service

import (
	"context"
	"testing"
	"time"

	"github.com/socialhub/internal/config"
	"github.com/socialhub/internal/models"
	"github.com/socialhub/pkg/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	svc    *AdminService
	users  *memUserStore
	admins *memAdminStore
	files  *memFiles
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	f := &adminFixture{users: newMemUserStore(), admins: newMemAdminStore(), files: newMemFiles()}
	f.svc = NewAdminService(f.users, f.admins, f.files, config.AdminConfig{Username: "admin", Password: "admin123"})
	return f
}

func (f *adminFixture) userWithAssets(t *testing.T, email string, urls ...string) *models.User {
	t.Helper()
	user := &models.User{
		Email:         email,
		PasswordHash:  "h",
		SocialHandles: models.SocialHandles{{Platform: "twitter", Handle: "t", AddedAt: time.Now()}},
		Images:        models.Images{},
	}
	user.Images.Append(time.Now(), urls...)
	for _, u := range urls {
		f.files.put(u)
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func TestEnsureDefaultAdminIsIdempotent(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	created, err := f.svc.EnsureDefaultAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.svc.EnsureDefaultAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, 1, f.admins.count())

	admin, err := f.admins.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", admin.PasswordHash, "stored hashed")
	assert.True(t, crypto.CheckPassword("admin123", admin.PasswordHash))
}

func TestListUsersNewestFirst(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	users, err := f.svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	f.userWithAssets(t, "first@example.com")
	f.userWithAssets(t, "second@example.com")
	f.userWithAssets(t, "third@example.com")

	users, err = f.svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "third@example.com", users[0].Email)
	assert.Equal(t, "first@example.com", users[2].Email)
}

func TestDeleteUserCascadesToFiles(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	victim := f.userWithAssets(t, "v@example.com", "/uploads/1.png", "/uploads/2.png")
	bystander := f.userWithAssets(t, "b@example.com", "/uploads/3.png")

	require.NoError(t, f.svc.DeleteUser(ctx, victim.ID))

	_, err := f.users.GetByID(ctx, victim.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.False(t, f.files.has("/uploads/1.png"))
	assert.False(t, f.files.has("/uploads/2.png"))
	assert.True(t, f.files.has("/uploads/3.png"))

	_, err = f.users.GetByID(ctx, bystander.ID)
	assert.NoError(t, err)
}

func TestDeleteUserSkipsMissingFiles(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	user := f.userWithAssets(t, "v@example.com", "/uploads/1.png")
	require.NoError(t, f.files.Delete("/uploads/1.png"))

	assert.NoError(t, f.svc.DeleteUser(ctx, user.ID))
}

func TestDeleteUnknownUserTouchesNothing(t *testing.T) {
	f := newAdminFixture(t)
	f.userWithAssets(t, "keep@example.com", "/uploads/1.png")

	err := f.svc.DeleteUser(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, f.files.deleted)
	assert.Equal(t, 1, f.files.count())
}

func TestDeleteUserImage(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	user := f.userWithAssets(t, "u@example.com", "/uploads/1.png", "/uploads/2.png")

	require.NoError(t, f.svc.DeleteUserImage(ctx, user.ID, "/uploads/1.png"))

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/2.png"}, stored.Images.URLs())
	assert.False(t, f.files.has("/uploads/1.png"))
	assert.True(t, f.files.has("/uploads/2.png"))
}

func TestDeleteUserImageUnknownURL(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	user := f.userWithAssets(t, "u@example.com", "/uploads/1.png")
	f.userWithAssets(t, "o@example.com", "/uploads/other.png")

	require.NoError(t, f.svc.DeleteUserImage(ctx, user.ID, "/uploads/other.png"))

	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Images, 1)
	assert.True(t, f.files.has("/uploads/other.png"), "files of other users are not touched")

	err = f.svc.DeleteUserImage(ctx, 999, "/uploads/1.png")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteSocialHandle(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()
	user := f.userWithAssets(t, "u@example.com")

	require.NoError(t, f.svc.DeleteSocialHandle(ctx, user.ID, "mastodon"), "absent platform is a no-op")
	stored, err := f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, stored.SocialHandles, 1)

	require.NoError(t, f.svc.DeleteSocialHandle(ctx, user.ID, "twitter"))
	stored, err = f.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.SocialHandles)

	err = f.svc.DeleteSocialHandle(ctx, 999, "twitter")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
