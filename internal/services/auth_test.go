package services_test

import (
	"testing"

	"hellfire/internal/models"
	"hellfire/internal/services"
	"hellfire/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDuplicateUsername(t *testing.T) {
	conn := testutil.SetupTestDatabase(t)
	auth := services.NewAuthService(conn)

	first, err := auth.Register("u", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTheme, first.Theme)
	assert.Equal(t, models.DefaultProfilePic, first.ProfilePic)
	assert.False(t, first.IsAdmin)
	assert.NotEqual(t, "pw", first.Password)

	_, err = auth.Register("u", "other")
	assert.ErrorIs(t, err, services.ErrDuplicateUsername)

	var count int64
	conn.Model(&models.User{}).Where("username = ?", "u").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRegisterValidation(t *testing.T) {
	auth := services.NewAuthService(testutil.SetupTestDatabase(t))

	_, err := auth.Register("   ", "pw")
	assert.ErrorIs(t, err, services.ErrValidation)
	_, err = auth.Register("u", "")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestAuthenticate(t *testing.T) {
	auth := services.NewAuthService(testutil.SetupTestDatabase(t))

	registered, err := auth.Register("u", "right-pw")
	require.NoError(t, err)

	user, err := auth.Authenticate("u", "right-pw")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = auth.Authenticate("u", "wrong-pw")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = auth.Authenticate("nobody", "right-pw")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestCurrentUser(t *testing.T) {
	conn := testutil.SetupTestDatabase(t)
	auth := services.NewAuthService(conn)
	u := testutil.CreateTestUser(t, conn, "alice", "pw", false)

	got, err := auth.CurrentUser(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = auth.CurrentUser(u.ID + 100)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestEnsureAdmin(t *testing.T) {
	conn := testutil.SetupTestDatabase(t)
	auth := services.NewAuthService(conn)

	admin, created, err := auth.EnsureAdmin("root", "pw")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, admin.IsAdmin)

	testutil.CreateTestUser(t, conn, "mod", "pw", false)
	promoted, created, err := auth.EnsureAdmin("mod", "ignored")
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, promoted.IsAdmin)

	var stored models.User
	require.NoError(t, conn.Where("username = ?", "mod").First(&stored).Error)
	assert.True(t, stored.IsAdmin)
}
