package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_FirstUserIsAdmin(t *testing.T) {
	s := setupStores(t, "")
	ctx := context.Background()

	first := mustRegister(t, s.users, "first@example.com", "First")
	second := mustRegister(t, s.users, "second@example.com", "Second")

	assert.True(t, first.IsAdmin())
	assert.False(t, second.IsAdmin())
	assert.Less(t, first.ID, second.ID)

	found, err := s.users.FindByID(ctx, second.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, models.RoleReader, found.Role)
}

func TestRegister_ConfiguredAdminEmail(t *testing.T) {
	s := setupStores(t, "Boss@Example.com")

	mustRegister(t, s.users, "reader@example.com", "Reader")
	boss := mustRegister(t, s.users, "boss@example.com", "Boss")

	assert.True(t, boss.IsAdmin())
}

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	s := setupStores(t, "")
	ctx := context.Background()

	u, err := s.users.Register(ctx, "a@example.com", "A", "correct horse")
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, s.db.First(&stored, u.ID).Error)
	assert.True(t, strings.HasPrefix(stored.Password, "pbkdf2:sha256:"))
	assert.NotContains(t, stored.Password, "correct horse")

	assert.True(t, s.users.VerifyPassword(&stored, "correct horse"))
	assert.False(t, s.users.VerifyPassword(&stored, "wrong horse"))
	assert.False(t, s.users.VerifyPassword(nil, "correct horse"))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := setupStores(t, "")
	ctx := context.Background()

	mustRegister(t, s.users, "dup@example.com", "One")

	_, err := s.users.Register(ctx, "DUP@example.com ", "Two", "other")
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)

	var count int64
	require.NoError(t, s.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	u, err := s.users.FindByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, "One", u.Name)
}

func TestRegister_Validation(t *testing.T) {
	s := setupStores(t, "")
	_, err := s.users.Register(context.Background(), " ", "Name", "pw")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestFind_Missing(t *testing.T) {
	s := setupStores(t, "")
	ctx := context.Background()

	u, err := s.users.FindByEmail(ctx, "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, u)

	u, err = s.users.FindByID(ctx, 999)
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestEnsureAdmin(t *testing.T) {
	s := setupStores(t, "")
	ctx := context.Background()

	mustRegister(t, s.users, "owner@example.com", "Owner")
	reader := mustRegister(t, s.users, "editor@example.com", "Editor")
	require.False(t, reader.IsAdmin())

	promoted, err := s.users.EnsureAdmin(ctx, "editor@example.com", "ignored", "")
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())
	assert.Equal(t, reader.ID, promoted.ID)

	again, err := s.users.EnsureAdmin(ctx, "editor@example.com", "ignored", "")
	require.NoError(t, err)
	assert.Equal(t, reader.ID, again.ID)

	seeded, err := s.users.EnsureAdmin(ctx, "new-admin@example.com", "New Admin", "s3cret")
	require.NoError(t, err)
	assert.True(t, seeded.IsAdmin())
	assert.True(t, s.users.VerifyPassword(seeded, "s3cret"))

	_, err = s.users.EnsureAdmin(ctx, " ", "X", "pw")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestEnsureAdmin_WithoutPasswordWaitsForRegistration(t *testing.T) {
	s := setupStores(t, "later@example.com")
	ctx := context.Background()

	mustRegister(t, s.users, "owner@example.com", "Owner")

	pending, err := s.users.EnsureAdmin(ctx, "later@example.com", "Later", "")
	require.NoError(t, err)
	assert.Nil(t, pending)

	missing, err := s.users.FindByEmail(ctx, "later@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	later := mustRegister(t, s.users, "later@example.com", "Later")
	assert.True(t, later.IsAdmin())
}

func TestRegister_ConcurrentFirstUsersSingleAdmin(t *testing.T) {
	s := setupStores(t, "")
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.users.Register(ctx, fmt.Sprintf("user%d@example.com", i), "User", "password1")
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	var admins int64
	require.NoError(t, s.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error)
	assert.Equal(t, int64(1), admins)
}

func TestListUsers(t *testing.T) {
	s := setupStores(t, "")

	a := mustRegister(t, s.users, "a@example.com", "A")
	b := mustRegister(t, s.users, "b@example.com", "B")

	users, err := s.users.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, a.ID, users[0].ID)
	assert.Equal(t, b.ID, users[1].ID)
}
