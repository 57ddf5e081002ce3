package repository

import (
	"context"
	"testing"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/testutil"
	"inkwell/internal/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stores struct {
	db      *gorm.DB
	users   *CredentialStore
	content *ContentStore
}

func setupStores(t *testing.T, adminEmail string) stores {
	t.Helper()
	db := testutil.NewTestDB(t)
	content := NewContentStore(db)
	content.now = func() time.Time { return time.Date(2026, time.August, 4, 10, 0, 0, 0, time.UTC) }
	return stores{
		db:      db,
		users:   NewCredentialStore(db, utils.NewPasswordHasher(1000), adminEmail),
		content: content,
	}
}

func mustRegister(t *testing.T, s *CredentialStore, email, name string) *models.User {
	t.Helper()
	u, err := s.Register(context.Background(), email, name, "password1")
	require.NoError(t, err)
	return u
}

func mustCreatePost(t *testing.T, s *ContentStore, authorID uint, title string) *models.Post {
	t.Helper()
	p, err := s.CreatePost(context.Background(), PostInput{
		Title:    title,
		Subtitle: "sub " + title,
		Body:     "<p>body of " + title + "</p>",
		ImgURL:   "https://example.com/" + title + ".jpg",
		AuthorID: authorID,
	})
	require.NoError(t, err)
	return p
}
