package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostInput carries the editable fields of a post.
type PostInput struct {
	Title    string
	Subtitle string
	Body     string
	ImgURL   string
	AuthorID uint
}

func (in PostInput) normalized() PostInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Subtitle = strings.TrimSpace(in.Subtitle)
	in.ImgURL = strings.TrimSpace(in.ImgURL)
	return in
}

func (in PostInput) valid() bool {
	return in.Title != "" && in.Subtitle != "" && in.ImgURL != "" && strings.TrimSpace(in.Body) != ""
}

// ContentStore owns posts and their comments.
type ContentStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewContentStore(db *gorm.DB) *ContentStore {
	return &ContentStore{db: db, now: time.Now}
}

// ListPosts returns every post in id order with its author.
func (s *ContentStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.WithContext(ctx).Preload("Author").Order("id ASC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// GetPost returns nil, nil when the post does not exist.
func (s *ContentStore) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

func (s *ContentStore) CreatePost(ctx context.Context, in PostInput) (*models.Post, error) {
	in = in.normalized()
	if !in.valid() {
		return nil, models.ErrValidation
	}

	post := &models.Post{
		AuthorID: in.AuthorID,
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Body:     in.Body,
		ImgURL:   in.ImgURL,
		Date:     s.now().Format(models.DateLayout),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, in.AuthorID); err != nil {
			return err
		}
		if err := requireFreeTitle(tx, in.Title, 0); err != nil {
			return err
		}
		return tx.Omit("Author", "Comments").Create(post).Error
	})
	if err != nil {
		return nil, translateWriteError("create post", err)
	}
	return s.GetPost(ctx, post.ID)
}

// UpdatePost replaces title, subtitle, body and image of a post, and its
// author when in.AuthorID is set. The creation date is kept.
func (s *ContentStore) UpdatePost(ctx context.Context, id uint, in PostInput) (*models.Post, error) {
	in = in.normalized()
	if !in.valid() {
		return nil, models.ErrValidation
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		if err := requireFreeTitle(tx, in.Title, id); err != nil {
			return err
		}
		columns := []string{"title", "subtitle", "body", "img_url"}
		if in.AuthorID != 0 {
			if err := requireUser(tx, in.AuthorID); err != nil {
				return err
			}
			columns = append(columns, "author_id")
		}
		return tx.Model(&post).Select(columns).Updates(models.Post{
			AuthorID: in.AuthorID,
			Title:    in.Title,
			Subtitle: in.Subtitle,
			Body:     in.Body,
			ImgURL:   in.ImgURL,
		}).Error
	})
	if err != nil {
		return nil, translateWriteError("update post", err)
	}
	return s.GetPost(ctx, id)
}

// DeletePost removes a post together with its comments and returns the ids
// of the removed comments.
func (s *ContentStore) DeletePost(ctx context.Context, id uint) ([]uint, error) {
	var commentIDs []uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("delete post: %w", err)
	}
	return commentIDs, nil
}

// ListComments returns the comments of a post in id order with their authors.
func (s *ContentStore) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("CommentAuthor").
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *ContentStore) AddComment(ctx context.Context, postID, authorID uint, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, models.ErrValidation
	}

	comment := &models.Comment{PostID: postID, CommentAuthorID: authorID, Text: text}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var posts int64
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).Count(&posts).Error; err != nil {
			return err
		}
		if posts == 0 {
			return models.ErrPostNotFound
		}
		if err := requireUser(tx, authorID); err != nil {
			return err
		}
		return tx.Omit("CommentAuthor").Create(comment).Error
	})
	if err != nil {
		if errors.Is(err, models.ErrPostNotFound) || errors.Is(err, models.ErrAuthorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return comment, nil
}

func requireUser(tx *gorm.DB, id uint) error {
	var n int64
	if err := tx.Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return models.ErrAuthorNotFound
	}
	return nil
}

func requireFreeTitle(tx *gorm.DB, title string, exceptID uint) error {
	q := tx.Model(&models.Post{}).Where("title = ?", title)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return models.ErrDuplicateTitle
	}
	return nil
}

func translateWriteError(op string, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrAuthorNotFound),
		errors.Is(err, models.ErrDuplicateTitle):
		return err
	case isUniqueConstraintError(err):
		return models.ErrDuplicateTitle
	}
	return fmt.Errorf("%s: %w", op, err)
}
