package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

const (
	DefaultSessionTTL = 7 * 24 * time.Hour
	// 32 bytes, 64 hex characters
	tokenLength = 32
)

// SessionService keeps login sessions in the sessions table. The browser only
// ever holds the opaque token.
type SessionService struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewSessionService(db *gorm.DB, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{db: db, ttl: ttl, now: time.Now}
}

// Login starts a session for user and returns its token. Expired sessions
// of the same user are purged on the way.
func (s *SessionService) Login(ctx context.Context, user *models.User) (string, error) {
	if user == nil || user.ID == 0 {
		return "", models.ErrUnauthenticated
	}

	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	now := s.now()
	session := models.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND expires_at <= ?", user.ID, now).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Omit("User").Create(&session).Error
	})
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}

// Logout ends the session. Unknown tokens are not an error.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CurrentUser resolves token to its user, or nil when the token is empty,
// unknown or expired.
func (s *SessionService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}

	var session models.Session
	err := s.db.WithContext(ctx).Preload("User").Where("token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	if session.Expired(s.now()) {
		if err := s.Logout(ctx, token); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if session.User.ID == 0 {
		return nil, nil
	}
	return &session.User, nil
}

// CleanupExpired removes every expired session and reports how many went.
func (s *SessionService) CleanupExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("cleanup expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func generateToken() (string, error) {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
