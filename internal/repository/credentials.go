package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/utils"

	"gorm.io/gorm"
)

// CredentialStore owns user accounts and their password hashes.
type CredentialStore struct {
	db         *gorm.DB
	hasher     *utils.PasswordHasher
	adminEmail string
}

func NewCredentialStore(db *gorm.DB, hasher *utils.PasswordHasher, adminEmail string) *CredentialStore {
	return &CredentialStore{
		db:         db,
		hasher:     hasher,
		adminEmail: normalizeEmail(adminEmail),
	}
}

// Register creates a reader account, or an admin account when the users
// table is empty or the email is the configured admin email.
func (s *CredentialStore) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" || password == "" {
		return nil, models.ErrValidation
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Email: email, Name: name, Password: hash, Role: models.RoleReader}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Concurrent first registrations would both count zero users.
		// sqlite already runs one writer at a time.
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
				return err
			}
		}

		var existing int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return models.ErrDuplicateEmail
		}

		var total int64
		if err := tx.Model(&models.User{}).Count(&total).Error; err != nil {
			return err
		}
		if total == 0 || (s.adminEmail != "" && email == s.adminEmail) {
			user.Role = models.RoleAdmin
		}
		return tx.Create(user).Error
	})
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) || isUniqueConstraintError(err) {
			return nil, models.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("register user: %w", err)
	}
	return user, nil
}

// FindByEmail returns nil, nil when no account has that email.
func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns nil, nil when the id is unknown.
func (s *CredentialStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// ListUsers returns every account in registration order.
func (s *CredentialStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *CredentialStore) VerifyPassword(user *models.User, password string) bool {
	if user == nil {
		return false
	}
	return s.hasher.CheckPasswordHash(password, user.Password)
}

// EnsureAdmin makes sure an admin account exists for email. An existing
// account is promoted; its password is left alone. Without a password a
// missing account is not created and EnsureAdmin returns nil, nil; Register
// still grants admin to that email once it signs up.
func (s *CredentialStore) EnsureAdmin(ctx context.Context, email, name, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, models.ErrValidation
	}

	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if user.IsAdmin() {
			return user, nil
		}
		if err := s.db.WithContext(ctx).Model(user).Update("role", models.RoleAdmin).Error; err != nil {
			return nil, fmt.Errorf("promote admin: %w", err)
		}
		user.Role = models.RoleAdmin
		return user, nil
	}

	if password == "" {
		return nil, nil
	}
	user, err = s.Register(ctx, email, name, password)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		if err := s.db.WithContext(ctx).Model(user).Update("role", models.RoleAdmin).Error; err != nil {
			return nil, fmt.Errorf("promote admin: %w", err)
		}
		user.Role = models.RoleAdmin
	}
	return user, nil
}
