package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultHashIterations = 600000
	// legacy hashes ("pbkdf2:sha256$salt$hex") were written with this count
	legacyHashIterations = 260000
	saltChars            = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var ErrInvalidHash = errors.New("invalid password hash")

// PasswordHasher produces and checks salted PBKDF2-SHA256 hashes in the
// "pbkdf2:sha256:<iterations>$<salt>$<hex>" format.
type PasswordHasher struct {
	Iterations int
	SaltLength int
}

func NewPasswordHasher(iterations int) *PasswordHasher {
	if iterations <= 0 {
		iterations = DefaultHashIterations
	}
	return &PasswordHasher{Iterations: iterations, SaltLength: 16}
}

// HashPassword returns a freshly salted hash of password.
func (h *PasswordHasher) HashPassword(password string) (string, error) {
	saltLen := h.SaltLength
	if saltLen < 8 {
		saltLen = 8
	}
	salt, err := randomSalt(saltLen)
	if err != nil {
		return "", err
	}
	digest := derive(password, salt, h.Iterations)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", h.Iterations, salt, digest), nil
}

// CheckPasswordHash reports whether password matches hash.
func (h *PasswordHasher) CheckPasswordHash(password, hash string) bool {
	method, salt, want, err := splitHash(hash)
	if err != nil {
		return false
	}
	iterations, err := parseMethod(method)
	if err != nil {
		return false
	}
	got := derive(password, salt, iterations)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func derive(password, salt string, iterations int) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, sha256.Size, sha256.New)
	return hex.EncodeToString(key)
}

func splitHash(hash string) (method, salt, digest string, err error) {
	parts := strings.SplitN(hash, "$", 3)
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return "", "", "", ErrInvalidHash
	}
	return parts[0], parts[1], parts[2], nil
}

func parseMethod(method string) (int, error) {
	fields := strings.Split(method, ":")
	if len(fields) < 2 || fields[0] != "pbkdf2" || fields[1] != "sha256" {
		return 0, ErrInvalidHash
	}
	if len(fields) == 2 {
		return legacyHashIterations, nil
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil || n <= 0 {
		return 0, ErrInvalidHash
	}
	return n, nil
}

func randomSalt(n int) (string, error) {
	var sb strings.Builder
	max := big.NewInt(int64(len(saltChars)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(saltChars[idx.Int64()])
	}
	return sb.String(), nil
}
