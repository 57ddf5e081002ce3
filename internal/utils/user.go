package utils

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
)

// Gravatar settings for comment avatars.
const (
	gravatarSize    = 100
	gravatarRating  = "g"
	gravatarDefault = "retro"
)

// GravatarHash is the md5 of the trimmed, lower-cased email.
func GravatarHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

// GravatarURL returns the avatar image URL for email.
func GravatarURL(email string) string {
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=%d&r=%s&d=%s",
		GravatarHash(email), gravatarSize, gravatarRating, gravatarDefault)
}

// Initial returns the upper-cased first letter of name, used when no avatar loads.
func Initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}
