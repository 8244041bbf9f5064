package game

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxNameLength is the longest name the creation form accepts.
const MaxNameLength = 20

var (
	ErrEmptyName       = errors.New("name must not be empty")
	ErrNameTooLong     = errors.New("name is too long")
	ErrInvalidGender   = errors.New("gender must be male or female")
	ErrInvalidSkinTone = errors.New("skin tone must be between 1 and 5")
)

// ValidateIdentity checks character-creation input and returns the trimmed name.
// The engine itself never validates; callers at the boundary do.
func ValidateIdentity(name string, gender Gender, skinTone int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrNameTooLong
	}
	if !gender.Valid() {
		return "", ErrInvalidGender
	}
	if skinTone < MinSkinTone || skinTone > MaxSkinTone {
		return "", ErrInvalidSkinTone
	}
	return name, nil
}
