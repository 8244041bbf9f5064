package game

import (
	"errors"
	"testing"
)

func TestValidateIdentity(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		gender   Gender
		skinTone int
		want     string
		wantErr  error
	}{
		{"trims", "  Bob  ", GenderMale, 3, "Bob", nil},
		{"empty", "   ", GenderMale, 1, "", ErrEmptyName},
		{"too long", "abcdefghijklmnopqrstu", GenderFemale, 1, "", ErrNameTooLong},
		{"max length runes", "éééééééééééééééééééé", GenderFemale, 1, "éééééééééééééééééééé", nil},
		{"bad gender", "Ann", Gender("x"), 1, "", ErrInvalidGender},
		{"skin tone low", "Ann", GenderFemale, 0, "", ErrInvalidSkinTone},
		{"skin tone high", "Ann", GenderFemale, 6, "", ErrInvalidSkinTone},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ValidateIdentity(c.input, c.gender, c.skinTone)
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("error = %v, want %v", err, c.wantErr)
			}
			if got != c.want {
				t.Errorf("name = %q, want %q", got, c.want)
			}
		})
	}
}
