package validation

import (
	"errors"

	"golang.org/x/text/language"
)

// ValidateLocale checks that the tag is a well-formed BCP-47 locale.
func ValidateLocale(tag string) error {
	if tag == "" {
		return errors.New("locale is required")
	}

	_, err := language.Parse(tag)
	if err != nil {
		return errors.New("invalid locale tag")
	}

	return nil
}

// NormalizeLocale canonicalizes a BCP-47 tag, falling back to def when the
// tag cannot be parsed.
func NormalizeLocale(tag, def string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return def
	}
	return t.String()
}
