package validation

import (
	"errors"
	"regexp"
)

const maxSlugLength = 30

// slugPattern allows letters, digits, hyphens and underscores.
var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateSlug validates a listing slug.
func ValidateSlug(slug string) error {
	if slug == "" {
		return errors.New("slug is required")
	}

	if len(slug) > maxSlugLength {
		return errors.New("slug is too long (max 30 characters)")
	}

	if !slugPattern.MatchString(slug) {
		return errors.New("enter a valid slug consisting of letters, numbers, underscores or hyphens")
	}

	return nil
}
