package validation

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL checks for an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("enter a valid URL")
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("enter a valid URL")
	}

	return nil
}

// DomainFromURL extracts the normalized scheme://host domain of a manifest
// URL. Hosted apps are keyed by this domain for uniqueness checks.
func DomainFromURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", errors.New("enter a valid URL")
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", errors.New("enter a valid URL")
	}

	return fmt.Sprintf("%s://%s", strings.ToLower(u.Scheme), strings.ToLower(u.Host)), nil
}

// DomainFromOrigin extracts the app://host domain of a packaged app origin.
func DomainFromOrigin(origin string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil || u.Scheme != "app" || u.Host == "" {
		return "", errors.New("enter a valid app origin")
	}

	return "app://" + strings.ToLower(u.Host), nil
}
