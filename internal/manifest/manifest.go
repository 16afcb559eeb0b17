// Package manifest parses and validates web-app manifests found inside
// packaged app archives.
package manifest

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// FileName is the manifest entry expected at the root of a package archive.
const FileName = "manifest.webapp"

var (
	ErrNoManifest = errors.New("package does not contain a manifest")
)

// Developer identifies the app author as declared in the manifest.
type Developer struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Manifest is the subset of the web-app manifest the submission flow reads.
type Manifest struct {
	Name        string            `json:"name"`
	Version     string            `json:"version,omitempty"`
	Origin      string            `json:"origin,omitempty"`
	LaunchPath  string            `json:"launch_path,omitempty"`
	Type        string            `json:"type,omitempty"`
	Developer   *Developer        `json:"developer,omitempty"`
	Icons       map[string]string `json:"icons,omitempty"`
	Permissions map[string]any    `json:"permissions,omitempty"`
}

// Parse decodes and validates manifest bytes.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{}
	err := json.Unmarshal(data, m)
	if err != nil {
		return nil, fmt.Errorf("could not decode the webapp manifest file: %w", err)
	}

	err = m.Validate()
	if err != nil {
		return nil, err
	}

	return m, nil
}

// ParseArchive opens a zip package and parses the manifest at its root.
func ParseArchive(r io.ReaderAt, size int64) (*Manifest, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("invalid package archive: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != FileName {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("could not read the webapp manifest file: %w", err)
		}
		data, err := io.ReadAll(rc)
		closeErr := rc.Close()
		if err != nil {
			return nil, fmt.Errorf("could not read the webapp manifest file: %w", err)
		}
		if closeErr != nil {
			return nil, closeErr
		}

		return Parse(data)
	}

	return nil, ErrNoManifest
}

// Validate checks the fields the submission flow depends on.
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("manifest is missing the required name field")
	}

	if m.Origin != "" {
		err := validateOrigin(m.Origin)
		if err != nil {
			return err
		}
	}

	return nil
}

// validateOrigin accepts app: origins of the form app://host. The host part
// is what gets recorded as the listing's app domain.
func validateOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin %q: %w", origin, err)
	}

	if u.Scheme != "app" || u.Host == "" || u.Path != "" {
		return fmt.Errorf("origin %q must be of the form app://example.com", origin)
	}

	return nil
}
