package form

import (
	"errors"
	"fmt"

	"github.com/appfair/marketplace/internal/manifest"
	"github.com/appfair/marketplace/internal/model"
	"github.com/appfair/marketplace/internal/repository"
	"github.com/appfair/marketplace/internal/validation"
)

// Upload validation error messages.
const (
	MsgUploadError   = "There was an error with your upload. Please try again."
	MsgDomainInUse   = "This domain is already being used by another app."
	MsgOriginChanged = `Changes to "origin" are not allowed.`
)

// UploadGetter resolves a valid, unconsumed upload reference.
type UploadGetter interface {
	Valid(id string) (*model.Upload, error)
}

// VersionChecker reports whether a version string exists on a listing.
type VersionChecker interface {
	Exists(listingID, version string) (bool, error)
}

// DomainChecker reports whether an app domain is used by another listing.
type DomainChecker interface {
	DomainInUse(domain, excludeID string) (bool, error)
}

// PackageOpener parses the manifest from a stored package archive.
type PackageOpener interface {
	Manifest(upload *model.Upload) (*manifest.Manifest, error)
}

// VersionDeps are the collaborators a Version form needs to validate an
// upload against existing state.
type VersionDeps struct {
	Uploads  UploadGetter
	Versions VersionChecker
	Listings DomainChecker
	Packages PackageOpener
}

// Version validates an uploaded package reference for a new version,
// branching on packaged vs. hosted app type.
type Version struct {
	UploadID string `json:"upload"`

	deps     VersionDeps
	listing  *model.Listing // nil when submitting a brand-new app
	packaged bool

	upload *model.Upload
	mf     *manifest.Manifest
	domain string
}

// NewVersionForm builds a Version form. listing is nil for the new-app flow.
func NewVersionForm(uploadID string, deps VersionDeps, listing *model.Listing, packaged bool) *Version {
	return &Version{
		UploadID: uploadID,
		deps:     deps,
		listing:  listing,
		packaged: packaged,
	}
}

// Packaged reports which validation branch the form takes.
func (f *Version) Packaged() bool {
	return f.packaged
}

// Upload returns the resolved upload after a successful Validate.
func (f *Version) Upload() *model.Upload {
	return f.upload
}

// Manifest returns the parsed package manifest after a successful packaged
// Validate; nil for hosted apps.
func (f *Version) Manifest() *manifest.Manifest {
	return f.mf
}

// Domain returns the normalized app domain derived from the upload.
func (f *Version) Domain() string {
	return f.domain
}

// Validate resolves the upload and runs the packaged or hosted checks.
// Packaged validation collects all errors so they can be displayed at once.
// The returned error is reserved for infrastructure failures.
func (f *Version) Validate() (Errors, error) {
	errs := Errors{}

	upload, err := f.deps.Uploads.Valid(f.UploadID)
	if errors.Is(err, repository.ErrUploadNotFound) {
		errs.Add("upload", MsgUploadError)
		return errs, nil
	}
	if err != nil {
		return nil, err
	}
	f.upload = upload

	if f.packaged {
		err = f.validatePackaged(errs)
	} else {
		err = f.validateHosted(errs)
	}
	if err != nil {
		return nil, err
	}

	return errs, nil
}

func (f *Version) validatePackaged(errs Errors) error {
	mf, err := f.deps.Packages.Manifest(f.upload)
	if err != nil {
		errs.Add("upload", err.Error())
		return nil
	}
	f.mf = mf

	excludeID := ""
	if f.listing != nil {
		excludeID = f.listing.ID
	}

	if mf.Version != "" && f.listing != nil {
		exists, err := f.deps.Versions.Exists(f.listing.ID, mf.Version)
		if err != nil {
			return err
		}
		if exists {
			errs.Add("upload", fmt.Sprintf("Version %s already exists.", mf.Version))
		}
	}

	if mf.Origin != "" {
		domain, err := validation.DomainFromOrigin(mf.Origin)
		if err != nil {
			errs.Add("upload", err.Error())
			return nil
		}
		f.domain = domain

		inUse, err := f.deps.Listings.DomainInUse(domain, excludeID)
		if err != nil {
			return err
		}
		if inUse {
			errs.Add("upload", MsgDomainInUse)
		}

		// The declared origin of an existing packaged listing is immutable.
		if f.listing != nil && f.listing.AppDomain != "" && domain != f.listing.AppDomain {
			errs.Add("upload", MsgOriginChanged)
		}
	}

	return nil
}

func (f *Version) validateHosted(errs Errors) error {
	// Hosted apps carry the manifest URL as the upload name.
	domain, err := validation.DomainFromURL(f.upload.Name)
	if err != nil {
		errs.Add("upload", err.Error())
		return nil
	}
	f.domain = domain

	excludeID := ""
	if f.listing != nil {
		excludeID = f.listing.ID
	}

	inUse, err := f.deps.Listings.DomainInUse(domain, excludeID)
	if err != nil {
		return err
	}
	if inUse {
		errs.Add("upload", MsgDomainInUse)
	}

	return nil
}
