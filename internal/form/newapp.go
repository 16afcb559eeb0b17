package form

import (
	"github.com/appfair/marketplace/internal/model"
)

const MsgPaidSubmissionClosed = "Paid app submissions are not currently being accepted."

// NewApp is the composite "new app" submission form: platform selection plus
// upload validation, with packaging-capability gating.
type NewApp struct {
	Platforms *Platforms
	Upload    *Version
	Packaged  bool

	flags FlagChecker
}

// NewAppForm builds the composite form. deps drive the upload checks; flags
// gate paid submissions and packaged platform support.
func NewAppForm(platforms *Platforms, uploadID string, packaged bool, deps VersionDeps, flags FlagChecker) *NewApp {
	return &NewApp{
		Platforms: platforms,
		Upload:    NewVersionForm(uploadID, deps, nil, packaged),
		Packaged:  packaged,
		flags:     flags,
	}
}

// Validate runs platform validation first, then packaged-capability gating,
// then the upload checks. Packaged gating is skipped when the platform fields
// already carry errors.
func (f *NewApp) Validate() (Errors, error) {
	errs := f.Platforms.Validate()

	if !f.flags.Active(model.SwitchAllowPaidSubmission) && f.Platforms.IsPaid() {
		errs.Add("paid_platforms", MsgPaidSubmissionClosed)
	}

	if f.Packaged && len(errs.On("free_platforms")) == 0 && len(errs.On("paid_platforms")) == 0 {
		f.Platforms.ValidatePackaged(f.flags, errs)
	}

	if !errs.Empty() {
		return errs, nil
	}

	uploadErrs, err := f.Upload.Validate()
	if err != nil {
		return nil, err
	}
	for field, msgs := range uploadErrs {
		for _, msg := range msgs {
			errs.Add(field, msg)
		}
	}

	return errs, nil
}

// IsPaid reports whether the paid platform set was selected.
func (f *NewApp) IsPaid() bool {
	return f.Platforms.IsPaid()
}

// PremiumType returns the listing premium type implied by the selection.
func (f *NewApp) PremiumType() string {
	return f.Platforms.PremiumType()
}
