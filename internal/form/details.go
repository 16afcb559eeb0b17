package form

import (
	"fmt"
	"strings"

	"github.com/appfair/marketplace/internal/model"
	"github.com/appfair/marketplace/internal/validation"
)

// Details validation error messages.
const (
	MsgSlugInUse          = "This slug is already in use. Please choose another."
	MsgRequiredInDefault  = "This field is required in your default locale."
	MsgInvalidPublishType = "Select a valid publishing option."
)

// SlugChecker reports whether a slug is used by another listing.
type SlugChecker interface {
	SlugInUse(slug, excludeID string) (bool, error)
}

// BlocklistChecker reports whether a slug is on the blocklist.
type BlocklistChecker interface {
	Blocked(slug string) (bool, error)
}

// Details validates the editable app metadata of the "details" submission
// step.
type Details struct {
	Slug          string                 `json:"slug"`
	Description   model.TranslatedString `json:"description"`
	PrivacyPolicy model.TranslatedString `json:"privacy_policy"`
	Homepage      model.TranslatedString `json:"homepage"`
	SupportURL    model.TranslatedString `json:"support_url"`
	SupportEmail  model.TranslatedString `json:"support_email"`
	PublishType   string                 `json:"publish_type"`
	Flash         bool                   `json:"flash"`
	Notes         string                 `json:"notes"`

	listing  *model.Listing
	listings SlugChecker
	blocked  BlocklistChecker
}

// NewDetailsForm binds a Details form to the listing being edited.
func NewDetailsForm(listing *model.Listing, listings SlugChecker, blocked BlocklistChecker) *Details {
	return &Details{
		PublishType: model.PublishImmediate,
		listing:     listing,
		listings:    listings,
		blocked:     blocked,
	}
}

// NormalizedSlug returns the slug as stored: lowercased.
func (f *Details) NormalizedSlug() string {
	return strings.ToLower(f.Slug)
}

// Validate runs all field checks. The returned error is reserved for
// infrastructure failures.
func (f *Details) Validate() (Errors, error) {
	errs := Errors{}

	err := f.validateSlug(errs)
	if err != nil {
		return nil, err
	}

	f.validateTranslated(errs)
	f.validatePublishType(errs)

	return errs, nil
}

func (f *Details) validateSlug(errs Errors) error {
	err := validation.ValidateSlug(f.Slug)
	if err != nil {
		errs.Add("slug", err.Error())
		return nil
	}

	// Uniqueness and blocklist only apply when the slug actually changes.
	if f.Slug == f.listing.Slug {
		return nil
	}

	inUse, err := f.listings.SlugInUse(f.NormalizedSlug(), f.listing.ID)
	if err != nil {
		return err
	}
	if inUse {
		errs.Add("slug", MsgSlugInUse)
		return nil
	}

	blocked, err := f.blocked.Blocked(f.NormalizedSlug())
	if err != nil {
		return err
	}
	if blocked {
		errs.Add("slug", fmt.Sprintf("The slug cannot be %q. Please choose another.", f.Slug))
	}

	return nil
}

func (f *Details) validateTranslated(errs Errors) {
	locale := f.listing.DefaultLocale

	f.validateLocaleKeys(errs, "description", f.Description)
	f.validateLocaleKeys(errs, "privacy_policy", f.PrivacyPolicy)
	f.validateLocaleKeys(errs, "homepage", f.Homepage)
	f.validateLocaleKeys(errs, "support_url", f.SupportURL)
	f.validateLocaleKeys(errs, "support_email", f.SupportEmail)

	if strings.TrimSpace(f.Description.In(locale)) == "" {
		errs.Add("description", MsgRequiredInDefault)
	}
	if strings.TrimSpace(f.PrivacyPolicy.In(locale)) == "" {
		errs.Add("privacy_policy", MsgRequiredInDefault)
	}
	if strings.TrimSpace(f.SupportEmail.In(locale)) == "" {
		errs.Add("support_email", MsgRequiredInDefault)
	}

	for _, v := range f.SupportEmail {
		if v == "" {
			continue
		}
		err := validation.ValidateEmail(v)
		if err != nil {
			errs.Add("support_email", err.Error())
		}
	}

	for _, field := range []struct {
		name   string
		values model.TranslatedString
	}{
		{"homepage", f.Homepage},
		{"support_url", f.SupportURL},
	} {
		for _, v := range field.values {
			if v == "" {
				continue
			}
			err := validation.ValidateURL(v)
			if err != nil {
				errs.Add(field.name, err.Error())
			}
		}
	}
}

func (f *Details) validateLocaleKeys(errs Errors, field string, values model.TranslatedString) {
	for tag := range values {
		err := validation.ValidateLocale(tag)
		if err != nil {
			errs.Add(field, fmt.Sprintf("Invalid locale %q.", tag))
		}
	}
}

func (f *Details) validatePublishType(errs Errors) {
	switch f.PublishType {
	case model.PublishImmediate, model.PublishPrivate:
	default:
		errs.Add("publish_type", MsgInvalidPublishType)
	}
}
