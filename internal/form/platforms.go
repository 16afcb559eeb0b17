package form

import (
	"sort"
	"strings"

	"github.com/appfair/marketplace/internal/model"
)

// Platform selection error messages.
const (
	MsgBothFreeAndPaid   = "Cannot be free and paid."
	MsgNoPlatform        = "Please select a device."
	MsgPackagedPlatforms = "Packaged apps are not yet supported for those platforms."
	MsgInvalidPlatform   = "Select a valid choice."
)

// FlagChecker reports whether a named feature switch is active.
type FlagChecker interface {
	Active(name string) bool
}

// FreePlatformTokens and PaidPlatformTokens are the accepted platform
// choices. The part after the first hyphen maps to a device type.
var (
	FreePlatformTokens = []string{
		"free-firefoxos", "free-desktop", "free-android-mobile", "free-android-tablet",
	}
	PaidPlatformTokens = []string{
		"paid-firefoxos", "paid-android-mobile", "paid-android-tablet",
	}
)

// Platforms validates the mutually exclusive free/paid platform choices of a
// listing.
type Platforms struct {
	FreePlatforms []string `json:"free_platforms"`
	PaidPlatforms []string `json:"paid_platforms"`
}

// Validate checks free/paid exclusivity and token validity. Exclusivity
// errors land on both platform fields so either side can be highlighted.
func (f *Platforms) Validate() Errors {
	errs := Errors{}

	if len(f.FreePlatforms) > 0 && len(f.PaidPlatforms) > 0 {
		f.addPlatformError(errs, MsgBothFreeAndPaid)
		return errs
	}

	if len(f.FreePlatforms) == 0 && len(f.PaidPlatforms) == 0 {
		f.addPlatformError(errs, MsgNoPlatform)
		return errs
	}

	for _, t := range f.FreePlatforms {
		if !tokenAllowed(t, FreePlatformTokens) {
			errs.Add("free_platforms", MsgInvalidPlatform)
		}
	}
	for _, t := range f.PaidPlatforms {
		if !tokenAllowed(t, PaidPlatformTokens) {
			errs.Add("paid_platforms", MsgInvalidPlatform)
		}
	}

	return errs
}

// ValidatePackaged adds packaging-capability errors for platforms that do not
// support packaged submissions yet, gated by feature switches. Runs on the
// combined selection after Validate passed.
func (f *Platforms) ValidatePackaged(flags FlagChecker, errs Errors) {
	suffixes := f.platformSuffixes()

	badAndroid := !flags.Active(model.SwitchAndroidPackaged) &&
		(suffixes["android-mobile"] || suffixes["android-tablet"])
	badDesktop := !flags.Active(model.SwitchDesktopPackaged) && suffixes["desktop"]

	if badAndroid || badDesktop {
		f.addPlatformError(errs, MsgPackagedPlatforms)
	}
}

// IsPaid reports whether the paid platform set was selected.
func (f *Platforms) IsPaid() bool {
	return len(f.PaidPlatforms) > 0
}

// PremiumType returns the listing premium type implied by the selection.
// Only meaningful on first submission, not when modifying an existing app.
func (f *Platforms) PremiumType() string {
	if f.IsPaid() {
		return model.PremiumTypePremium
	}
	return model.PremiumTypeFree
}

// DeviceTypes maps the selected platform tokens to device types, using the
// paid set when paid was chosen. The result is sorted and deduplicated.
func (f *Platforms) DeviceTypes() []model.DeviceType {
	tokens := f.FreePlatforms
	if f.IsPaid() {
		tokens = f.PaidPlatforms
	}

	seen := map[model.DeviceType]bool{}
	var types []model.DeviceType
	for _, t := range tokens {
		dt, ok := model.DevicePlatforms[platformSuffix(t)]
		if !ok || seen[dt] {
			continue
		}
		seen[dt] = true
		types = append(types, dt)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// platformSuffixes returns the set of platform suffixes across both fields.
func (f *Platforms) platformSuffixes() map[string]bool {
	suffixes := map[string]bool{}
	for _, t := range append(append([]string{}, f.FreePlatforms...), f.PaidPlatforms...) {
		suffixes[platformSuffix(t)] = true
	}
	return suffixes
}

func (f *Platforms) addPlatformError(errs Errors, msg string) {
	errs.Add("free_platforms", msg)
	errs.Add("paid_platforms", msg)
}

// platformSuffix strips the free-/paid- prefix from a platform token.
func platformSuffix(token string) string {
	_, suffix, ok := strings.Cut(token, "-")
	if !ok {
		return token
	}
	return suffix
}

func tokenAllowed(token string, allowed []string) bool {
	for _, a := range allowed {
		if a == token {
			return true
		}
	}
	return false
}
