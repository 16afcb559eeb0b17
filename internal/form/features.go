package form

import (
	"fmt"

	"github.com/appfair/marketplace/internal/model"
)

// Features tracks the boolean feature flags declared for a version.
type Features struct {
	Features []string `json:"features"`
}

// Validate rejects feature keys outside the catalog.
func (f *Features) Validate() Errors {
	errs := Errors{}

	for _, key := range f.Features {
		if !model.KnownFeature(key) {
			errs.Add("features", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", key))
		}
	}

	return errs
}

// Set returns the submitted selection as a feature set.
func (f *Features) Set() model.FeatureSet {
	set := model.FeatureSet{}
	for _, key := range f.Features {
		set[key] = true
	}
	return set
}
