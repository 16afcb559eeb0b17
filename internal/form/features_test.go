package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeaturesValidate_KnownKeys(t *testing.T) {
	f := &Features{Features: []string{"camera", "geolocation", "push"}}

	errs := f.Validate()

	assert.True(t, errs.Empty())
	assert.Equal(t, []string{"camera", "geolocation", "push"}, f.Set().Keys())
}

func TestFeaturesValidate_UnknownKeyRejected(t *testing.T) {
	f := &Features{Features: []string{"camera", "teleport"}}

	errs := f.Validate()

	require.Len(t, errs.On("features"), 1)
	assert.Equal(t, "Select a valid choice. teleport is not one of the available choices.", errs.On("features")[0])
}

func TestFeaturesValidate_EmptySelectionAllowed(t *testing.T) {
	f := &Features{}

	errs := f.Validate()

	assert.True(t, errs.Empty())
	assert.Empty(t, f.Set().Keys())
}

func TestAgreementValidate(t *testing.T) {
	accepted := &Agreement{ReadDevAgreement: true, Newsletter: true}
	declined := &Agreement{}

	assert.True(t, accepted.Validate().Empty())
	assert.Equal(t, []string{MsgAgreementRequired}, declined.Validate().On("read_dev_agreement"))
}
