package service

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/appfair/marketplace/internal/form"
	"github.com/appfair/marketplace/internal/manifest"
	"github.com/appfair/marketplace/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submissionFixture struct {
	svc           *SubmissionService
	listings      *fakeListingRepo
	devices       *fakeDeviceRepo
	versions      *fakeVersionRepo
	features      *fakeFeatureRepo
	uploads       *fakeUploadRepo
	notes         *fakeNoteRepo
	notifications *fakeNotificationRepo
	users         *fakeUserRepo
	rereviews     *fakeRereviewRepo
	storage       *memStorage
}

func newSubmissionFixture() *submissionFixture {
	f := &submissionFixture{
		listings:      newFakeListingRepo(),
		devices:       newFakeDeviceRepo(),
		versions:      newFakeVersionRepo(),
		features:      newFakeFeatureRepo(),
		uploads:       newFakeUploadRepo(),
		notes:         &fakeNoteRepo{},
		notifications: newFakeNotificationRepo(),
		users:         newFakeUserRepo(),
		rereviews:     &fakeRereviewRepo{},
		storage:       newMemStorage(),
	}

	f.svc = NewSubmissionService(
		f.listings,
		f.devices,
		f.versions,
		f.features,
		f.uploads,
		f.notes,
		f.notifications,
		f.users,
		&fakeBlockedSlugRepo{blocked: map[string]bool{"admin": true}},
		NewRereviewService(f.rereviews),
		NewNewsletterService("", "", "https://marketplace.test", true),
		NewFlagService(&fakeSwitchRepo{}, map[string]bool{}),
		f.storage,
		"en-US",
	)
	return f
}

func (f *submissionFixture) addUser(t *testing.T, accepted bool) *model.User {
	t.Helper()
	user := &model.User{ID: "user-1", Email: "dev@example.com", Region: "de", Locale: "de"}
	if accepted {
		at := time.Now().Add(-time.Hour)
		user.ReadDevAgreement = &at
	}
	require.NoError(t, f.users.Create(user))
	return user
}

func TestAcceptAgreement(t *testing.T) {
	fx := newSubmissionFixture()
	user := fx.addUser(t, false)

	err := fx.svc.AcceptAgreement(user, &form.Agreement{ReadDevAgreement: true})

	require.NoError(t, err)
	assert.True(t, user.HasAcceptedAgreement())
	assert.NotNil(t, fx.users.users["user-1"].ReadDevAgreement)
	assert.Empty(t, fx.notifications.enabled)
}

func TestAcceptAgreement_NewsletterOptIn(t *testing.T) {
	fx := newSubmissionFixture()
	user := fx.addUser(t, false)

	err := fx.svc.AcceptAgreement(user, &form.Agreement{ReadDevAgreement: true, Newsletter: true})

	require.NoError(t, err)
	assert.True(t, fx.notifications.enabled["user-1/"+model.NotificationAppSurveys])
}

func TestCreateApp_RequiresAgreement(t *testing.T) {
	fx := newSubmissionFixture()
	user := fx.addUser(t, false)
	f := fx.validatedNewApp(t, "My Test App")

	_, _, err := fx.svc.CreateApp(user, f)

	assert.ErrorIs(t, err, ErrAgreementNotAccepted)
}

func TestCreateApp(t *testing.T) {
	fx := newSubmissionFixture()
	user := fx.addUser(t, true)
	f := fx.validatedNewApp(t, "My Test App")

	listing, version, err := fx.svc.CreateApp(user, f)

	require.NoError(t, err)
	assert.Equal(t, "my-test-app", listing.Slug)
	assert.Equal(t, "My Test App", listing.Name)
	assert.Equal(t, model.StatusIncomplete, listing.Status)
	assert.Equal(t, model.PremiumTypeFree, listing.PremiumType)
	assert.True(t, listing.IsPackaged)
	assert.Equal(t, "app://app.example.com", listing.AppDomain)
	assert.Equal(t, "en-US", listing.DefaultLocale)

	assert.Equal(t, "2.0", version.Version)
	assert.Equal(t, listing.ID, version.ListingID)

	// Device rows from the platform selection, plus an empty feature profile.
	assert.Equal(t, []model.DeviceType{model.DeviceGaia}, fx.devices.devices[listing.ID])
	profile, ok := fx.features.profiles[version.ID]
	require.True(t, ok)
	assert.Empty(t, profile.Features.Keys())

	// A consumed upload cannot back a second submission.
	assert.True(t, fx.uploads.uploads["upload-1"].Consumed)
}

func TestCreateApp_SlugCollisionSuffixed(t *testing.T) {
	fx := newSubmissionFixture()
	user := fx.addUser(t, true)
	require.NoError(t, fx.listings.Create(&model.Listing{ID: "other", Slug: "my-test-app"}))

	f := fx.validatedNewApp(t, "My Test App")
	listing, _, err := fx.svc.CreateApp(user, f)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(listing.Slug, "my-test-app-"))
	assert.NotEqual(t, "my-test-app", listing.Slug)
}

// validatedNewApp seeds a stored package archive and returns a validated
// composite form for it.
func (f *submissionFixture) validatedNewApp(t *testing.T, appName string) *form.NewApp {
	t.Helper()

	archive := packageArchive(t, fmt.Sprintf(
		`{"name": %q, "version": "2.0", "origin": "app://app.example.com"}`, appName))
	require.NoError(t, f.storage.Save("packages/user-1/upload-1.zip", bytes.NewReader(archive)))
	require.NoError(t, f.uploads.Create(&model.Upload{
		ID:    "upload-1",
		Name:  "app.zip",
		Path:  "packages/user-1/upload-1.zip",
		Valid: true,
	}))

	nf := form.NewAppForm(
		&form.Platforms{FreePlatforms: []string{"free-firefoxos"}},
		"upload-1", true, f.svc.VersionDeps(), f.svc.Flags(),
	)
	errs, err := nf.Validate()
	require.NoError(t, err)
	require.True(t, errs.Empty())

	return nf
}

// packageArchive builds a zip holding the given manifest body.
func packageArchive(t *testing.T, manifestBody string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(manifest.FileName)
	require.NoError(t, err)
	_, err = w.Write([]byte(manifestBody))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestSaveDevices_AddedDeviceFlagsApprovedListing(t *testing.T) {
	fx := newSubmissionFixture()
	listing := &model.Listing{ID: "l1", Status: model.StatusPublic}
	require.NoError(t, fx.listings.Create(listing))
	require.NoError(t, fx.devices.Add("l1", model.DeviceDesktop))
	require.NoError(t, fx.devices.Add("l1", model.DeviceGaia))

	f := &form.Platforms{FreePlatforms: []string{"free-firefoxos", "free-android-tablet"}}
	require.True(t, f.Validate().Empty())

	err := fx.svc.SaveDevices(listing, f)

	require.NoError(t, err)
	assert.ElementsMatch(t, []model.DeviceType{model.DeviceGaia, model.DeviceTablet}, fx.devices.devices["l1"])

	require.Len(t, fx.rereviews.entries, 1)
	entry := fx.rereviews.entries[0]
	assert.Equal(t, model.RereviewReasonDevicesAdded, entry.Reason)
	assert.Equal(t, "Device(s) changed: Added Android Tablet, Removed Desktop", entry.Message)
}

func TestSaveDevices_RemovalAloneDoesNotFlag(t *testing.T) {
	fx := newSubmissionFixture()
	listing := &model.Listing{ID: "l1", Status: model.StatusPublic}
	require.NoError(t, fx.listings.Create(listing))
	require.NoError(t, fx.devices.Add("l1", model.DeviceDesktop))
	require.NoError(t, fx.devices.Add("l1", model.DeviceGaia))

	f := &form.Platforms{FreePlatforms: []string{"free-firefoxos"}}
	err := fx.svc.SaveDevices(listing, f)

	require.NoError(t, err)
	assert.Empty(t, fx.rereviews.entries)
}

func TestSaveDevices_UnapprovedListingNotFlagged(t *testing.T) {
	fx := newSubmissionFixture()
	listing := &model.Listing{ID: "l1", Status: model.StatusIncomplete}
	require.NoError(t, fx.listings.Create(listing))

	f := &form.Platforms{FreePlatforms: []string{"free-desktop"}}
	err := fx.svc.SaveDevices(listing, f)

	require.NoError(t, err)
	assert.Equal(t, []model.DeviceType{model.DeviceDesktop}, fx.devices.devices["l1"])
	assert.Empty(t, fx.rereviews.entries)
}

func TestSaveDetails(t *testing.T) {
	fx := newSubmissionFixture()
	listing := &model.Listing{ID: "l1", Slug: "my-app", DefaultLocale: "en-US"}
	require.NoError(t, fx.listings.Create(listing))
	require.NoError(t, fx.versions.Create(&model.Version{ID: "v1", ListingID: "l1", Version: "1.0"}))

	f := form.NewDetailsForm(listing, fx.listings, &fakeBlockedSlugRepo{})
	f.Slug = "My-App"
	f.Description = model.TranslatedString{"en-US": "Great app."}
	f.PrivacyPolicy = model.TranslatedString{"en-US": "None collected."}
	f.SupportEmail = model.TranslatedString{"en-US": "help@example.com"}
	f.PublishType = model.PublishPrivate
	f.Flash = true
	f.Notes = "Test account: demo / hunter2"

	errs, err := f.Validate()
	require.NoError(t, err)
	require.True(t, errs.Empty())

	err = fx.svc.SaveDetails(listing, f, "user-1")

	require.NoError(t, err)
	assert.Equal(t, "my-app", listing.Slug)
	assert.Equal(t, model.PublishPrivate, listing.PublishType)
	assert.True(t, fx.versions.flash["v1"])

	require.Len(t, fx.notes.notes, 1)
	note := fx.notes.notes[0]
	assert.Equal(t, model.NoteTypeSubmission, note.NoteType)
	assert.Equal(t, "v1", note.VersionID)
	assert.Equal(t, "Test account: demo / hunter2", note.Body)
}

func TestSaveDetails_NoNoteWhenEmpty(t *testing.T) {
	fx := newSubmissionFixture()
	listing := &model.Listing{ID: "l1", Slug: "my-app", DefaultLocale: "en-US"}
	require.NoError(t, fx.listings.Create(listing))
	require.NoError(t, fx.versions.Create(&model.Version{ID: "v1", ListingID: "l1"}))

	f := form.NewDetailsForm(listing, fx.listings, &fakeBlockedSlugRepo{})
	f.Slug = "my-app"
	f.Notes = "   "

	err := fx.svc.SaveDetails(listing, f, "user-1")

	require.NoError(t, err)
	assert.Empty(t, fx.notes.notes)
}

func TestSaveFeatures_ChangeFlagsApprovedListing(t *testing.T) {
	fx := newSubmissionFixture()
	listing := &model.Listing{ID: "l1", Status: model.StatusPublic}
	require.NoError(t, fx.listings.Create(listing))
	version := &model.Version{ID: "v1", ListingID: "l1"}
	require.NoError(t, fx.versions.Create(version))
	require.NoError(t, fx.features.Create(&model.FeatureProfile{
		ID: "p1", VersionID: "v1",
		Features: model.FeatureSet{"audio": true, "camera": true},
	}))

	f := &form.Features{Features: []string{"camera", "geolocation"}}
	require.True(t, f.Validate().Empty())

	err := fx.svc.SaveFeatures(version, f)

	require.NoError(t, err)
	assert.Equal(t, []string{"camera", "geolocation"}, fx.features.profiles["v1"].Features.Keys())

	require.Len(t, fx.rereviews.entries, 1)
	entry := fx.rereviews.entries[0]
	assert.Equal(t, model.RereviewReasonFeaturesChanged, entry.Reason)
	assert.Equal(t, "Requirements changed: Added Geolocation, Removed Audio", entry.Message)
}

func TestSaveFeatures_UnchangedSetNotFlagged(t *testing.T) {
	fx := newSubmissionFixture()
	listing := &model.Listing{ID: "l1", Status: model.StatusPublic}
	require.NoError(t, fx.listings.Create(listing))
	version := &model.Version{ID: "v1", ListingID: "l1"}
	require.NoError(t, fx.versions.Create(version))
	require.NoError(t, fx.features.Create(&model.FeatureProfile{
		ID: "p1", VersionID: "v1",
		Features: model.FeatureSet{"camera": true},
	}))

	err := fx.svc.SaveFeatures(version, &form.Features{Features: []string{"camera"}})

	require.NoError(t, err)
	assert.Empty(t, fx.rereviews.entries)
}

func TestSaveFeatures_UnapprovedListingNotFlagged(t *testing.T) {
	fx := newSubmissionFixture()
	listing := &model.Listing{ID: "l1", Status: model.StatusPending}
	require.NoError(t, fx.listings.Create(listing))
	version := &model.Version{ID: "v1", ListingID: "l1"}
	require.NoError(t, fx.versions.Create(version))
	require.NoError(t, fx.features.Create(&model.FeatureProfile{
		ID: "p1", VersionID: "v1", Features: model.FeatureSet{},
	}))

	err := fx.svc.SaveFeatures(version, &form.Features{Features: []string{"sms"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"sms"}, fx.features.profiles["v1"].Features.Keys())
	assert.Empty(t, fx.rereviews.entries)
}

func TestSaveFeatures_CreatesMissingProfile(t *testing.T) {
	fx := newSubmissionFixture()
	version := &model.Version{ID: "v1", ListingID: "l1"}
	require.NoError(t, fx.versions.Create(version))

	err := fx.svc.SaveFeatures(version, &form.Features{Features: []string{"push"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"push"}, fx.features.profiles["v1"].Features.Keys())
	assert.Empty(t, fx.rereviews.entries)
}

func TestCreatePackageUpload(t *testing.T) {
	fx := newSubmissionFixture()

	upload, err := fx.svc.CreatePackageUpload("user-1", "app.zip", strings.NewReader("zip-bytes"))

	require.NoError(t, err)
	assert.Equal(t, "app.zip", upload.Name)
	assert.True(t, upload.Valid)
	assert.True(t, strings.HasPrefix(upload.Path, "packages/user-1/"))
	assert.Equal(t, []byte("zip-bytes"), fx.storage.blobs[upload.Path])

	resolved, err := fx.uploads.Valid(upload.ID)
	require.NoError(t, err)
	assert.Equal(t, upload.ID, resolved.ID)
}

func TestCreateManifestUpload(t *testing.T) {
	fx := newSubmissionFixture()

	upload, err := fx.svc.CreateManifestUpload("user-1", "  https://app.example.com/manifest.webapp ")

	require.NoError(t, err)
	assert.Equal(t, "https://app.example.com/manifest.webapp", upload.Name)
	assert.Empty(t, upload.Path)
}

func TestCreateManifestUpload_InvalidURL(t *testing.T) {
	fx := newSubmissionFixture()

	_, err := fx.svc.CreateManifestUpload("user-1", "not a url")

	assert.Error(t, err)
}
