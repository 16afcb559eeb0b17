package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/appfair/marketplace/internal/form"
	"github.com/appfair/marketplace/internal/manifest"
	"github.com/appfair/marketplace/internal/model"
	"github.com/appfair/marketplace/internal/repository"
	"github.com/appfair/marketplace/internal/storage"
	"github.com/appfair/marketplace/internal/validation"
	"github.com/google/uuid"
)

var (
	ErrAgreementNotAccepted = errors.New("developer agreement not accepted")
)

// SubmissionService drives the developer submission workflow: agreement
// acceptance, app creation from an upload, and the per-step saves. Forms
// validate; this service persists and triggers the side effects.
type SubmissionService struct {
	listings      repository.ListingRepository
	devices       repository.DeviceRepository
	versions      repository.VersionRepository
	features      repository.FeatureRepository
	uploads       repository.UploadRepository
	notes         repository.NoteRepository
	notifications repository.NotificationRepository
	users         repository.UserRepository
	blockedSlugs  repository.BlockedSlugRepository
	rereview      *RereviewService
	newsletter    *NewsletterService
	flags         *FlagService
	storage       storage.Storage
	defaultLocale string
}

func NewSubmissionService(
	listings repository.ListingRepository,
	devices repository.DeviceRepository,
	versions repository.VersionRepository,
	features repository.FeatureRepository,
	uploads repository.UploadRepository,
	notes repository.NoteRepository,
	notifications repository.NotificationRepository,
	users repository.UserRepository,
	blockedSlugs repository.BlockedSlugRepository,
	rereview *RereviewService,
	newsletter *NewsletterService,
	flags *FlagService,
	store storage.Storage,
	defaultLocale string,
) *SubmissionService {
	return &SubmissionService{
		listings:      listings,
		devices:       devices,
		versions:      versions,
		features:      features,
		uploads:       uploads,
		notes:         notes,
		notifications: notifications,
		users:         users,
		blockedSlugs:  blockedSlugs,
		rereview:      rereview,
		newsletter:    newsletter,
		flags:         flags,
		storage:       store,
		defaultLocale: defaultLocale,
	}
}

// Flags exposes the switch checker used by the composite new-app form.
func (s *SubmissionService) Flags() form.FlagChecker {
	return s.flags
}

// VersionDeps wires the upload-validation collaborators into a form.
func (s *SubmissionService) VersionDeps() form.VersionDeps {
	return form.VersionDeps{
		Uploads:  s.uploads,
		Versions: s.versions,
		Listings: s.listings,
		Packages: s,
	}
}

// Manifest fetches the stored package archive of an upload and parses its
// manifest. Implements form.PackageOpener.
func (s *SubmissionService) Manifest(upload *model.Upload) (*manifest.Manifest, error) {
	rc, err := s.storage.Get(upload.Path)
	if err != nil {
		slog.Error("failed to fetch package from storage", "error", err, "upload_id", upload.ID)
		return nil, errors.New("could not read the uploaded package")
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.New("could not read the uploaded package")
	}

	return manifest.ParseArchive(bytes.NewReader(data), int64(len(data)))
}

// AcceptAgreement records the developer agreement acceptance timestamp and
// optionally registers the newsletter subscription.
func (s *SubmissionService) AcceptAgreement(user *model.User, f *form.Agreement) error {
	now := time.Now()
	err := s.users.SetReadDevAgreement(user.ID, now)
	if err != nil {
		return fmt.Errorf("failed to record agreement acceptance: %w", err)
	}
	user.ReadDevAgreement = &now

	if !f.Newsletter {
		return nil
	}

	err = s.notifications.Upsert(user.ID, model.NotificationAppSurveys, true)
	if err != nil {
		return fmt.Errorf("failed to enable notification: %w", err)
	}

	lang := validation.NormalizeLocale(user.Locale, s.defaultLocale)
	return s.newsletter.SubscribeAppDev(user.Email, user.Region, lang)
}

// SaveDevices persists the platform selection of a validated form: added
// device types are inserted, removed ones deleted. Approved listings that
// gained a device are flagged for re-review with the full change set.
func (s *SubmissionService) SaveDevices(listing *model.Listing, f *form.Platforms) error {
	oldTypes, err := s.devices.DeviceTypes(listing.ID)
	if err != nil {
		return fmt.Errorf("failed to load device types: %w", err)
	}

	added, removed := diffDevices(oldTypes, f.DeviceTypes())

	for _, d := range added {
		err = s.devices.Add(listing.ID, d)
		if err != nil {
			return fmt.Errorf("failed to add device type: %w", err)
		}
	}
	for _, d := range removed {
		err = s.devices.Remove(listing.ID, d)
		if err != nil {
			return fmt.Errorf("failed to remove device type: %w", err)
		}
	}

	// Send the app to the re-review queue if it is already approved and new
	// devices were added.
	if len(added) > 0 && listing.IsApproved() {
		return s.rereview.MarkDevicesChanged(listing, added, removed)
	}

	return nil
}

// CreateApp creates a listing with its first version from a validated
// composite form. The upload is consumed so it cannot back a second listing.
func (s *SubmissionService) CreateApp(user *model.User, f *form.NewApp) (*model.Listing, *model.Version, error) {
	if !user.HasAcceptedAgreement() {
		return nil, nil, ErrAgreementNotAccepted
	}

	upload := f.Upload.Upload()
	mf := f.Upload.Manifest()

	name := upload.Name
	versionString := "1.0"
	if mf != nil {
		name = mf.Name
		if mf.Version != "" {
			versionString = mf.Version
		}
	}

	slug, err := s.uniqueSlug(name)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	listing := &model.Listing{
		ID:            uuid.New().String(),
		UserID:        user.ID,
		Slug:          slug,
		Name:          name,
		Status:        model.StatusIncomplete,
		PremiumType:   f.PremiumType(),
		PublishType:   model.PublishImmediate,
		IsPackaged:    f.Packaged,
		AppDomain:     f.Upload.Domain(),
		DefaultLocale: s.defaultLocale,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.listings.Create(listing)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listing: %w", err)
	}

	for _, d := range f.Platforms.DeviceTypes() {
		err = s.devices.Add(listing.ID, d)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to add device type: %w", err)
		}
	}

	version := &model.Version{
		ID:          uuid.New().String(),
		ListingID:   listing.ID,
		Version:     versionString,
		PackagePath: upload.Path,
		CreatedAt:   now,
	}
	err = s.versions.Create(version)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create version: %w", err)
	}

	err = s.features.Create(&model.FeatureProfile{
		ID:        uuid.New().String(),
		VersionID: version.ID,
		Features:  model.FeatureSet{},
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create feature profile: %w", err)
	}

	err = s.uploads.Consume(upload.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to consume upload: %w", err)
	}

	slog.Info("app submitted", "listing_id", listing.ID, "slug", listing.Slug, "packaged", f.Packaged)
	return listing, version, nil
}

// SaveDetails applies a validated details form to the listing, copies the
// flash flag onto the latest version and records the reviewer note.
func (s *SubmissionService) SaveDetails(listing *model.Listing, f *form.Details, userID string) error {
	listing.Slug = f.NormalizedSlug()
	listing.Description = f.Description
	listing.PrivacyPolicy = f.PrivacyPolicy
	listing.Homepage = f.Homepage
	listing.SupportURL = f.SupportURL
	listing.SupportEmail = f.SupportEmail
	listing.PublishType = f.PublishType
	listing.UpdatedAt = time.Now()

	err := s.listings.Update(listing)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}

	latest, err := s.versions.Latest(listing.ID)
	if errors.Is(err, repository.ErrVersionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load latest version: %w", err)
	}

	err = s.versions.SetUsesFlash(latest.ID, f.Flash)
	if err != nil {
		return fmt.Errorf("failed to set flash flag: %w", err)
	}

	if strings.TrimSpace(f.Notes) != "" {
		err = s.notes.Create(&model.ReviewNote{
			ID:        uuid.New().String(),
			ListingID: listing.ID,
			VersionID: latest.ID,
			UserID:    userID,
			NoteType:  model.NoteTypeSubmission,
			Body:      f.Notes,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to create reviewer note: %w", err)
		}
	}

	return nil
}

// SaveFeatures replaces the feature profile of a version. When the owning
// listing is approved and the profile changed, one re-review entry is
// appended enumerating the change; an unchanged resubmission flags nothing.
func (s *SubmissionService) SaveFeatures(version *model.Version, f *form.Features) error {
	newSet := f.Set()

	profile, err := s.features.ByVersionID(version.ID)
	if errors.Is(err, repository.ErrFeatureProfileNotFound) {
		now := time.Now()
		profile = &model.FeatureProfile{
			ID:        uuid.New().String(),
			VersionID: version.ID,
			Features:  newSet,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err = s.features.Create(profile)
		if err != nil {
			return fmt.Errorf("failed to create feature profile: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load feature profile: %w", err)
	}

	oldKeys := profile.Features.Keys()
	profile.Features = newSet
	err = s.features.Update(profile)
	if err != nil {
		return fmt.Errorf("failed to update feature profile: %w", err)
	}

	added, removed := diffKeys(oldKeys, newSet.Keys())
	if len(added) == 0 && len(removed) == 0 {
		return nil
	}

	listing, err := s.listings.ByID(version.ListingID)
	if err != nil {
		return fmt.Errorf("failed to load listing: %w", err)
	}

	if listing.IsApproved() {
		return s.rereview.MarkFeaturesChanged(listing, names(added), names(removed))
	}

	return nil
}

// CreatePackageUpload stores a package archive and records the upload
// reference the submission forms consume.
func (s *SubmissionService) CreatePackageUpload(userID, filename string, file io.Reader) (*model.Upload, error) {
	id := uuid.New().String()
	key := fmt.Sprintf("packages/%s/%s", userID, id+".zip")

	err := s.storage.Save(key, file)
	if err != nil {
		return nil, fmt.Errorf("failed to store package: %w", err)
	}

	upload := &model.Upload{
		ID:        id,
		UserID:    userID,
		Name:      filename,
		Path:      key,
		Valid:     true,
		CreatedAt: time.Now(),
	}

	err = s.uploads.Create(upload)
	if err != nil {
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}

	return upload, nil
}

// CreateManifestUpload records a hosted-app upload whose name is the
// manifest URL.
func (s *SubmissionService) CreateManifestUpload(userID, manifestURL string) (*model.Upload, error) {
	_, err := validation.DomainFromURL(manifestURL)
	if err != nil {
		return nil, err
	}

	upload := &model.Upload{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      strings.TrimSpace(manifestURL),
		Valid:     true,
		CreatedAt: time.Now(),
	}

	err = s.uploads.Create(upload)
	if err != nil {
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}

	return upload, nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9-]+`)

// uniqueSlug derives a listing slug from the app name, appending a short
// suffix on collision.
func (s *SubmissionService) uniqueSlug(name string) (string, error) {
	slug := slugStrip.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 24 {
		slug = slug[:24]
	}
	if slug == "" {
		slug = "app"
	}

	inUse, err := s.listings.SlugInUse(slug, "")
	if err != nil {
		return "", fmt.Errorf("failed to check slug: %w", err)
	}
	blocked, err := s.blockedSlugs.Blocked(slug)
	if err != nil {
		return "", fmt.Errorf("failed to check slug blocklist: %w", err)
	}

	if inUse || blocked {
		slug = slug + "-" + uuid.New().String()[:5]
	}

	return slug, nil
}

// diffDevices returns the device types added and removed between two
// selections, sorted for stable re-review messages.
func diffDevices(old, updated []model.DeviceType) (added, removed []model.DeviceType) {
	oldSet := map[model.DeviceType]bool{}
	for _, d := range old {
		oldSet[d] = true
	}
	newSet := map[model.DeviceType]bool{}
	for _, d := range updated {
		newSet[d] = true
	}

	for d := range newSet {
		if !oldSet[d] {
			added = append(added, d)
		}
	}
	for d := range oldSet {
		if !newSet[d] {
			removed = append(removed, d)
		}
	}

	sort.Slice(added, func(i, j int) bool { return added[i] < added[j] })
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	return added, removed
}

// diffKeys returns the keys added and removed between two sorted key lists.
func diffKeys(old, updated []string) (added, removed []string) {
	oldSet := map[string]bool{}
	for _, k := range old {
		oldSet[k] = true
	}
	newSet := map[string]bool{}
	for _, k := range updated {
		newSet[k] = true
	}

	for _, k := range updated {
		if !oldSet[k] {
			added = append(added, k)
		}
	}
	for _, k := range old {
		if !newSet[k] {
			removed = append(removed, k)
		}
	}

	return added, removed
}

func names(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = model.FeatureName(k)
	}
	return out
}
