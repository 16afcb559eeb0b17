package service

import (
	"bytes"
	"io"
	"time"

	"github.com/appfair/marketplace/internal/model"
	"github.com/appfair/marketplace/internal/repository"
)

// In-memory repository fakes backing the service tests.

type fakeListingRepo struct {
	listings map[string]*model.Listing
	updated  []*model.Listing
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: map[string]*model.Listing{}}
}

func (r *fakeListingRepo) Create(l *model.Listing) error {
	r.listings[l.ID] = l
	return nil
}

func (r *fakeListingRepo) ByID(id string) (*model.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, repository.ErrListingNotFound
	}
	return l, nil
}

func (r *fakeListingRepo) BySlug(slug string) (*model.Listing, error) {
	for _, l := range r.listings {
		if l.Slug == slug {
			return l, nil
		}
	}
	return nil, repository.ErrListingNotFound
}

func (r *fakeListingRepo) Update(l *model.Listing) error {
	r.listings[l.ID] = l
	r.updated = append(r.updated, l)
	return nil
}

func (r *fakeListingRepo) SlugInUse(slug, excludeID string) (bool, error) {
	for _, l := range r.listings {
		if l.Slug == slug && l.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeListingRepo) DomainInUse(domain, excludeID string) (bool, error) {
	for _, l := range r.listings {
		if l.AppDomain != "" && l.AppDomain == domain && l.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type fakeDeviceRepo struct {
	devices map[string][]model.DeviceType
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{devices: map[string][]model.DeviceType{}}
}

func (r *fakeDeviceRepo) DeviceTypes(listingID string) ([]model.DeviceType, error) {
	return r.devices[listingID], nil
}

func (r *fakeDeviceRepo) Add(listingID string, d model.DeviceType) error {
	r.devices[listingID] = append(r.devices[listingID], d)
	return nil
}

func (r *fakeDeviceRepo) Remove(listingID string, d model.DeviceType) error {
	kept := r.devices[listingID][:0]
	for _, existing := range r.devices[listingID] {
		if existing != d {
			kept = append(kept, existing)
		}
	}
	r.devices[listingID] = kept
	return nil
}

type fakeVersionRepo struct {
	versions map[string]*model.Version
	flash    map[string]bool
}

func newFakeVersionRepo() *fakeVersionRepo {
	return &fakeVersionRepo{versions: map[string]*model.Version{}, flash: map[string]bool{}}
}

func (r *fakeVersionRepo) Create(v *model.Version) error {
	r.versions[v.ID] = v
	return nil
}

func (r *fakeVersionRepo) ByID(id string) (*model.Version, error) {
	v, ok := r.versions[id]
	if !ok {
		return nil, repository.ErrVersionNotFound
	}
	return v, nil
}

func (r *fakeVersionRepo) Latest(listingID string) (*model.Version, error) {
	var latest *model.Version
	for _, v := range r.versions {
		if v.ListingID != listingID {
			continue
		}
		if latest == nil || v.CreatedAt.After(latest.CreatedAt) {
			latest = v
		}
	}
	if latest == nil {
		return nil, repository.ErrVersionNotFound
	}
	return latest, nil
}

func (r *fakeVersionRepo) Exists(listingID, version string) (bool, error) {
	for _, v := range r.versions {
		if v.ListingID == listingID && v.Version == version {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeVersionRepo) SetUsesFlash(versionID string, usesFlash bool) error {
	r.flash[versionID] = usesFlash
	return nil
}

type fakeFeatureRepo struct {
	profiles map[string]*model.FeatureProfile // keyed by version ID
}

func newFakeFeatureRepo() *fakeFeatureRepo {
	return &fakeFeatureRepo{profiles: map[string]*model.FeatureProfile{}}
}

func (r *fakeFeatureRepo) ByVersionID(versionID string) (*model.FeatureProfile, error) {
	p, ok := r.profiles[versionID]
	if !ok {
		return nil, repository.ErrFeatureProfileNotFound
	}
	return p, nil
}

func (r *fakeFeatureRepo) Create(p *model.FeatureProfile) error {
	r.profiles[p.VersionID] = p
	return nil
}

func (r *fakeFeatureRepo) Update(p *model.FeatureProfile) error {
	r.profiles[p.VersionID] = p
	return nil
}

type fakeUploadRepo struct {
	uploads map[string]*model.Upload
}

func newFakeUploadRepo() *fakeUploadRepo {
	return &fakeUploadRepo{uploads: map[string]*model.Upload{}}
}

func (r *fakeUploadRepo) Create(u *model.Upload) error {
	r.uploads[u.ID] = u
	return nil
}

func (r *fakeUploadRepo) Valid(id string) (*model.Upload, error) {
	u, ok := r.uploads[id]
	if !ok || !u.Valid || u.Consumed {
		return nil, repository.ErrUploadNotFound
	}
	return u, nil
}

func (r *fakeUploadRepo) Consume(id string) error {
	u, ok := r.uploads[id]
	if !ok {
		return repository.ErrUploadNotFound
	}
	u.Consumed = true
	return nil
}

type fakeNoteRepo struct {
	notes []*model.ReviewNote
}

func (r *fakeNoteRepo) Create(n *model.ReviewNote) error {
	r.notes = append(r.notes, n)
	return nil
}

func (r *fakeNoteRepo) ByListing(listingID string) ([]*model.ReviewNote, error) {
	var out []*model.ReviewNote
	for _, n := range r.notes {
		if n.ListingID == listingID {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct {
	enabled map[string]bool // userID + "/" + notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{enabled: map[string]bool{}}
}

func (r *fakeNotificationRepo) Upsert(userID, notification string, enabled bool) error {
	r.enabled[userID+"/"+notification] = enabled
	return nil
}

func (r *fakeNotificationRepo) ByUser(userID string) ([]*model.UserNotification, error) {
	return nil, nil
}

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) ByID(id string) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) ByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) SetReadDevAgreement(userID string, at time.Time) error {
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.ReadDevAgreement = &at
	return nil
}

type fakeBlockedSlugRepo struct {
	blocked map[string]bool
}

func (r *fakeBlockedSlugRepo) Blocked(slug string) (bool, error) {
	return r.blocked[slug], nil
}

type fakeRereviewRepo struct {
	entries []*model.RereviewEntry
}

func (r *fakeRereviewRepo) Create(e *model.RereviewEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeRereviewRepo) ByListing(listingID string) ([]*model.RereviewEntry, error) {
	var out []*model.RereviewEntry
	for _, e := range r.entries {
		if e.ListingID == listingID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeSwitchRepo struct {
	switches map[string]*model.Switch
}

func (r *fakeSwitchRepo) ByName(name string) (*model.Switch, error) {
	sw, ok := r.switches[name]
	if !ok {
		return nil, repository.ErrSwitchNotFound
	}
	return sw, nil
}

func (r *fakeSwitchRepo) Set(name string, active bool) error {
	if r.switches == nil {
		r.switches = map[string]*model.Switch{}
	}
	r.switches[name] = &model.Switch{Name: name, Active: active}
	return nil
}

// memStorage keeps package blobs in memory.
type memStorage struct {
	blobs map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{blobs: map[string][]byte{}}
}

func (s *memStorage) Save(key string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	s.blobs[key] = data
	return nil
}

func (s *memStorage) Get(key string) (io.ReadCloser, error) {
	data, ok := s.blobs[key]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStorage) Delete(key string) error {
	delete(s.blobs, key)
	return nil
}

func (s *memStorage) PresignedURL(key string, expiry time.Duration) (string, error) {
	return "https://storage.test/" + key, nil
}
