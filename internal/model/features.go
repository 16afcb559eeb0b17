package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Feature describes one entry of the app-feature catalog. A version declares
// the features it requires; reviewers use the profile to match test devices.
type Feature struct {
	Key         string
	Name        string
	Description string
}

// AppFeatureCatalog is the fixed set of boolean app features a version can
// declare. Keys are stable identifiers used in storage and diff messages.
var AppFeatureCatalog = []Feature{
	{"apps", "Apps", "The app requires the ability to install and manage other apps."},
	{"audio", "Audio", "The app plays or records audio."},
	{"battery", "Battery", "The app reads battery status."},
	{"bluetooth", "Bluetooth", "The app communicates with Bluetooth devices."},
	{"camera", "Camera", "The app captures photos or video."},
	{"contacts", "Contacts", "The app reads or writes the address book."},
	{"device_storage", "Device Storage", "The app reads or writes shared device storage."},
	{"fullscreen", "Fullscreen", "The app uses the fullscreen API."},
	{"geolocation", "Geolocation", "The app reads the device location."},
	{"network_info", "Network Info", "The app reads network connection details."},
	{"notification", "Notifications", "The app posts system notifications."},
	{"push", "Push", "The app receives push messages."},
	{"sms", "SMS", "The app sends or receives SMS messages."},
	{"video", "Video", "The app plays or records video."},
	{"webrtc", "WebRTC", "The app uses real-time communication APIs."},
}

var featureNames = func() map[string]string {
	m := make(map[string]string, len(AppFeatureCatalog))
	for _, f := range AppFeatureCatalog {
		m[f.Key] = f.Name
	}
	return m
}()

// KnownFeature reports whether key is part of the catalog.
func KnownFeature(key string) bool {
	_, ok := featureNames[key]
	return ok
}

// FeatureName returns the human-readable name for a catalog key.
func FeatureName(key string) string {
	return featureNames[key]
}

// FeatureSet is the set of features a version declares, stored as JSON.
type FeatureSet map[string]bool

// Keys returns the sorted keys of the enabled features.
func (s FeatureSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k, on := range s {
		if on {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Names returns the sorted human-readable names of the enabled features.
func (s FeatureSet) Names() []string {
	keys := s.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = FeatureName(k)
	}
	return names
}

func (s FeatureSet) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *FeatureSet) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*s = FeatureSet{}
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into FeatureSet", src)
	}
	if len(data) == 0 {
		*s = FeatureSet{}
		return nil
	}
	return json.Unmarshal(data, s)
}

// FeatureProfile is the stored feature set of a version.
type FeatureProfile struct {
	ID        string     `db:"id"`
	VersionID string     `db:"version_id"`
	Features  FeatureSet `db:"features"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}
