package service

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/appfair/marketplace/internal/model"
	"github.com/appfair/marketplace/internal/repository"
	"github.com/google/uuid"
)

// RereviewService appends entries to the re-review queue when post-approval
// changes require another human review pass.
type RereviewService struct {
	repo repository.RereviewRepository
}

func NewRereviewService(repo repository.RereviewRepository) *RereviewService {
	return &RereviewService{repo: repo}
}

// Flag appends one entry for the listing.
func (s *RereviewService) Flag(listing *model.Listing, reason, message string) error {
	entry := &model.RereviewEntry{
		ID:        uuid.New().String(),
		ListingID: listing.ID,
		Reason:    reason,
		Message:   message,
		CreatedAt: time.Now(),
	}

	err := s.repo.Create(entry)
	if err != nil {
		return fmt.Errorf("failed to flag for re-review: %w", err)
	}

	slog.Info("listing flagged for re-review", "listing_id", listing.ID, "reason", reason)
	return nil
}

// MarkDevicesChanged flags a device-type change, enumerating the added and
// removed devices by name.
func (s *RereviewService) MarkDevicesChanged(listing *model.Listing, added, removed []model.DeviceType) error {
	var parts []string
	for _, d := range added {
		parts = append(parts, fmt.Sprintf("Added %s", d.Name()))
	}
	for _, d := range removed {
		parts = append(parts, fmt.Sprintf("Removed %s", d.Name()))
	}

	msg := fmt.Sprintf("Device(s) changed: %s", strings.Join(parts, ", "))
	return s.Flag(listing, model.RereviewReasonDevicesAdded, msg)
}

// MarkFeaturesChanged flags a feature-requirement change, enumerating the
// added and removed features by name.
func (s *RereviewService) MarkFeaturesChanged(listing *model.Listing, added, removed []string) error {
	var parts []string
	for _, f := range added {
		parts = append(parts, fmt.Sprintf("Added %s", f))
	}
	for _, f := range removed {
		parts = append(parts, fmt.Sprintf("Removed %s", f))
	}

	msg := fmt.Sprintf("Requirements changed: %s", strings.Join(parts, ", "))
	return s.Flag(listing, model.RereviewReasonFeaturesChanged, msg)
}
