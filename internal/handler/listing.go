package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/appfair/marketplace/internal/ctxkeys"
	"github.com/appfair/marketplace/internal/form"
	"github.com/appfair/marketplace/internal/model"
	"github.com/appfair/marketplace/internal/repository"
	"github.com/appfair/marketplace/internal/service"
)

type listingHandler struct {
	listings     repository.ListingRepository
	versions     repository.VersionRepository
	blockedSlugs repository.BlockedSlugRepository
	submissions  *service.SubmissionService
}

func NewListingHandler(
	listings repository.ListingRepository,
	versions repository.VersionRepository,
	blockedSlugs repository.BlockedSlugRepository,
	submissions *service.SubmissionService,
) *listingHandler {
	return &listingHandler{
		listings:     listings,
		versions:     versions,
		blockedSlugs: blockedSlugs,
		submissions:  submissions,
	}
}

// ownedListing loads the listing from the path and enforces ownership.
// Responds with 404 on both missing and foreign listings.
func (h *listingHandler) ownedListing(w http.ResponseWriter, r *http.Request) *model.Listing {
	user := ctxkeys.User(r.Context())

	listing, err := h.listings.ByID(r.PathValue("id"))
	if errors.Is(err, repository.ErrListingNotFound) {
		respondError(w, http.StatusNotFound, "App not found")
		return nil
	}
	if err != nil {
		slog.Error("failed to load listing", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to load app")
		return nil
	}

	if listing.UserID != user.ID {
		respondError(w, http.StatusNotFound, "App not found")
		return nil
	}

	return listing
}

// Platforms saves the free/paid platform selection of a listing.
func (h *listingHandler) Platforms(w http.ResponseWriter, r *http.Request) {
	listing := h.ownedListing(w, r)
	if listing == nil {
		return
	}

	f := &form.Platforms{}
	if !decodeJSON(w, r, f) {
		return
	}

	errs := f.Validate()
	if !errs.Empty() {
		respondFieldErrors(w, errs)
		return
	}

	err := h.submissions.SaveDevices(listing, f)
	if err != nil {
		slog.Error("failed to save devices", "error", err, "listing_id", listing.ID)
		respondError(w, http.StatusInternalServerError, "Failed to save platforms")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"devices": f.DeviceTypes()})
}

// Details saves the editable app metadata.
func (h *listingHandler) Details(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	listing := h.ownedListing(w, r)
	if listing == nil {
		return
	}

	f := form.NewDetailsForm(listing, h.listings, h.blockedSlugs)
	if !decodeJSON(w, r, f) {
		return
	}

	errs, err := f.Validate()
	if err != nil {
		slog.Error("failed to validate details", "error", err, "listing_id", listing.ID)
		respondError(w, http.StatusInternalServerError, "Failed to validate details")
		return
	}
	if !errs.Empty() {
		respondFieldErrors(w, errs)
		return
	}

	err = h.submissions.SaveDetails(listing, f, user.ID)
	if err != nil {
		slog.Error("failed to save details", "error", err, "listing_id", listing.ID)
		respondError(w, http.StatusInternalServerError, "Failed to save details")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"slug": listing.Slug})
}

// Features saves the feature profile of the latest version.
func (h *listingHandler) Features(w http.ResponseWriter, r *http.Request) {
	listing := h.ownedListing(w, r)
	if listing == nil {
		return
	}

	f := &form.Features{}
	if !decodeJSON(w, r, f) {
		return
	}

	errs := f.Validate()
	if !errs.Empty() {
		respondFieldErrors(w, errs)
		return
	}

	version, err := h.versions.Latest(listing.ID)
	if errors.Is(err, repository.ErrVersionNotFound) {
		respondError(w, http.StatusConflict, "App has no version to attach features to")
		return
	}
	if err != nil {
		slog.Error("failed to load latest version", "error", err, "listing_id", listing.ID)
		respondError(w, http.StatusInternalServerError, "Failed to load version")
		return
	}

	err = h.submissions.SaveFeatures(version, f)
	if err != nil {
		slog.Error("failed to save features", "error", err, "listing_id", listing.ID)
		respondError(w, http.StatusInternalServerError, "Failed to save features")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"features": f.Set().Keys()})
}
