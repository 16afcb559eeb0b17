package handler

import (
	"log/slog"
	"net/http"

	"github.com/appfair/marketplace/internal/ctxkeys"
	"github.com/appfair/marketplace/internal/form"
	"github.com/appfair/marketplace/internal/service"
	"github.com/appfair/marketplace/internal/validation"
)

type submitHandler struct {
	submissions    *service.SubmissionService
	maxPackageSize int64
}

func NewSubmitHandler(submissions *service.SubmissionService, maxPackageSize int64) *submitHandler {
	return &submitHandler{
		submissions:    submissions,
		maxPackageSize: maxPackageSize,
	}
}

// AcceptAgreement records developer agreement acceptance, optionally signing
// the developer up for the newsletter.
func (h *submitHandler) AcceptAgreement(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	f := &form.Agreement{}
	if !decodeJSON(w, r, f) {
		return
	}

	errs := f.Validate()
	if !errs.Empty() {
		respondFieldErrors(w, errs)
		return
	}

	err := h.submissions.AcceptAgreement(user, f)
	if err != nil {
		slog.Error("failed to accept agreement", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to record agreement")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"read_dev_agreement": user.ReadDevAgreement,
	})
}

// Upload accepts either a package archive (multipart field "upload") or a
// hosted manifest URL (form field "manifest_url") and returns the upload
// reference consumed by the new-app form.
func (h *submitHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := r.ParseMultipartForm(h.maxPackageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid upload request")
		return
	}

	if manifestURL := r.FormValue("manifest_url"); manifestURL != "" {
		upload, err := h.submissions.CreateManifestUpload(user.ID, manifestURL)
		if err != nil {
			respondFieldErrors(w, form.Errors{"manifest_url": {err.Error()}})
			return
		}
		respondJSON(w, http.StatusCreated, map[string]string{"upload": upload.ID})
		return
	}

	file, header, err := r.FormFile("upload")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing upload file")
		return
	}
	defer func() { _ = file.Close() }()

	err = validation.ValidateFile(header, validation.PackageConstraints)
	if err != nil {
		respondFieldErrors(w, form.Errors{"upload": {err.Error()}})
		return
	}

	upload, err := h.submissions.CreatePackageUpload(user.ID, header.Filename, file)
	if err != nil {
		slog.Error("failed to store upload", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"upload": upload.ID})
}

type newAppRequest struct {
	FreePlatforms []string `json:"free_platforms"`
	PaidPlatforms []string `json:"paid_platforms"`
	Upload        string   `json:"upload"`
	Packaged      bool     `json:"packaged"`
}

// NewApp runs the composite submission form and creates the listing with its
// first version.
func (h *submitHandler) NewApp(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	req := &newAppRequest{}
	if !decodeJSON(w, r, req) {
		return
	}

	platforms := &form.Platforms{
		FreePlatforms: req.FreePlatforms,
		PaidPlatforms: req.PaidPlatforms,
	}
	f := form.NewAppForm(platforms, req.Upload, req.Packaged, h.submissions.VersionDeps(), h.submissions.Flags())

	errs, err := f.Validate()
	if err != nil {
		slog.Error("failed to validate submission", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to validate submission")
		return
	}
	if !errs.Empty() {
		respondFieldErrors(w, errs)
		return
	}

	listing, version, err := h.submissions.CreateApp(user, f)
	if err == service.ErrAgreementNotAccepted {
		respondError(w, http.StatusForbidden, "You must accept the developer agreement first")
		return
	}
	if err != nil {
		slog.Error("failed to create app", "error", err, "user_id", user.ID)
		respondError(w, http.StatusInternalServerError, "Failed to create app")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"id":      listing.ID,
		"slug":    listing.Slug,
		"version": version.Version,
	})
}
