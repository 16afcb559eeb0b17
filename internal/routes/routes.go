package routes

import (
	"net/http"

	"github.com/appfair/marketplace/internal/app"
	"github.com/appfair/marketplace/internal/handler"
	"github.com/appfair/marketplace/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	submit := handler.NewSubmitHandler(app.SubmissionService, app.Cfg.MaxPackageSize)
	listing := handler.NewListingHandler(app.ListingRepository, app.VersionRepository, app.BlockedSlugRepository, app.SubmissionService)
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", health.Health)

	// Submission flow (rate limited)
	rateLimiter := middleware.RateLimitSubmission()

	mux.HandleFunc("POST /submit/agreement", rateLimiter(middleware.RequireAuth(submit.AcceptAgreement)))
	mux.HandleFunc("POST /submit/upload", rateLimiter(middleware.RequireAuth(submit.Upload)))
	mux.HandleFunc("POST /submit/app", rateLimiter(middleware.RequireAuth(submit.NewApp)))

	// Listing management
	mux.HandleFunc("PUT /apps/{id}/platforms", middleware.RequireAuth(listing.Platforms))
	mux.HandleFunc("PUT /apps/{id}/details", middleware.RequireAuth(listing.Details))
	mux.HandleFunc("PUT /apps/{id}/features", middleware.RequireAuth(listing.Features))

	// Global middleware
	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.Cfg.JWTSecret, app.UserRepository),
	)
}
