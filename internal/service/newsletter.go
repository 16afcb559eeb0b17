package service

import (
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// Newsletter subscription format: HTML mail.
const newsletterFormatHTML = "H"

// NewsletterService registers developer newsletter subscriptions with the
// external mailing service.
type NewsletterService struct {
	client     *resend.Client
	audienceID string
	appURL     string
	isDev      bool
}

func NewNewsletterService(apiKey, audienceID, appURL string, isDev bool) *NewsletterService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &NewsletterService{
		client:     client,
		audienceID: audienceID,
		appURL:     appURL,
		isDev:      isDev,
	}
}

// SubscribeAppDev registers the developer for the app-dev newsletter,
// tagging the subscription with format, region, language and the submission
// flow as source.
func (s *NewsletterService) SubscribeAppDev(email, region, lang string) error {
	sourceURL := s.appURL + "/developers/submit"

	if s.isDev {
		slog.Info("newsletter subscription (dev mode)",
			"email", email, "format", newsletterFormatHTML,
			"country", region, "lang", lang, "source_url", sourceURL)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("newsletter service not configured (missing RESEND_API_KEY)")
	}

	if s.audienceID == "" {
		// If no audience ID is configured, just log and return
		slog.Warn("newsletter subscription requested but no audience configured", "email", email)
		return nil
	}

	params := &resend.CreateContactRequest{
		Email:      email,
		AudienceId: s.audienceID,
	}

	_, err := s.client.Contacts.Create(params)
	if err != nil {
		// Ignore errors to prevent email enumeration
		// This includes duplicates, invalid emails, or API issues
		slog.Warn("newsletter subscription failed", "error", err, "email", email)
		return nil
	}

	slog.Info("newsletter subscription successful",
		"email", email, "format", newsletterFormatHTML,
		"country", region, "lang", lang, "source_url", sourceURL)
	return nil
}
