package ui

import (
	"context"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/auth"
	"github.com/Bernardstanislas/secretariat/internal/models/dtos"
	"github.com/Bernardstanislas/secretariat/internal/services"
)

// Directory lists the community members and startups.
type Directory interface {
	Members(ctx context.Context) ([]dtos.Member, error)
	Startups(ctx context.Context) ([]dtos.Startup, error)
	Member(ctx context.Context, username string) (*dtos.Member, error)
}

// Onboarder handles onboarding form submissions.
type Onboarder interface {
	Submit(ctx context.Context, in services.FormInput) (*services.OnboardingResult, error)
	MinStart() time.Time
}

// LoginFlow issues and redeems login links.
type LoginFlow interface {
	Issue(ctx context.Context, email string) error
	Redeem(ctx context.Context, token string) (string, bool, error)
	TTL() time.Duration
}

// PullRequestLinker builds the browser URL of a content pull request.
type PullRequestLinker interface {
	PullRequestURL(number int) string
}

// UIHandler serves the HTML pages
type UIHandler struct {
	directory  Directory
	onboarding Onboarder
	login      LoginFlow
	sessions   *auth.SessionManager

	pullRequests PullRequestLinker
	domain       string
	now          func() time.Time
}

// NewUIHandler creates a new UI handler
func NewUIHandler(
	directory Directory,
	onboarding Onboarder,
	login LoginFlow,
	sessions *auth.SessionManager,
	pullRequests PullRequestLinker,
	domain string,
) *UIHandler {
	return &UIHandler{
		directory:    directory,
		onboarding:   onboarding,
		login:        login,
		sessions:     sessions,
		pullRequests: pullRequests,
		domain:       domain,
		now:          time.Now,
	}
}
