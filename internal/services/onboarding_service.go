package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/common"
	"github.com/Bernardstanislas/secretariat/internal/logging"
	"github.com/Bernardstanislas/secretariat/internal/metrics"
)

// UserStore records the personal email of onboarded members.
type UserStore interface {
	UpsertSecondaryEmail(ctx context.Context, username string, email string) error
}

// ReferentResolver finds the address of a referent.
type ReferentResolver interface {
	ReferentEmail(ctx context.Context, referent string) (string, error)
}

// ProfilePublisher publishes a rendered profile.
type ProfilePublisher interface {
	Publish(ctx context.Context, req PublishRequest) (*PublishResult, error)
}

type OnboardingResult struct {
	Username       string
	PullRequestNum int
	PullRequestURL string
}

// OnboardingService turns a submitted form into a profile pull request.
type OnboardingService struct {
	publisher ProfilePublisher
	referents ReferentResolver
	users     UserStore
	mailer    common.Mailer
	metrics   *metrics.MetricsRegistry
	minStart  time.Time
	baseURL   string
}

func NewOnboardingService(
	publisher ProfilePublisher,
	referents ReferentResolver,
	users UserStore,
	mailer common.Mailer,
	metricsReg *metrics.MetricsRegistry,
	minStart time.Time,
	baseURL string,
) *OnboardingService {
	return &OnboardingService{
		publisher: publisher,
		referents: referents,
		users:     users,
		mailer:    mailer,
		metrics:   metricsReg,
		minStart:  minStart,
		baseURL:   baseURL,
	}
}

// MinStart is the earliest accepted mission start.
func (s *OnboardingService) MinStart() time.Time {
	return s.minStart
}

// Submit validates in, publishes the profile, notifies the referent and
// records the personal email. Errors are *ValidationError,
// *DuplicateProfileError, *PublishError or a storage error.
func (s *OnboardingService) Submit(ctx context.Context, in FormInput) (*OnboardingResult, error) {
	sub, err := ValidateForm(in, s.minStart)
	if err != nil {
		return nil, err
	}

	username := CreateUsername(sub.FirstName, sub.LastName)
	content, err := RenderAuthorProfile(sub)
	if err != nil {
		return nil, &PublishError{Username: username, Err: err}
	}

	start := time.Now()
	res, err := s.publisher.Publish(ctx, PublishRequest{
		Username: username,
		Content:  content,
		Referent: sub.Referent,
	})
	s.observePublish(time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if sub.Referent != "" && res.PullRequest.HTMLURL != "" {
		s.notifyReferent(ctx, sub, username, res.PullRequest.HTMLURL)
	}

	if err := s.users.UpsertSecondaryEmail(ctx, username, sub.Email); err != nil {
		return nil, fmt.Errorf("record secondary email for %s: %w", username, err)
	}

	return &OnboardingResult{
		Username:       username,
		PullRequestNum: res.PullRequest.Number,
		PullRequestURL: res.PullRequest.HTMLURL,
	}, nil
}

// notifyReferent never fails the onboarding.
func (s *OnboardingService) notifyReferent(ctx context.Context, sub *FormSubmission, username string, prURL string) {
	email, err := s.referents.ReferentEmail(ctx, sub.Referent)
	if err != nil {
		logging.Warn("Referent email not found", "referent", sub.Referent, "error", err)
		return
	}

	html, err := renderMail(referentMailTemplate, map[string]string{
		"Referent": sub.Referent,
		"Name":     sub.Fullname(),
		"PRURL":    prURL,
		"UserURL":  s.baseURL + "/community/" + username,
	})
	if err != nil {
		logging.Error("Failed to render referent mail", "error", err)
		return
	}

	subject := fmt.Sprintf("%s vient de créer sa fiche Github", sub.Fullname())
	if err := s.mailer.Send(ctx, []string{email}, subject, html); err != nil {
		logging.Error("Failed to notify referent", "referent", sub.Referent, "error", err)
		s.countMail(metrics.ResultError)
		return
	}
	s.countMail(metrics.ResultSuccess)
}

func (s *OnboardingService) observePublish(d time.Duration, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.PublishDuration.Observe(d.Seconds())

	var dup *DuplicateProfileError
	switch {
	case err == nil:
		s.metrics.OnboardingPublishTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	case errors.As(err, &dup):
		s.metrics.OnboardingPublishTotal.WithLabelValues(metrics.ResultDuplicate).Inc()
	default:
		s.metrics.OnboardingPublishTotal.WithLabelValues(metrics.ResultError).Inc()
	}
}

func (s *OnboardingService) countMail(result string) {
	if s.metrics != nil {
		s.metrics.MailSentTotal.WithLabelValues("referent", result).Inc()
	}
}
