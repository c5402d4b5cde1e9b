package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/common"
	"github.com/Bernardstanislas/secretariat/internal/db/repositories"
	"github.com/Bernardstanislas/secretariat/internal/logging"
	"github.com/Bernardstanislas/secretariat/internal/metrics"
	"github.com/Bernardstanislas/secretariat/internal/models/entities"
)

const loginTokenBytes = 64

// LoginTokenStore persists single-use login tokens.
type LoginTokenStore interface {
	Create(ctx context.Context, t *entities.LoginToken) error
	// Consume atomically deletes and returns an unexpired token.
	Consume(ctx context.Context, token string, now time.Time) (*entities.LoginToken, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// IdentityResolver maps a login email to a member username.
type IdentityResolver interface {
	ResolveLogin(ctx context.Context, email string) (string, error)
}

// LoginService issues and redeems passwordless login links.
type LoginService struct {
	tokens     LoginTokenStore
	identities IdentityResolver
	mailer     common.Mailer
	metrics    *metrics.MetricsRegistry
	ttl        time.Duration
	baseURL    string

	now      func() time.Time
	newToken func() (string, error)
}

func NewLoginService(
	tokens LoginTokenStore,
	identities IdentityResolver,
	mailer common.Mailer,
	metricsReg *metrics.MetricsRegistry,
	ttl time.Duration,
	baseURL string,
) *LoginService {
	return &LoginService{
		tokens:     tokens,
		identities: identities,
		mailer:     mailer,
		metrics:    metricsReg,
		ttl:        ttl,
		baseURL:    strings.TrimRight(baseURL, "/"),
		now:        time.Now,
		newToken:   randomToken,
	}
}

// TTL is how long an issued link stays valid.
func (s *LoginService) TTL() time.Duration {
	return s.ttl
}

func randomToken() (string, error) {
	b := make([]byte, loginTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate login token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// LoginURL is the link mailed for token.
func (s *LoginService) LoginURL(token string) string {
	return s.baseURL + "/users?token=" + url.QueryEscape(token)
}

// Issue emails a login link when email belongs to an active member.
// Unknown addresses and mail failures return nil so the caller answers the
// same way whether or not the address is known. Only a malformed address
// yields ErrInvalidEmail.
func (s *LoginService) Issue(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	username, err := s.identities.ResolveLogin(ctx, email)
	if errors.Is(err, ErrMemberNotFound) {
		logging.Info("Login requested for unknown address")
		s.countToken(metrics.EventRejected)
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve login: %w", err)
	}

	now := s.now()
	if n, err := s.tokens.PurgeExpired(ctx, now); err != nil {
		logging.Warn("Failed to purge expired login tokens", "error", err)
	} else if n > 0 {
		logging.Debug("Purged expired login tokens", "count", n)
	}

	token, err := s.newToken()
	if err != nil {
		return err
	}
	if err := s.tokens.Create(ctx, &entities.LoginToken{
		Token:     token,
		Username:  username,
		Email:     email,
		ExpiresAt: now.Add(s.ttl),
	}); err != nil {
		return err
	}
	s.countToken(metrics.EventIssued)
	logging.Info("Login token issued", "username", username)

	html, err := renderMail(loginMailTemplate, map[string]string{
		"URL":      s.LoginURL(token),
		"Validity": FormatDuration(s.ttl),
	})
	if err != nil {
		return fmt.Errorf("render login mail: %w", err)
	}
	if err := s.mailer.Send(ctx, []string{email}, "Connexion au secrétariat", html); err != nil {
		logging.Error("Failed to send login mail", "username", username, "error", err)
		s.countMail("login", metrics.ResultError)
		return nil
	}
	s.countMail("login", metrics.ResultSuccess)
	return nil
}

// Redeem consumes token. ok is false for unknown, used or expired tokens,
// which are indistinguishable. Expired tokens are left in place.
func (s *LoginService) Redeem(ctx context.Context, token string) (username string, ok bool, err error) {
	if token == "" {
		s.countToken(metrics.EventRejected)
		return "", false, nil
	}

	t, err := s.tokens.Consume(ctx, token, s.now())
	if errors.Is(err, repositories.ErrTokenNotFound) {
		s.countToken(metrics.EventRejected)
		logging.Info("Login token rejected")
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	s.countToken(metrics.EventRedeemed)
	logging.Info("Login token redeemed", "username", t.Username)
	return t.Username, true, nil
}

func (s *LoginService) countToken(event string) {
	if s.metrics != nil {
		s.metrics.LoginTokensTotal.WithLabelValues(event).Inc()
	}
}

func (s *LoginService) countMail(kind string, result string) {
	if s.metrics != nil {
		s.metrics.MailSentTotal.WithLabelValues(kind, result).Inc()
	}
}

// FormatDuration renders d in French, e.g. "1 heure" or "30 minutes".
func FormatDuration(d time.Duration) string {
	plural := func(n int64, unit string) string {
		if n > 1 {
			return fmt.Sprintf("%d %ss", n, unit)
		}
		return fmt.Sprintf("%d %s", n, unit)
	}
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return plural(int64(d/(24*time.Hour)), "jour")
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int64(d/time.Hour), "heure")
	default:
		return plural(int64(d/time.Minute), "minute")
	}
}
