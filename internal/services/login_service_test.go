package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/metrics"
	"github.com/Bernardstanislas/secretariat/internal/models/entities"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	known map[string]string
	err   error
}

func (s *stubResolver) ResolveLogin(_ context.Context, email string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if username, ok := s.known[email]; ok {
		return username, nil
	}
	return "", ErrMemberNotFound
}

type loginFixture struct {
	svc     *LoginService
	store   *memoryTokenStore
	mailer  *mockMailer
	metrics *metrics.MetricsRegistry
	now     time.Time
}

func newLoginFixture() *loginFixture {
	f := &loginFixture{
		store:   newMemoryTokenStore(),
		mailer:  &mockMailer{},
		metrics: metrics.NewMetricsRegistry(prometheus.NewRegistry()),
		now:     time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	resolver := &stubResolver{known: map[string]string{"membre.actif@beta.gouv.fr": "membre.actif"}}
	f.svc = NewLoginService(f.store, resolver, f.mailer, f.metrics, time.Hour, "https://secretariat.example.org/")
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *loginFixture) onlyToken(t *testing.T) entities.LoginToken {
	t.Helper()
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	require.Len(t, f.store.tokens, 1)
	for _, tok := range f.store.tokens {
		return tok
	}
	return entities.LoginToken{}
}

func TestLogin_IssuePersistsOneTokenAndMailsLink(t *testing.T) {
	f := newLoginFixture()

	require.NoError(t, f.svc.Issue(context.Background(), "membre.actif@beta.gouv.fr"))

	tok := f.onlyToken(t)
	assert.Equal(t, "membre.actif", tok.Username)
	assert.Equal(t, "membre.actif@beta.gouv.fr", tok.Email)
	assert.Equal(t, f.now.Add(time.Hour), tok.ExpiresAt)
	assert.GreaterOrEqual(t, len(tok.Token), 80)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, []string{"membre.actif@beta.gouv.fr"}, f.mailer.sent[0].To)
	assert.Contains(t, f.mailer.sent[0].HTML, "https://secretariat.example.org/users?token=")
	assert.Contains(t, f.mailer.sent[0].HTML, "1 heure")
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.LoginTokensTotal.WithLabelValues(metrics.EventIssued)))
}

func TestLogin_IssueUnknownEmailLooksTheSame(t *testing.T) {
	f := newLoginFixture()

	err := f.svc.Issue(context.Background(), "inconnu@beta.gouv.fr")

	assert.NoError(t, err)
	assert.Equal(t, 0, f.store.len())
	assert.Empty(t, f.mailer.sent)
}

func TestLogin_IssueMailFailureLooksTheSame(t *testing.T) {
	f := newLoginFixture()
	f.mailer.err = errors.New("smtp down")

	assert.NoError(t, f.svc.Issue(context.Background(), "membre.actif@beta.gouv.fr"))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.MailSentTotal.WithLabelValues("login", metrics.ResultError)))
}

func TestLogin_IssueInvalidEmail(t *testing.T) {
	f := newLoginFixture()
	assert.ErrorIs(t, f.svc.Issue(context.Background(), "not-an-email"), ErrInvalidEmail)
}

func TestLogin_IssueDirectoryFailure(t *testing.T) {
	f := newLoginFixture()
	f.svc.identities = &stubResolver{err: errors.New("feed down")}
	assert.Error(t, f.svc.Issue(context.Background(), "membre.actif@beta.gouv.fr"))
}

func TestLogin_IssuePurgesExpiredTokens(t *testing.T) {
	f := newLoginFixture()
	require.NoError(t, f.store.Create(context.Background(), &entities.LoginToken{Token: "old", ExpiresAt: f.now.Add(-time.Minute)}))

	require.NoError(t, f.svc.Issue(context.Background(), "membre.actif@beta.gouv.fr"))

	assert.Equal(t, 1, f.store.purged)
	assert.NotEqual(t, "old", f.onlyToken(t).Token)
}

func TestLogin_RedeemIsSingleUse(t *testing.T) {
	f := newLoginFixture()
	ctx := context.Background()
	require.NoError(t, f.svc.Issue(ctx, "membre.actif@beta.gouv.fr"))
	token := f.onlyToken(t).Token

	username, ok, err := f.svc.Redeem(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "membre.actif", username)
	assert.Equal(t, 0, f.store.len())

	username, ok, err = f.svc.Redeem(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, username)
}

func TestLogin_RedeemExpiredTokenIsRejectedAndKept(t *testing.T) {
	f := newLoginFixture()
	ctx := context.Background()
	require.NoError(t, f.store.Create(ctx, &entities.LoginToken{
		Token: "expired", Username: "membre.actif", Email: "membre.actif@beta.gouv.fr", ExpiresAt: f.now,
	}))

	_, ok, err := f.svc.Redeem(ctx, "expired")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, f.store.len())
}

func TestLogin_RedeemUnknownOrEmpty(t *testing.T) {
	f := newLoginFixture()
	for _, token := range []string{"", "nope"} {
		_, ok, err := f.svc.Redeem(context.Background(), token)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, float64(2), testutil.ToFloat64(f.metrics.LoginTokensTotal.WithLabelValues(metrics.EventRejected)))
}

func TestLogin_ConcurrentRedeemSucceedsOnce(t *testing.T) {
	f := newLoginFixture()
	ctx := context.Background()
	require.NoError(t, f.svc.Issue(ctx, "membre.actif@beta.gouv.fr"))
	token := f.onlyToken(t).Token

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok, _ := f.svc.Redeem(ctx, token); ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestLogin_TokensAreURLSafe(t *testing.T) {
	tok, err := randomToken()
	require.NoError(t, err)
	assert.False(t, strings.ContainsAny(tok, "+/="))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1 heure", FormatDuration(time.Hour))
	assert.Equal(t, "2 heures", FormatDuration(2*time.Hour))
	assert.Equal(t, "30 minutes", FormatDuration(30*time.Minute))
	assert.Equal(t, "7 jours", FormatDuration(7*24*time.Hour))
}
