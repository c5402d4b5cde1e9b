package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/common"
	"github.com/Bernardstanislas/secretariat/internal/metrics"
	"github.com/Bernardstanislas/secretariat/internal/models/dtos"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDirectory(source *mockMembersSource, users *mockUserLookup) (*DirectoryService, *metrics.MetricsRegistry) {
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	if users == nil {
		users = &mockUserLookup{}
	}
	d := NewDirectoryService(source, common.NewCacheService(600, 1200), users, m, "beta.gouv.fr")
	d.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	return d, m
}

func TestDirectory_MembersAreCached(t *testing.T) {
	source := &mockMembersSource{members: testMembers()}
	d, m := newTestDirectory(source, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		members, err := d.Members(ctx)
		require.NoError(t, err)
		require.Len(t, members, 4)
	}

	assert.Equal(t, 1, source.membersCalls)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues("MEMBERS")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("MEMBERS")))
}

func TestDirectory_UpstreamErrorNotCached(t *testing.T) {
	source := &mockMembersSource{err: errors.New("down")}
	d, _ := newTestDirectory(source, nil)

	_, err := d.Members(context.Background())
	require.Error(t, err)

	source.err = nil
	source.members = testMembers()
	members, err := d.Members(context.Background())
	require.NoError(t, err)
	assert.Len(t, members, 4)
}

func TestDirectory_Startups(t *testing.T) {
	source := &mockMembersSource{startups: []dtos.Startup{{ID: "a-plus", Attributes: dtos.StartupAttributes{Name: "A+"}}}}
	d, _ := newTestDirectory(source, nil)

	startups, err := d.Startups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A+", startups[0].Attributes.Name)
}

func TestDirectory_ResolveLogin(t *testing.T) {
	users := &mockUserLookup{bySecondary: map[string]string{
		"marie@example.org":  "marie.curie",
		"ghost@example.org":  "not.listed",
		"former@example.org": "membre.expire",
	}}
	d, _ := newTestDirectory(&mockMembersSource{members: testMembers()}, users)

	tests := []struct {
		email   string
		want    string
		wantErr error
	}{
		{"membre.actif@beta.gouv.fr", "membre.actif", nil},
		{"  Membre.Actif@BETA.gouv.fr ", "membre.actif", nil},
		{"membre.nouveau@beta.gouv.fr", "membre.nouveau", nil},
		{"membre.expire@beta.gouv.fr", "", ErrMemberNotFound},
		{"inconnu@beta.gouv.fr", "", ErrMemberNotFound},
		{"marie@example.org", "marie.curie", nil},
		{"ghost@example.org", "", ErrMemberNotFound},
		{"former@example.org", "", ErrMemberNotFound},
		{"nobody@example.org", "", ErrMemberNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got, err := d.ResolveLogin(context.Background(), tt.email)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirectory_ReferentEmail(t *testing.T) {
	d, _ := newTestDirectory(&mockMembersSource{members: testMembers()}, nil)

	email, err := d.ReferentEmail(context.Background(), "marie.curie")
	require.NoError(t, err)
	assert.Equal(t, "marie.curie@beta.gouv.fr", email)

	_, err = d.ReferentEmail(context.Background(), "personne")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)

	assert.False(t, IsExpired(&dtos.Member{End: "2024-06-01"}, now), "ends today")
	assert.True(t, IsExpired(&dtos.Member{End: "2024-05-31"}, now))
	assert.False(t, IsExpired(&dtos.Member{}, now))
	assert.False(t, IsExpired(&dtos.Member{Missions: []dtos.Mission{{End: "2020-01-01"}, {End: ""}}}, now))
	assert.True(t, IsExpired(&dtos.Member{Missions: []dtos.Mission{{End: "2020-01-01"}, {End: "2023-01-01"}}}, now))
	assert.False(t, IsExpired(&dtos.Member{Missions: []dtos.Mission{{End: "2020-01-01"}, {End: "2030-01-01"}}}, now))
}
