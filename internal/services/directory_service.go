package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/common"
	"github.com/Bernardstanislas/secretariat/internal/config"
	"github.com/Bernardstanislas/secretariat/internal/constants"
	"github.com/Bernardstanislas/secretariat/internal/db/repositories"
	"github.com/Bernardstanislas/secretariat/internal/logging"
	"github.com/Bernardstanislas/secretariat/internal/metrics"
	"github.com/Bernardstanislas/secretariat/internal/models/dtos"
	gormModels "github.com/Bernardstanislas/secretariat/internal/models/gorm"
)

const directoryCacheTTL = 10 * time.Minute

// MembersSource serves the community members and startups feeds.
type MembersSource interface {
	FetchMembers(ctx context.Context) ([]dtos.Member, error)
	FetchStartups(ctx context.Context) ([]dtos.Startup, error)
}

// SecondaryEmailLookup finds the member who registered a personal address.
type SecondaryEmailLookup interface {
	GetBySecondaryEmail(ctx context.Context, email string) (*gormModels.User, error)
}

// DirectoryService resolves usernames and emails against the community feeds.
type DirectoryService struct {
	source  MembersSource
	cache   common.CacheInterface
	users   SecondaryEmailLookup
	metrics *metrics.MetricsRegistry
	domain  string
	now     func() time.Time
}

func NewDirectoryService(
	source MembersSource,
	cache common.CacheInterface,
	users SecondaryEmailLookup,
	metricsReg *metrics.MetricsRegistry,
	domain string,
) *DirectoryService {
	return &DirectoryService{
		source:  source,
		cache:   cache,
		users:   users,
		metrics: metricsReg,
		domain:  strings.ToLower(domain),
		now:     time.Now,
	}
}

// Members returns every listed member, cached for ten minutes.
func (s *DirectoryService) Members(ctx context.Context) ([]dtos.Member, error) {
	return cached(ctx, s, constants.CachePrefixMembers, s.source.FetchMembers)
}

// Startups returns every listed startup, cached for ten minutes.
func (s *DirectoryService) Startups(ctx context.Context) ([]dtos.Startup, error) {
	return cached(ctx, s, constants.CachePrefixStartups, s.source.FetchStartups)
}

func cached[T any](ctx context.Context, s *DirectoryService, prefix constants.CachePrefix, load func(context.Context) (T, error)) (T, error) {
	missed := false
	val, err := common.GetOrSetJSON(ctx, s.cache, string(prefix), directoryCacheTTL, func(ctx context.Context) (T, error) {
		missed = true
		return load(ctx)
	})
	if s.metrics != nil && err == nil {
		if missed {
			s.metrics.CacheMissesTotal.WithLabelValues(string(prefix)).Inc()
		} else {
			s.metrics.CacheHitsTotal.WithLabelValues(string(prefix)).Inc()
		}
	}
	return val, err
}

// Member returns the listed member with that username.
func (s *DirectoryService) Member(ctx context.Context, username string) (*dtos.Member, error) {
	members, err := s.Members(ctx)
	if err != nil {
		return nil, err
	}
	for i := range members {
		if members[i].ID == username {
			return &members[i], nil
		}
	}
	return nil, ErrMemberNotFound
}

// ResolveLogin maps a login email to an active member's username.
// Addresses on the community domain map to their local part; any other
// address must have been registered as a secondary email at onboarding.
func (s *DirectoryService) ResolveLogin(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var username string
	if local, ok := strings.CutSuffix(email, "@"+s.domain); ok && local != "" {
		username = local
	} else {
		user, err := s.users.GetBySecondaryEmail(ctx, email)
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", ErrMemberNotFound
		}
		if err != nil {
			return "", err
		}
		username = user.Username
	}

	member, err := s.Member(ctx, username)
	if err != nil {
		return "", err
	}
	if IsExpired(member, s.now()) {
		logging.Info("Login refused for expired member", "username", username)
		return "", ErrMemberNotFound
	}
	return username, nil
}

// ReferentEmail returns the community address of a listed referent.
func (s *DirectoryService) ReferentEmail(ctx context.Context, referent string) (string, error) {
	member, err := s.Member(ctx, referent)
	if err != nil {
		return "", err
	}
	return member.ID + "@" + s.domain, nil
}

// IsExpired reports whether every mission of m ended before the day of now.
// A member with an open-ended mission never expires.
func IsExpired(m *dtos.Member, now time.Time) bool {
	end := m.End
	if end == "" {
		for _, mission := range m.Missions {
			if mission.End == "" {
				return false
			}
			if mission.End > end {
				end = mission.End
			}
		}
	}
	if end == "" {
		return false
	}
	endDate, err := time.Parse(config.DateLayout, end)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return endDate.Before(today)
}
