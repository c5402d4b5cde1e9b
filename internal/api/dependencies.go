package api

import (
	"context"
	"fmt"

	"github.com/Bernardstanislas/secretariat/internal/auth"
	"github.com/Bernardstanislas/secretariat/internal/common"
	"github.com/Bernardstanislas/secretariat/internal/config"
	"github.com/Bernardstanislas/secretariat/internal/db/repositories"
	"github.com/Bernardstanislas/secretariat/internal/logging"
	"github.com/Bernardstanislas/secretariat/internal/metrics"
	"github.com/Bernardstanislas/secretariat/internal/providers"
	"github.com/Bernardstanislas/secretariat/internal/services"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Repositories struct {
	Users       *repositories.UserRepositoryGORM
	LoginTokens *repositories.LoginTokenRepo
}

type Services struct {
	Cache      common.CacheInterface
	Mailer     common.Mailer
	Directory  *services.DirectoryService
	Onboarding *services.OnboardingService
	Login      *services.LoginService
	Sessions   *auth.SessionManager
	Github     *providers.GithubProvider
}

type Dependencies struct {
	Repo         *Repositories
	Services     *Services
	HealthChecks map[string]HealthCheck
}

// InitDependencies wires repositories and services from configuration.
// A nil redisClient selects the in-memory cache.
func InitDependencies(
	cfg *config.Config,
	sqlDB *sqlx.DB,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	metricsReg *metrics.MetricsRegistry,
) (*Dependencies, error) {
	minStart, err := cfg.MinStart()
	if err != nil {
		return nil, fmt.Errorf("invalid minimum start date: %w", err)
	}

	repos := &Repositories{
		Users:       repositories.NewUserRepositoryGORM(gormDB),
		LoginTokens: repositories.NewLoginTokenRepo(sqlDB),
	}

	checks := map[string]HealthCheck{
		"postgres": sqlDB.PingContext,
	}

	var cache common.CacheInterface
	if redisClient != nil {
		redisCache := common.NewRedisCacheService(redisClient, "secretariat:")
		checks["redis"] = redisCache.Ping
		cache = redisCache
		logging.Info("Using Redis cache")
	} else {
		cache = common.NewCacheService(600, 60)
		logging.Info("Using in-memory cache")
	}

	mailer := common.NewMailer(cfg.Mail, !cfg.IsProd())
	directory := services.NewDirectoryService(
		providers.NewMembersProvider(cfg.UsersAPI),
		cache,
		repos.Users,
		metricsReg,
		cfg.Domain,
	)
	github := providers.NewGithubProvider(cfg.Github)
	publisher := services.NewPublisher(github)

	svcs := &Services{
		Cache:     cache,
		Mailer:    mailer,
		Directory: directory,
		Onboarding: services.NewOnboardingService(
			publisher, directory, repos.Users, mailer, metricsReg, minStart, cfg.BaseURL(),
		),
		Login: services.NewLoginService(
			repos.LoginTokens, directory, mailer, metricsReg, cfg.Auth.LoginTokenTTL, cfg.BaseURL(),
		),
		Sessions: auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL, cfg.IsProd()),
		Github:   github,
	}

	return &Dependencies{
		Repo:         repos,
		Services:     svcs,
		HealthChecks: checks,
	}, nil
}

// Close releases the cache connection.
func (d *Dependencies) Close(_ context.Context) error {
	return d.Services.Cache.Close()
}
