package services

import (
	"context"
	"sync"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/db/repositories"
	"github.com/Bernardstanislas/secretariat/internal/models/dtos"
	"github.com/Bernardstanislas/secretariat/internal/models/entities"
	gormModels "github.com/Bernardstanislas/secretariat/internal/models/gorm"
)

// mockGitHost records calls; nil funcs succeed.
type mockGitHost struct {
	mu      sync.Mutex
	calls   []string
	deleted []string

	getSHAFunc     func(ctx context.Context) (string, error)
	createBranchFn func(ctx context.Context, sha, branch string) error
	createFileFn   func(ctx context.Context, path, branch, content string) error
	openPRFn       func(ctx context.Context, branch, title string) (*dtos.PullRequest, error)
	deleteBranchFn func(ctx context.Context, branch string) error
}

func (m *mockGitHost) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockGitHost) GetDefaultBranchSHA(ctx context.Context) (string, error) {
	m.record("sha")
	if m.getSHAFunc != nil {
		return m.getSHAFunc(ctx)
	}
	return "abc123", nil
}

func (m *mockGitHost) CreateBranch(ctx context.Context, sha, branch string) error {
	m.record("branch")
	if m.createBranchFn != nil {
		return m.createBranchFn(ctx, sha, branch)
	}
	return nil
}

func (m *mockGitHost) CreateFile(ctx context.Context, path, branch, content string) error {
	m.record("file")
	if m.createFileFn != nil {
		return m.createFileFn(ctx, path, branch, content)
	}
	return nil
}

func (m *mockGitHost) OpenPullRequest(ctx context.Context, branch, title string) (*dtos.PullRequest, error) {
	m.record("pr")
	if m.openPRFn != nil {
		return m.openPRFn(ctx, branch, title)
	}
	return &dtos.PullRequest{Number: 42, HTMLURL: "https://github.com/acme/site/pull/42"}, nil
}

func (m *mockGitHost) DeleteBranch(ctx context.Context, branch string) error {
	m.record("delete")
	m.mu.Lock()
	m.deleted = append(m.deleted, branch)
	m.mu.Unlock()
	if m.deleteBranchFn != nil {
		return m.deleteBranchFn(ctx, branch)
	}
	return nil
}

// memoryTokenStore mirrors the conditional delete of the SQL repository.
type memoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]entities.LoginToken
	purged int
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{tokens: map[string]entities.LoginToken{}}
}

func (s *memoryTokenStore) Create(_ context.Context, t *entities.LoginToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[t.Token] = *t
	return nil
}

func (s *memoryTokenStore) Consume(_ context.Context, token string, now time.Time) (*entities.LoginToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok || !t.Valid(now) {
		return nil, repositories.ErrTokenNotFound
	}
	delete(s.tokens, token)
	return &t, nil
}

func (s *memoryTokenStore) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purged++
	var n int64
	for k, t := range s.tokens {
		if !t.Valid(now) {
			delete(s.tokens, k)
			n++
		}
	}
	return n, nil
}

func (s *memoryTokenStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

type sentMail struct {
	To      []string
	Subject string
	HTML    string
}

type mockMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *mockMailer) Send(_ context.Context, to []string, subject string, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: html})
	return nil
}

type mockMembersSource struct {
	members      []dtos.Member
	startups     []dtos.Startup
	err          error
	membersCalls int
}

func (m *mockMembersSource) FetchMembers(context.Context) ([]dtos.Member, error) {
	m.membersCalls++
	return m.members, m.err
}

func (m *mockMembersSource) FetchStartups(context.Context) ([]dtos.Startup, error) {
	return m.startups, m.err
}

type mockUserLookup struct {
	bySecondary map[string]string
}

func (m *mockUserLookup) GetBySecondaryEmail(_ context.Context, email string) (*gormModels.User, error) {
	if username, ok := m.bySecondary[email]; ok {
		return &gormModels.User{Username: username, SecondaryEmail: &email}, nil
	}
	return nil, repositories.ErrUserNotFound
}

type mockUserStore struct {
	upserts map[string]string
	err     error
}

func (m *mockUserStore) UpsertSecondaryEmail(_ context.Context, username, email string) error {
	if m.err != nil {
		return m.err
	}
	if m.upserts == nil {
		m.upserts = map[string]string{}
	}
	m.upserts[username] = email
	return nil
}

func testMembers() []dtos.Member {
	return []dtos.Member{
		{ID: "membre.actif", Fullname: "Membre Actif", Missions: []dtos.Mission{{Start: "2020-09-01", End: "2090-01-30"}}},
		{ID: "membre.nouveau", Fullname: "Membre Nouveau", Missions: []dtos.Mission{{Start: "2090-01-01", End: "2091-01-01"}}},
		{ID: "membre.expire", Fullname: "Membre Expiré", End: "2019-12-31"},
		{ID: "marie.curie", Fullname: "Marie Curie", Missions: []dtos.Mission{{Start: "2020-01-01"}}},
	}
}
