package services

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/constants"
	"github.com/Bernardstanislas/secretariat/internal/logging"
	"github.com/Bernardstanislas/secretariat/internal/models/dtos"
	"github.com/Bernardstanislas/secretariat/internal/providers"
)

// GitHost is the subset of the GitHub API the publisher drives.
type GitHost interface {
	GetDefaultBranchSHA(ctx context.Context) (string, error)
	CreateBranch(ctx context.Context, sha string, branch string) error
	CreateFile(ctx context.Context, path string, branch string, content string) error
	OpenPullRequest(ctx context.Context, branch string, title string) (*dtos.PullRequest, error)
	DeleteBranch(ctx context.Context, branch string) error
}

// PublishRequest is a profile ready to be proposed to the content repository.
type PublishRequest struct {
	Username string
	Content  string
	Referent string
}

type PublishResult struct {
	Branch      string
	Path        string
	PullRequest dtos.PullRequest
}

// Publisher opens one pull request per new member profile.
type Publisher struct {
	git        GitHost
	branchName func(username string) (string, error)
}

func NewPublisher(git GitHost) *Publisher {
	return &Publisher{git: git, branchName: BranchName}
}

// AuthorPath is where the profile of username lives in the content repository.
func AuthorPath(username string) string {
	return path.Join(constants.AuthorsContentDir, username+".md")
}

// PullRequestTitle names the new member and their referent.
func PullRequestTitle(username string, referent string) string {
	if referent == "" {
		referent = "pas renseigné"
	}
	return fmt.Sprintf("Création de fiche pour %s. Référent : %s.", username, referent)
}

// Publish creates a branch, commits the profile on it and opens a pull request.
// On any failure the branch is deleted and a *DuplicateProfileError or a
// *PublishError is returned.
func (p *Publisher) Publish(ctx context.Context, req PublishRequest) (result *PublishResult, err error) {
	branch, err := p.branchName(req.Username)
	if err != nil {
		return nil, &PublishError{Username: req.Username, Err: err}
	}
	log := logging.GetLogger().With("username", req.Username, "branch", branch)
	log.Infow("Starting profile publication")

	defer func() {
		if err == nil {
			return
		}
		p.deleteBranch(ctx, branch)
		if providers.IsConflict(err) {
			err = &DuplicateProfileError{Username: req.Username, Err: err}
		} else {
			err = &PublishError{Username: req.Username, Err: err}
		}
	}()

	sha, err := p.git.GetDefaultBranchSHA(ctx)
	if err != nil {
		log.Errorw("Failed to read default branch SHA", "error", err)
		return nil, err
	}

	if err = p.git.CreateBranch(ctx, sha, branch); err != nil {
		log.Errorw("Failed to create branch", "error", err)
		return nil, err
	}
	log.Infow("Branch created", "sha", sha)

	filePath := AuthorPath(req.Username)
	if err = p.git.CreateFile(ctx, filePath, branch, req.Content); err != nil {
		log.Errorw("Failed to create profile file", "path", filePath, "error", err)
		return nil, err
	}
	log.Infow("Profile file created", "path", filePath)

	pr, err := p.git.OpenPullRequest(ctx, branch, PullRequestTitle(req.Username, req.Referent))
	if err != nil {
		log.Errorw("Failed to open pull request", "error", err)
		return nil, err
	}
	log.Infow("Pull request opened", "number", pr.Number)

	return &PublishResult{Branch: branch, Path: filePath, PullRequest: *pr}, nil
}

// deleteBranch is best-effort; its failure is only logged.
func (p *Publisher) deleteBranch(ctx context.Context, branch string) {
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := p.git.DeleteBranch(cleanupCtx, branch); err != nil {
		logging.Warn("Failed to delete branch after publication error", "branch", branch, "error", err)
		return
	}
	logging.Info("Branch deleted after publication error", "branch", branch)
}
