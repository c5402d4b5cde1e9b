package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/config"
	"github.com/Bernardstanislas/secretariat/internal/constants"
	"github.com/Bernardstanislas/secretariat/internal/models/dtos"
)

// GithubProvider talks to the GitHub REST API for a single content repository.
type GithubProvider struct {
	BaseURL       string
	Token         string
	Repository    string
	DefaultBranch string
	Client        *http.Client
}

// NewGithubProvider creates a GitHub provider from configuration
func NewGithubProvider(cfg config.GithubConfig) *GithubProvider {
	return &GithubProvider{
		BaseURL:       strings.TrimRight(cfg.APIBaseURL, "/"),
		Token:         cfg.Token,
		Repository:    cfg.Repository,
		DefaultBranch: cfg.DefaultBranch,
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// GetDefaultBranchSHA returns the commit SHA at the head of the default branch.
func (p *GithubProvider) GetDefaultBranchSHA(ctx context.Context) (string, error) {
	var ref dtos.GitRef
	endpoint := fmt.Sprintf("/repos/%s/git/ref/heads/%s", p.Repository, url.PathEscape(p.DefaultBranch))
	if _, err := p.do(ctx, http.MethodGet, endpoint, nil, &ref); err != nil {
		return "", err
	}
	if ref.Object.SHA == "" {
		return "", &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: fmt.Sprintf("No SHA returned for branch %s", p.DefaultBranch),
		}
	}
	return ref.Object.SHA, nil
}

// CreateBranch creates refs/heads/<branch> pointing at sha.
func (p *GithubProvider) CreateBranch(ctx context.Context, sha string, branch string) error {
	if sha == "" || branch == "" {
		return &ProviderError{
			Code:    constants.ErrCodeInvalidDataFormat,
			Message: "SHA and branch name cannot be empty",
		}
	}
	req := dtos.CreateRefReq{Ref: "refs/heads/" + branch, SHA: sha}
	_, err := p.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/git/refs", p.Repository), req, nil)
	return err
}

// CreateFile commits a new file at path on branch.
func (p *GithubProvider) CreateFile(ctx context.Context, path string, branch string, content string) error {
	req := dtos.CreateFileReq{
		Message: fmt.Sprintf("Création de %s", path),
		Content: base64.StdEncoding.EncodeToString([]byte(content)),
		Branch:  branch,
	}
	endpoint := fmt.Sprintf("/repos/%s/contents/%s", p.Repository, escapePath(path))
	_, err := p.do(ctx, http.MethodPut, endpoint, req, nil)
	return err
}

// OpenPullRequest opens a pull request from branch into the default branch.
func (p *GithubProvider) OpenPullRequest(ctx context.Context, branch string, title string) (*dtos.PullRequest, error) {
	req := dtos.CreatePullRequestReq{
		Title: title,
		Head:  branch,
		Base:  p.DefaultBranch,
	}
	var pr dtos.PullRequest
	if _, err := p.do(ctx, http.MethodPost, fmt.Sprintf("/repos/%s/pulls", p.Repository), req, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// DeleteBranch removes refs/heads/<branch>.
func (p *GithubProvider) DeleteBranch(ctx context.Context, branch string) error {
	endpoint := fmt.Sprintf("/repos/%s/git/refs/heads/%s", p.Repository, url.PathEscape(branch))
	_, err := p.do(ctx, http.MethodDelete, endpoint, nil, nil)
	return err
}

// PullRequestURL is the browser URL of pull request number.
func (p *GithubProvider) PullRequestURL(number int) string {
	return fmt.Sprintf("https://github.com/%s/pull/%d", p.Repository, number)
}

// do performs an authenticated JSON request. result may be nil.
func (p *GithubProvider) do(ctx context.Context, method string, endpoint string, payload interface{}, result interface{}) (int, error) {
	if p.Token == "" {
		return 0, &ProviderError{
			Code:    constants.ErrCodeInvalidAPIKey,
			Message: "GITHUB_TOKEN environment variable is not set",
		}
	}

	var body io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return 0, &ProviderError{
				Code:    constants.ErrCodeInvalidDataFormat,
				Message: "Failed to marshal request body",
				Err:     err,
			}
		}
		body = bytes.NewReader(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.BaseURL+endpoint, body)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}

	req.Header.Set("Authorization", "Bearer "+p.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return resp.StatusCode, &ProviderError{
			Code:       constants.ErrCodeNetworkError,
			StatusCode: resp.StatusCode,
			Message:    "Failed to read response body",
			Err:        readErr,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, buildHTTPError(resp.StatusCode, endpoint, githubErrorMessage(bodyBytes))
	}

	if result == nil || len(bodyBytes) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(bodyBytes, result); err != nil {
		return resp.StatusCode, &ProviderError{
			Code:       constants.ErrCodeInvalidDataFormat,
			StatusCode: resp.StatusCode,
			Message:    "Failed to decode response",
			Details:    string(bodyBytes),
			Err:        err,
		}
	}
	return resp.StatusCode, nil
}

// githubErrorMessage extracts the message of a GitHub error body, falling
// back to the raw body.
func githubErrorMessage(body []byte) string {
	var ghErr dtos.GithubErrorResponse
	if err := json.Unmarshal(body, &ghErr); err != nil || ghErr.Message == "" {
		return string(body)
	}
	msg := ghErr.Message
	for _, e := range ghErr.Errors {
		if e.Message != "" {
			msg += "; " + e.Message
		}
	}
	return msg
}

func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
