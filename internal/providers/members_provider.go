package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Bernardstanislas/secretariat/internal/constants"
	"github.com/Bernardstanislas/secretariat/internal/models/dtos"
)

// MembersProvider reads the public community feeds (authors, startups).
type MembersProvider struct {
	BaseURL string
	Client  *http.Client
}

// NewMembersProvider creates a provider for the community site API at baseURL
func NewMembersProvider(baseURL string) *MembersProvider {
	return &MembersProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchMembers returns every member listed in authors.json.
func (p *MembersProvider) FetchMembers(ctx context.Context) ([]dtos.Member, error) {
	var members []dtos.Member
	if err := p.doGET(ctx, "/api/v2.5/authors.json", &members); err != nil {
		return nil, err
	}
	return members, nil
}

// FetchStartups returns every startup listed in startups.json.
func (p *MembersProvider) FetchStartups(ctx context.Context) ([]dtos.Startup, error) {
	var resp dtos.StartupsResponse
	if err := p.doGET(ctx, "/api/v2.5/startups.json", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// doGET performs an anonymous GET and decodes the JSON body into result
func (p *MembersProvider) doGET(ctx context.Context, endpoint string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+endpoint, nil)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return buildHTTPError(resp.StatusCode, endpoint, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &ProviderError{
			Code:       constants.ErrCodeInvalidDataFormat,
			StatusCode: resp.StatusCode,
			Message:    "Failed to decode response",
			Err:        err,
		}
	}
	return nil
}
