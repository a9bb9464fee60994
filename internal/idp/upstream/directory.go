package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/libelulasoft/agil-idp/internal/idp/domain"
)

// Directory resolves end-user profiles from the external user directory's
// admin API. Lookups never create users; a subject the directory does not
// know stays unknown.
type Directory struct {
	BaseURL    string
	ServiceKey string
	HTTPClient *http.Client

	// PageSize bounds how many users a single listing request returns.
	PageSize int
}

// NewDirectory creates a client for the user directory.
func NewDirectory(baseURL, serviceKey string) *Directory {
	return &Directory{
		BaseURL:    baseURL,
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		PageSize: 1000,
	}
}

type directoryUser struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	EmailConfirmedAt string `json:"email_confirmed_at"`
	UserMetadata     struct {
		Name              string `json:"name"`
		GivenName         string `json:"given_name"`
		FamilyName        string `json:"family_name"`
		PreferredUsername string `json:"preferred_username"`
	} `json:"user_metadata"`
}

type directoryListResponse struct {
	Users []directoryUser `json:"users"`
}

// FindByEmail looks the user up in the directory's admin listing. Returns
// ErrNotFound when no user carries that email and ErrUnavailable when the
// directory cannot be queried.
func (d *Directory) FindByEmail(ctx context.Context, email string) (domain.Profile, error) {
	u := fmt.Sprintf("%s/admin/users?page=1&per_page=%d", d.BaseURL, d.PageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+d.ServiceKey)
	req.Header.Set("apikey", d.ServiceKey)

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Profile{}, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var out directoryListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Profile{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	for _, user := range out.Users {
		if user.Email == email {
			return toProfile(user), nil
		}
	}

	return domain.Profile{}, ErrNotFound
}

func toProfile(u directoryUser) domain.Profile {
	return domain.Profile{
		ID:            u.ID,
		Email:         u.Email,
		EmailVerified: u.EmailConfirmedAt != "",
		Name:          u.UserMetadata.Name,
		GivenName:     u.UserMetadata.GivenName,
		FamilyName:    u.UserMetadata.FamilyName,
		Username:      u.UserMetadata.PreferredUsername,
	}
}

// Validate checks the client is minimally configured.
func (d *Directory) Validate() error {
	if d.BaseURL == "" {
		return fmt.Errorf("upstream: directory base URL is required")
	}
	if _, err := url.Parse(d.BaseURL); err != nil {
		return fmt.Errorf("upstream: invalid directory base URL: %w", err)
	}
	return nil
}
