package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Authority validates end-user credentials against the external
// authentication service. A successful validation is one where the
// upstream returns a non-empty access token of its own; that token is
// discarded, only the yes/no matters here.
type Authority struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewAuthority creates a client for the credential authority.
func NewAuthority(baseURL string) *Authority {
	return &Authority{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type authorityRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authorityResponse struct {
	Transaction string `json:"transaccion"`
	AccessToken string `json:"accessToken"`
}

// Validate checks the email/password pair. Returns nil on success,
// ErrDenied when the authority rejects the credentials, and
// ErrUnavailable when the authority cannot be reached or answers with
// something unusable.
func (a *Authority) Validate(ctx context.Context, email, password string) error {
	body, err := json.Marshal(authorityRequest{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// 4xx means the authority processed the request and said no.
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return ErrDenied
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	var out authorityResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// The authority signals success by minting its own token.
	if out.AccessToken == "" {
		return ErrDenied
	}

	return nil
}
