package oidcsdk

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the identity provider. It covers the public
// OAuth2/OIDC surface: token grants, userinfo, JWKS and discovery.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new identity provider client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}
