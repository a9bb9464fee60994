/*
Package oidcsdk provides a client SDK for the identity provider's public
OAuth2/OIDC surface, plus the shared wire types and error values the server
handlers use to stay RFC 6749 compliant.

# Overview

The package is organised around one type:

  - SDKClient: stateless client for the token, userinfo, JWKS and discovery
    endpoints

Create an SDKClient to talk to a running provider:

	client := oidcsdk.NewSDKClient("https://id.example.com")

	// Exchange an authorization code
	tokens, err := client.AuthorizationCodeGrant(ctx, clientID, clientSecret, code, redirectURI)

	// Or authenticate directly with resource owner credentials
	tokens, err := client.PasswordGrant(ctx, clientID, clientSecret, email, password, []string{"openid", "profile"})

	// Fetch the claims for an access token
	info, err := client.UserInfo(ctx, tokens.AccessToken)

	// Provider metadata and keys
	doc, err := client.GetDiscovery(ctx)
	jwks, err := client.GetJWKS(ctx)

# Error Handling

Failed requests decode into *OAuth2Error carrying the wire error code, so
callers can branch without string matching:

	tokens, err := client.AuthorizationCodeGrant(ctx, clientID, secret, code, redirectURI)
	var oerr *oidcsdk.OAuth2Error
	if errors.As(err, &oerr) && oerr.Code == oidcsdk.ErrorCodeInvalidGrant {
		// code was expired, replayed, or bound to different parameters
	}

The same OAuth2Error values double as the server side's response writers;
handlers map service-layer sentinel errors onto them and call WriteError.
*/
package oidcsdk
