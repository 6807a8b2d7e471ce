// Package hydra wraps the ORY Hydra admin API calls the challenge flows need:
// fetching and accepting login, consent and logout requests. Every call is a
// single non-retried request; failures terminate the current flow.
package hydra

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	client "github.com/ory/hydra-client-go/v2"
)

const (
	defaultTimeout = 30 * time.Second
)

// LoginRequest is the subset of a Hydra login request the login flow acts on.
type LoginRequest struct {
	// Skip is true when Hydra has already authenticated this session; the
	// request must be re-accepted with Subject without prompting the user,
	// forwarding Context as stored.
	Skip    bool
	Subject string
	Context map[string]any
}

// ConsentRequest is the subset of a Hydra consent request the consent flow
// acts on.
type ConsentRequest struct {
	Subject                      string
	Context                      map[string]any
	RequestedScope               []string
	RequestedAccessTokenAudience []string
}

// Client talks to the Hydra admin API.
type Client struct {
	api *client.APIClient
}

// New creates a Hydra admin API client for the given admin URL.
func New(adminURL string) (*Client, error) {
	if adminURL == "" {
		return nil, ErrMissingAdminURL
	}

	if _, err := url.Parse(adminURL); err != nil {
		return nil, fmt.Errorf("invalid hydra admin url: %w", err)
	}

	configuration := client.NewConfiguration()
	configuration.Servers = client.ServerConfigurations{{URL: adminURL}}
	configuration.HTTPClient = &http.Client{Timeout: defaultTimeout}

	return &Client{api: client.NewAPIClient(configuration)}, nil
}

// GetLoginRequest fetches the login request for a challenge.
func (c *Client) GetLoginRequest(ctx context.Context, challenge string) (*LoginRequest, error) {
	r, _, err := c.api.OAuth2API.GetOAuth2LoginRequest(ctx).
		LoginChallenge(challenge).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get login request: %w", err)
	}

	// The generated login request model has no field for the stored context,
	// unlike the consent one; Hydra's "context" key lands in
	// AdditionalProperties.
	loginContext, _ := r.AdditionalProperties["context"].(map[string]any)

	return &LoginRequest{
		Skip:    r.GetSkip(),
		Subject: r.GetSubject(),
		Context: loginContext,
	}, nil
}

// AcceptLoginRequest accepts the login request for a challenge and returns
// the URL to redirect the user agent to. The context value is stored by Hydra
// and handed back with the consent request.
func (c *Client) AcceptLoginRequest(
	ctx context.Context,
	challenge, subject string,
	loginContext map[string]any,
	remember bool,
	rememberFor int64,
) (string, error) {
	body := client.NewAcceptOAuth2LoginRequest(subject)
	body.SetRemember(remember)
	body.SetRememberFor(rememberFor)

	if loginContext != nil {
		body.SetContext(loginContext)
	}

	r, _, err := c.api.OAuth2API.AcceptOAuth2LoginRequest(ctx).
		LoginChallenge(challenge).
		AcceptOAuth2LoginRequest(*body).
		Execute()
	if err != nil {
		return "", fmt.Errorf("failed to accept login request: %w", err)
	}

	return r.GetRedirectTo(), nil
}

// GetConsentRequest fetches the consent request for a challenge.
func (c *Client) GetConsentRequest(ctx context.Context, challenge string) (*ConsentRequest, error) {
	r, _, err := c.api.OAuth2API.GetOAuth2ConsentRequest(ctx).
		ConsentChallenge(challenge).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent request: %w", err)
	}

	consentContext, _ := r.GetContext().(map[string]any)

	return &ConsentRequest{
		Subject:                      r.GetSubject(),
		Context:                      consentContext,
		RequestedScope:               r.GetRequestedScope(),
		RequestedAccessTokenAudience: r.GetRequestedAccessTokenAudience(),
	}, nil
}

// AcceptConsentRequest accepts the consent request for a challenge, granting
// the requested scopes and audience and attaching idTokenClaims to the ID
// token session. Returns the URL to redirect the user agent to.
func (c *Client) AcceptConsentRequest(
	ctx context.Context,
	challenge string,
	audience, scope []string,
	remember bool,
	rememberFor int64,
	idTokenClaims map[string]any,
) (string, error) {
	body := client.NewAcceptOAuth2ConsentRequest()
	body.SetGrantAccessTokenAudience(audience)
	body.SetGrantScope(scope)
	body.SetRemember(remember)
	body.SetRememberFor(rememberFor)
	body.SetSession(client.AcceptOAuth2ConsentRequestSession{
		IdToken: idTokenClaims,
	})

	r, _, err := c.api.OAuth2API.AcceptOAuth2ConsentRequest(ctx).
		ConsentChallenge(challenge).
		AcceptOAuth2ConsentRequest(*body).
		Execute()
	if err != nil {
		return "", fmt.Errorf("failed to accept consent request: %w", err)
	}

	return r.GetRedirectTo(), nil
}

// AcceptLogoutRequest accepts the logout request for a challenge and returns
// the URL to redirect the user agent to.
func (c *Client) AcceptLogoutRequest(ctx context.Context, challenge string) (string, error) {
	r, _, err := c.api.OAuth2API.AcceptOAuth2LogoutRequest(ctx).
		LogoutChallenge(challenge).
		Execute()
	if err != nil {
		return "", fmt.Errorf("failed to accept logout request: %w", err)
	}

	return r.GetRedirectTo(), nil
}
