package gateway

import (
	"context"
	"log"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// AuthConfig configures optional service-to-service authentication against
// the results API using the OAuth2 client credentials grant.
type AuthConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
}

// Enabled reports whether enough settings are present to request tokens
func (a AuthConfig) Enabled() bool {
	return a.ClientID != "" && a.ClientSecret != "" && a.TokenURL != ""
}

// NewHTTPClient builds the http.Client used by Client. When auth is enabled
// every request carries a bearer token from the token endpoint, refreshed
// as it expires.
func NewHTTPClient(ctx context.Context, timeout time.Duration, auth AuthConfig) *http.Client {
	if !auth.Enabled() {
		return &http.Client{Timeout: timeout}
	}

	ccConfig := &clientcredentials.Config{
		ClientID:     auth.ClientID,
		ClientSecret: auth.ClientSecret,
		TokenURL:     auth.TokenURL,
		Scopes:       auth.Scopes,
	}

	// The token fetches share the timeout of API calls
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: timeout})
	client := ccConfig.Client(ctx)
	client.Timeout = timeout

	log.Printf("Results API client credentials enabled (token URL: %s)", auth.TokenURL)
	return client
}
