// Package identity exchanges third-party authorization codes for stable
// external account ids. The provider's wire schema beyond the fields read
// here is not this service's concern.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Doer is the subset of http.Client the exchange needs; tests substitute it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs the code-for-account-id exchange against the identity
// provider's graph API.
type Client struct {
	http      Doer
	baseURL   string
	appID     string
	appSecret string
}

// NewClient constructs an identity exchange client.
func NewClient(httpClient Doer, baseURL, appID, appSecret string) *Client {
	return &Client{http: httpClient, baseURL: baseURL, appID: appID, appSecret: appSecret}
}

// ExchangeCode trades an authorization code for the provider's account id.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	u, err := url.Parse(c.baseURL + "/access_token")
	if err != nil {
		return "", fmt.Errorf("identity: build exchange url: %w", err)
	}
	q := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"access_token": {fmt.Sprintf("AA|%s|%s", c.appID, c.appSecret)},
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("identity: build exchange request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity: exchange request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("identity: exchange returned status %d", resp.StatusCode)
	}

	var body struct {
		ID          string `json:"id"`
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("identity: decode exchange response: %w", err)
	}
	if body.ID == "" {
		return "", fmt.Errorf("identity: exchange response has no account id")
	}
	return body.ID, nil
}
