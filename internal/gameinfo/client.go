package gameinfo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sling/backend/internal/models"
)

// Resolver looks up account display names from the game-info provider.
// The provider is an external collaborator; this client treats it as a
// black box over HTTP.
type Resolver interface {
	ResolveNames(ctx context.Context, accounts []string) (map[string]models.AccountName, error)
}

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type resolveRequest struct {
	Accounts []string `json:"accounts"`
}

type resolveResponse struct {
	Names []models.AccountName `json:"names"`
}

// ResolveNames resolves a batch of account names in one provider call.
// Accounts the provider does not know are simply absent from the result.
func (c *Client) ResolveNames(ctx context.Context, accounts []string) (map[string]models.AccountName, error) {
	if len(accounts) == 0 {
		return map[string]models.AccountName{}, nil
	}

	payload, err := json.Marshal(resolveRequest{Accounts: accounts})
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/names/resolve"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gameinfo: resolve request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gameinfo: resolve returned status %d", resp.StatusCode)
	}

	var out resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("gameinfo: invalid resolve response: %w", err)
	}

	resolved := make(map[string]models.AccountName, len(out.Names))
	for _, name := range out.Names {
		resolved[name.AccountName] = name
	}
	return resolved, nil
}
