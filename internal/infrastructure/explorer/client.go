package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"pulsechain-cluster-analyzer/internal/infrastructure/config"
	"pulsechain-cluster-analyzer/internal/infrastructure/logger"
)

// Client is a thin HTTP client for a Blockscout-compatible explorer API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new explorer API client
func NewClient(cfg *config.ExplorerConfig, logger *logger.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger.WithComponent("explorer-client"),
	}
}

// addressRef is the explorer's nested address representation
type addressRef struct {
	Hash string `json:"hash"`
}

// tokenRef is the explorer's nested token representation
type tokenRef struct {
	Address string `json:"address"`
}

type holderItem struct {
	Address addressRef `json:"address"`
	Value   string     `json:"value"`
}

type holdersResponse struct {
	Items []holderItem `json:"items"`
}

type transferTotal struct {
	Value string `json:"value"`
}

type transferItem struct {
	From            addressRef    `json:"from"`
	To              addressRef    `json:"to"`
	Total           transferTotal `json:"total"`
	Token           tokenRef      `json:"token"`
	Timestamp       string        `json:"timestamp"`
	TransactionHash string        `json:"transaction_hash"`
	BlockNumber     int64         `json:"block_number"`
}

type transfersResponse struct {
	Items []transferItem `json:"items"`
}

// TokenHolders fetches one page of a token's holders
func (c *Client) TokenHolders(ctx context.Context, tokenAddress string, limit int) ([]holderItem, error) {
	endpoint := fmt.Sprintf("%s/tokens/%s/holders?limit=%d", c.baseURL, tokenAddress, limit)

	var response holdersResponse
	if err := c.get(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	return response.Items, nil
}

// AddressTokenTransfers fetches one page of an address's ERC-20 transfers,
// filtered server-side to the given token
func (c *Client) AddressTokenTransfers(ctx context.Context, address, tokenAddress string, limit int) ([]transferItem, error) {
	params := url.Values{}
	params.Set("type", "ERC-20")
	params.Set("filter", "to | from")
	params.Set("limit", fmt.Sprintf("%d", limit))
	if tokenAddress != "" {
		params.Set("token", tokenAddress)
	}
	endpoint := fmt.Sprintf("%s/addresses/%s/token-transfers?%s", c.baseURL, address, params.Encode())

	var response transfersResponse
	if err := c.get(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	return response.Items, nil
}

// get performs a GET request and decodes the JSON body into out
func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("explorer API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
