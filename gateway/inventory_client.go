package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"flightops/entity"
)

// InventoryClient queries the seat inventory service for alternative flights
// between two airports on a given date.
type InventoryClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewInventoryClient(baseURL string) InventoryClient {
	return InventoryClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c InventoryClient) CandidatesFor(ctx context.Context, origin, destination, date string) ([]entity.CandidateFlight, error) {
	endpoint := fmt.Sprintf(
		"%s/candidates?origin=%s&destination=%s&date=%s",
		c.baseURL,
		url.QueryEscape(origin),
		url.QueryEscape(destination),
		url.QueryEscape(date),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create inventory request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not query inventory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code for GET /candidates: %d", resp.StatusCode)
	}

	var candidates []entity.CandidateFlight
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("could not decode inventory response: %w", err)
	}

	return candidates, nil
}
