package gateway

import (
	"context"
	"sync"

	"flightops/entity"
)

// InventoryMock serves candidates from a fixed table keyed by
// origin/destination/date.
type InventoryMock struct {
	mock sync.Mutex

	Candidates map[string][]entity.CandidateFlight
	Err        error
}

func inventoryKey(origin, destination, date string) string {
	return origin + "/" + destination + "/" + date
}

func (c *InventoryMock) Seed(origin, destination, date string, candidates []entity.CandidateFlight) {
	c.mock.Lock()
	defer c.mock.Unlock()

	if c.Candidates == nil {
		c.Candidates = make(map[string][]entity.CandidateFlight)
	}

	c.Candidates[inventoryKey(origin, destination, date)] = candidates
}

func (c *InventoryMock) CandidatesFor(ctx context.Context, origin, destination, date string) ([]entity.CandidateFlight, error) {
	c.mock.Lock()
	defer c.mock.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}

	return c.Candidates[inventoryKey(origin, destination, date)], nil
}
