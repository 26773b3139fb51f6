package api

import (
	"context"
	"fmt"

	"github.com/rickgao/ah-ledger/internal/model"
)

// GetRealmStatus fetches the realm directory.
func (c *Client) GetRealmStatus(ctx context.Context) ([]model.Realm, error) {
	var resp RealmStatusResponse
	if err := c.get(ctx, "/realm/status", nil, &resp); err != nil {
		return nil, fmt.Errorf("get realm status: %w", err)
	}

	realms := make([]model.Realm, 0, len(resp.Realms))
	for _, r := range resp.Realms {
		realms = append(realms, r.ToRealm())
	}
	return realms, nil
}
