package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rickgao/ah-ledger/internal/model"
)

// GetAuctionStatus fetches the auction snapshot status for a realm.
// A response without a file listing is returned as-is, not as an error.
func (c *Client) GetAuctionStatus(ctx context.Context, slug string) (*AuctionStatus, error) {
	var resp AuctionStatus
	if err := c.get(ctx, "/auction/data/"+url.PathEscape(slug), nil, &resp); err != nil {
		return nil, fmt.Errorf("get auction status %s: %w", slug, err)
	}
	return &resp, nil
}

// GetAuctionData downloads a snapshot payload and returns its auctions in file order.
func (c *Client) GetAuctionData(ctx context.Context, fileURL string) ([]model.AuctionRecord, error) {
	var resp AuctionDataResponse
	if err := c.get(ctx, fileURL, nil, &resp); err != nil {
		return nil, fmt.Errorf("get auction data: %w", err)
	}

	auctions, err := decodeAuctions(resp.Auctions)
	if err != nil {
		return nil, fmt.Errorf("decode auction data: %w", err)
	}
	return auctions, nil
}

// decodeAuctions accepts both {"auctions": [...]} and a bare array and
// validates every record.
func decodeAuctions(raw json.RawMessage) ([]model.AuctionRecord, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var auctions []model.AuctionRecord
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &auctions); err != nil {
			return nil, err
		}
	} else {
		var wrapped struct {
			Auctions []model.AuctionRecord `json:"auctions"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, err
		}
		auctions = wrapped.Auctions
	}

	// A corrupt payload is rejected whole; totals never go backwards.
	for i, a := range auctions {
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return auctions, nil
}
