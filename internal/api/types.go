package api

import "encoding/json"

// RealmStatusResponse from GET /realm/status
type RealmStatusResponse struct {
	Realms []APIRealm `json:"realms"`
}

// APIRealm represents a realm from the realm status endpoint.
type APIRealm struct {
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Type            string   `json:"type"`
	Population      string   `json:"population"`
	Status          bool     `json:"status"`
	Timezone        string   `json:"timezone"`
	Locale          string   `json:"locale"`
	Battlegroup     string   `json:"battlegroup"`
	ConnectedRealms []string `json:"connected_realms"`
}

// AuctionStatus from GET /auction/data/{realm}.
// Files is empty when the API has no snapshot ready for the realm.
type AuctionStatus struct {
	Files []AuctionFile `json:"files"`
}

// HasFiles reports whether the status carries a usable file listing.
func (s *AuctionStatus) HasFiles() bool {
	return s != nil && len(s.Files) > 0 && s.Files[0].URL != ""
}

// AuctionFile is one entry of the auction status file listing.
type AuctionFile struct {
	URL          string `json:"url"`
	LastModified int64  `json:"lastModified"`
}

// AuctionDataResponse is the snapshot payload served at AuctionFile.URL.
// Auctions is either {"auctions": [...]} or a bare array.
type AuctionDataResponse struct {
	Realms   []AuctionDataRealm `json:"realms"`
	Auctions json.RawMessage    `json:"auctions"`
}

// AuctionDataRealm lists a realm covered by the snapshot payload.
type AuctionDataRealm struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}
