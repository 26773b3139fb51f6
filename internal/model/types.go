package model

import (
	"encoding/json"
	"fmt"
)

// -----------------------------------------------------------------------------
// Realm Directory
// -----------------------------------------------------------------------------

// Realm is one entry of the realm directory.
type Realm struct {
	Slug      string   // Primary key (e.g., "argent-dawn")
	Name      string   // Display name
	Connected []string // Slugs of realms sharing this realm's auction house
}

// RealmIndexEntry points a realm at the files written for its auction house.
// Every realm in a group references the representative's files.
type RealmIndexEntry struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	LastModified int64  `json:"lastModified"`
	Stats        string `json:"stats"`
	AuctionFile  string `json:"auction_file"`
}

// -----------------------------------------------------------------------------
// Auctions
// -----------------------------------------------------------------------------

// AuctionRecord is a single auction listing from a snapshot.
//
// Records decoded from JSON keep their original bytes and re-encode to them
// unchanged, so fields the ledger does not model survive into the output.
type AuctionRecord struct {
	Auc        int64  `json:"auc,omitempty"`
	Item       int64  `json:"item,omitempty"`
	Owner      string `json:"owner"`
	OwnerRealm string `json:"ownerRealm"`
	Bid        int64  `json:"bid,omitempty"`
	Buyout     int64  `json:"buyout"`
	Quantity   int64  `json:"quantity"`
	TimeLeft   string `json:"timeLeft,omitempty"`

	raw json.RawMessage
}

// auctionFields has the same layout as AuctionRecord without its methods.
type auctionFields AuctionRecord

// UnmarshalJSON decodes the modeled fields and retains the raw record.
func (a *AuctionRecord) UnmarshalJSON(data []byte) error {
	var f auctionFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*a = AuctionRecord(f)
	a.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the original bytes for decoded records.
func (a AuctionRecord) MarshalJSON() ([]byte, error) {
	if a.raw != nil {
		return a.raw, nil
	}
	return json.Marshal(auctionFields(a))
}

// Validate rejects records that would make totals decrease.
func (a AuctionRecord) Validate() error {
	if a.Buyout < 0 {
		return fmt.Errorf("auction %d: negative buyout %d", a.Auc, a.Buyout)
	}
	if a.Quantity < 0 {
		return fmt.Errorf("auction %d: negative quantity %d", a.Auc, a.Quantity)
	}
	return nil
}

// Key returns the identity of the player who owns the auction.
func (a AuctionRecord) Key() PlayerKey {
	return PlayerKey{Owner: a.Owner, Realm: a.OwnerRealm}
}

// PlayerKey identifies a seller: character name plus the character's realm.
type PlayerKey struct {
	Owner string
	Realm string
}

// Stats holds point-in-time auction totals for a player or a whole auction house.
type Stats struct {
	AuctionCount int64 `json:"auction_count"`
	BuyoutTotal  int64 `json:"buyout_total"`
	Items        int64 `json:"items"`
}

// Add folds one auction into the totals.
func (s *Stats) Add(a AuctionRecord) {
	s.AuctionCount++
	s.BuyoutTotal += a.Buyout
	s.Items += a.Quantity
}

// Snapshot is one point-in-time dump of all auctions for an auction house.
type Snapshot struct {
	Slug         string          // Representative realm the snapshot was fetched for
	LastModified int64           // API lastModified (ms since epoch)
	Auctions     []AuctionRecord // In fetch order
}
