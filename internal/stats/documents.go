package stats

import "github.com/rickgao/ah-ledger/internal/model"

// PlayersDocument is the content of <slug>-players.json.
type PlayersDocument struct {
	Players []PlayerEntry `json:"players"`
}

// PlayerEntry is one seller in the players document.
type PlayerEntry struct {
	Player   string                `json:"player"`
	Realm    string                `json:"realm"`
	Stats    model.Stats           `json:"stats"`
	Auctions []model.AuctionRecord `json:"auctions"`
}

// AuctionsDocument is the content of <slug>-auctions.json.
type AuctionsDocument struct {
	Auctions []model.AuctionRecord `json:"auctions"`
}

// Documents bundles the three per-auction-house documents.
type Documents struct {
	Slug     string
	Players  PlayersDocument
	Realm    model.Stats // content of <slug>.json
	Auctions AuctionsDocument
}

// Documents assembles the output documents. Finalize must have run.
func (a *Accumulator) Documents() (*Documents, error) {
	if !a.finalized {
		return nil, ErrNotFinalized
	}

	players := make([]PlayerEntry, 0, len(a.order))
	for _, b := range a.order {
		players = append(players, PlayerEntry{
			Player:   b.Key.Owner,
			Realm:    b.Key.Realm,
			Stats:    b.Stats,
			Auctions: b.Auctions,
		})
	}

	return &Documents{
		Slug:     a.slug,
		Players:  PlayersDocument{Players: players},
		Realm:    a.realm,
		Auctions: AuctionsDocument{Auctions: a.auctions},
	}, nil
}
