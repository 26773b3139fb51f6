package writer

import "github.com/rickgao/ah-ledger/internal/model"

// RealmIndex is the content of realms.json. It lives for one run and only
// receives realms whose auction house was written successfully.
type RealmIndex struct {
	Realms []model.RealmIndexEntry `json:"realms"`
}

// NewRealmIndex creates an empty index.
func NewRealmIndex() *RealmIndex {
	return &RealmIndex{Realms: []model.RealmIndexEntry{}}
}

// AddGroup appends one entry per slug, all pointing at the representative's files.
// names maps slug to display name; a missing name falls back to the slug.
func (ix *RealmIndex) AddGroup(slugs []string, representative string, lastModified int64, names map[string]string) {
	for _, slug := range slugs {
		name, ok := names[slug]
		if !ok {
			name = slug
		}
		ix.Realms = append(ix.Realms, model.RealmIndexEntry{
			Name:         name,
			Slug:         slug,
			LastModified: lastModified,
			Stats:        StatsFile(representative),
			AuctionFile:  AuctionsFile(representative),
		})
	}
}

// Len returns the number of indexed realms.
func (ix *RealmIndex) Len() int {
	return len(ix.Realms)
}
