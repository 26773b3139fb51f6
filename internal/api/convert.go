package api

import (
	"strings"

	"github.com/rickgao/ah-ledger/internal/model"
)

// ToRealm converts an API realm to the model type.
// Connected slugs are trimmed and empty entries dropped.
func (r APIRealm) ToRealm() model.Realm {
	connected := make([]string, 0, len(r.ConnectedRealms))
	for _, slug := range r.ConnectedRealms {
		slug = strings.TrimSpace(slug)
		if slug != "" {
			connected = append(connected, slug)
		}
	}
	return model.Realm{
		Slug:      r.Slug,
		Name:      r.Name,
		Connected: connected,
	}
}
