package realm

import (
	"slices"
	"strings"

	"github.com/rickgao/ah-ledger/internal/model"
)

// Group is a set of realm slugs sharing one auction house.
// Slugs are sorted and unique.
type Group struct {
	Slugs []string
}

// Representative returns the realm queried for the group's snapshot.
// It is the lowest slug, so it is stable for identical directories.
func (g Group) Representative() string {
	if len(g.Slugs) == 0 {
		return ""
	}
	return g.Slugs[0]
}

// Contains reports whether slug belongs to the group.
func (g Group) Contains(slug string) bool {
	_, ok := slices.BinarySearch(g.Slugs, slug)
	return ok
}

func (g Group) key() string {
	return strings.Join(g.Slugs, "\x00")
}

// GroupRealms partitions realms into auction-house groups.
//
// Each realm contributes the set of its connected slugs restricted to slugs
// in realms, plus itself. Equal sets collapse into one group. When the
// directory is inconsistent (A lists B but B does not list A), overlapping
// sets are merged so every slug ends up in exactly one group.
//
// Groups are ordered by representative slug.
func GroupRealms(realms []model.Realm) []Group {
	if len(realms) == 0 {
		return nil
	}

	known := make(map[string]struct{}, len(realms))
	for _, r := range realms {
		known[r.Slug] = struct{}{}
	}

	// Deduplicate by value.
	seen := make(map[string]struct{})
	var sets [][]string
	for _, r := range realms {
		set := []string{r.Slug}
		for _, slug := range r.Connected {
			if _, ok := known[slug]; ok {
				set = append(set, slug)
			}
		}
		slices.Sort(set)
		set = slices.Compact(set)

		k := Group{Slugs: set}.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		sets = append(sets, set)
	}

	return merge(sets)
}

// merge unions overlapping slug sets into disjoint groups.
func merge(sets [][]string) []Group {
	uf := newUnionFind()
	for _, set := range sets {
		for _, slug := range set[1:] {
			uf.union(set[0], slug)
		}
		uf.find(set[0])
	}

	members := make(map[string][]string)
	for slug := range uf.parent {
		root := uf.find(slug)
		members[root] = append(members[root], slug)
	}

	groups := make([]Group, 0, len(members))
	for _, slugs := range members {
		slices.Sort(slugs)
		groups = append(groups, Group{Slugs: slugs})
	}
	slices.SortFunc(groups, func(a, b Group) int {
		return strings.Compare(a.Representative(), b.Representative())
	})
	return groups
}

type unionFind struct {
	parent map[string]string
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[string]string)}
}

func (u *unionFind) find(x string) string {
	p, ok := u.parent[x]
	if !ok {
		u.parent[x] = x
		return x
	}
	if p == x {
		return x
	}
	root := u.find(p)
	u.parent[x] = root
	return root
}

func (u *unionFind) union(a, b string) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	// Lower slug wins so roots do not depend on input order.
	if rb < ra {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
}
