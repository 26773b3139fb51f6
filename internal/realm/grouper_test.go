package realm

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/ah-ledger/internal/model"
)

func slugsOf(groups []Group) [][]string {
	out := make([][]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Slugs)
	}
	return out
}

func TestGroupRealms_SymmetricPairAndIsolated(t *testing.T) {
	realms := []model.Realm{
		{Slug: "a", Connected: []string{"a", "b"}},
		{Slug: "b", Connected: []string{"b", "a"}},
		{Slug: "c", Connected: []string{"c"}},
	}

	groups := GroupRealms(realms)

	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, slugsOf(groups))
}

func TestGroupRealms_NoConnectionsIsSingleton(t *testing.T) {
	groups := GroupRealms([]model.Realm{{Slug: "solo"}})

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"solo"}, groups[0].Slugs)
	assert.Equal(t, "solo", groups[0].Representative())
}

func TestGroupRealms_ForeignSlugDropped(t *testing.T) {
	realms := []model.Realm{
		{Slug: "a", Connected: []string{"a", "ghost", "b"}},
		{Slug: "b", Connected: []string{"b", "a"}},
	}

	groups := GroupRealms(realms)

	require.Len(t, groups, 1)
	assert.Equal(t, []string{"a", "b"}, groups[0].Slugs)
	assert.False(t, groups[0].Contains("ghost"))
}

func TestGroupRealms_Empty(t *testing.T) {
	assert.Empty(t, GroupRealms(nil))
	assert.Empty(t, GroupRealms([]model.Realm{}))
}

func TestGroupRealms_AsymmetricConnectionsMerged(t *testing.T) {
	// b does not list a; the sets {a,b} and {b} overlap and must merge.
	realms := []model.Realm{
		{Slug: "a", Connected: []string{"a", "b"}},
		{Slug: "b", Connected: []string{"b"}},
		{Slug: "c"},
	}

	groups := GroupRealms(realms)

	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, slugsOf(groups))
}

func TestGroupRealms_Idempotent(t *testing.T) {
	realms := []model.Realm{
		{Slug: "z", Connected: []string{"y", "z"}},
		{Slug: "y", Connected: []string{"z", "y"}},
		{Slug: "m", Connected: []string{"m", "n", "o"}},
		{Slug: "n", Connected: []string{"o", "m", "n"}},
		{Slug: "o", Connected: []string{"n", "o", "m"}},
	}

	first := GroupRealms(realms)
	second := GroupRealms(realms)

	assert.Equal(t, first, second)
	assert.Equal(t, [][]string{{"m", "n", "o"}, {"y", "z"}}, slugsOf(first))
}

func TestGroup_Contains(t *testing.T) {
	g := Group{Slugs: []string{"a", "c", "e"}}

	assert.True(t, g.Contains("c"))
	assert.False(t, g.Contains("b"))
	assert.Equal(t, "", Group{}.Representative())
}

// randomDirectory builds a directory of symmetric connected-realm clusters,
// sprinkled with foreign references.
func randomDirectory(r *rand.Rand, n int) []model.Realm {
	slugs := make([]string, n)
	for i := range slugs {
		slugs[i] = fmt.Sprintf("realm-%03d", i)
	}
	r.Shuffle(len(slugs), func(i, j int) { slugs[i], slugs[j] = slugs[j], slugs[i] })

	var realms []model.Realm
	for len(slugs) > 0 {
		size := 1 + r.IntN(4)
		if size > len(slugs) {
			size = len(slugs)
		}
		cluster := slugs[:size]
		slugs = slugs[size:]

		for _, s := range cluster {
			connected := append([]string(nil), cluster...)
			if r.IntN(5) == 0 {
				connected = append(connected, "foreign-"+s)
			}
			r.Shuffle(len(connected), func(i, j int) { connected[i], connected[j] = connected[j], connected[i] })
			realms = append(realms, model.Realm{Slug: s, Connected: connected})
		}
	}
	return realms
}

func TestGroupRealms_IsPartition(t *testing.T) {
	for seed := uint64(1); seed <= 25; seed++ {
		r := rand.New(rand.NewPCG(seed, seed*7))
		realms := randomDirectory(r, 1+r.IntN(60))

		groups := GroupRealms(realms)

		count := make(map[string]int)
		for _, g := range groups {
			require.NotEmpty(t, g.Slugs)
			for _, s := range g.Slugs {
				count[s]++
			}
		}
		for _, realm := range realms {
			assert.Equal(t, 1, count[realm.Slug], "seed %d: realm %s", seed, realm.Slug)
		}
		assert.Len(t, count, len(realms), "seed %d: foreign slugs leaked into groups", seed)
		assert.Equal(t, groups, GroupRealms(realms), "seed %d: grouping not idempotent", seed)
	}
}
