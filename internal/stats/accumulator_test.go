package stats

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/ah-ledger/internal/model"
)

func TestAccumulator_TwoAuctionsOneSeller(t *testing.T) {
	acc := New("aegwynn")
	recs := []model.AuctionRecord{
		{Owner: "x", OwnerRealm: "r1", Buyout: 100, Quantity: 2},
		{Owner: "x", OwnerRealm: "r1", Buyout: 50, Quantity: 1},
	}
	require.NoError(t, acc.AddAll(recs))

	want := model.Stats{AuctionCount: 2, BuyoutTotal: 150, Items: 3}
	assert.Equal(t, want, acc.RealmStats())
	require.Equal(t, 1, acc.PlayerCount())

	bucket, ok := acc.Player(model.PlayerKey{Owner: "x", Realm: "r1"})
	require.True(t, ok)
	assert.Equal(t, want, bucket.Stats)
	assert.Equal(t, recs, bucket.Auctions)
}

func TestAccumulator_SameNameDifferentRealmIsDistinct(t *testing.T) {
	acc := New("aegwynn")
	require.NoError(t, acc.AddAll([]model.AuctionRecord{
		{Owner: "x", OwnerRealm: "r1", Buyout: 1, Quantity: 1},
		{Owner: "x", OwnerRealm: "r2", Buyout: 2, Quantity: 1},
		{Owner: "y", OwnerRealm: "r1", Buyout: 3, Quantity: 1},
	}))

	assert.Equal(t, 3, acc.PlayerCount())
}

func TestAccumulator_PlayersInFirstSeenOrder(t *testing.T) {
	acc := New("aegwynn")
	owners := []string{"zed", "amy", "zed", "bob", "amy", "carl"}
	for i, o := range owners {
		require.NoError(t, acc.Add(model.AuctionRecord{Owner: o, OwnerRealm: "r", Buyout: int64(i), Quantity: 1}))
	}

	var got []string
	for _, p := range acc.Players() {
		got = append(got, p.Key.Owner)
	}
	assert.Equal(t, []string{"zed", "amy", "bob", "carl"}, got)

	zed, _ := acc.Player(model.PlayerKey{Owner: "zed", Realm: "r"})
	require.Len(t, zed.Auctions, 2)
	assert.Equal(t, int64(0), zed.Auctions[0].Buyout)
	assert.Equal(t, int64(2), zed.Auctions[1].Buyout)
}

func TestAccumulator_FinalizeOrdering(t *testing.T) {
	acc := New("aegwynn")
	require.NoError(t, acc.Add(model.AuctionRecord{Owner: "x", OwnerRealm: "r", Buyout: 1, Quantity: 1}))

	_, err := acc.Documents()
	assert.ErrorIs(t, err, ErrNotFinalized)

	acc.Finalize()
	acc.Finalize()
	assert.True(t, acc.Finalized())

	assert.ErrorIs(t, acc.Add(model.AuctionRecord{Owner: "y"}), ErrFinalized)
	assert.ErrorIs(t, acc.AddAll([]model.AuctionRecord{{Owner: "y"}}), ErrFinalized)

	docs, err := acc.Documents()
	require.NoError(t, err)
	assert.Equal(t, int64(1), docs.Realm.AuctionCount)
	assert.Equal(t, "aegwynn", docs.Slug)
}

func TestAccumulator_EmptySnapshotDocuments(t *testing.T) {
	acc := New("quiet")
	acc.Finalize()

	docs, err := acc.Documents()
	require.NoError(t, err)

	players, err := json.Marshal(docs.Players)
	require.NoError(t, err)
	assert.JSONEq(t, `{"players":[]}`, string(players))

	auctions, err := json.Marshal(docs.Auctions)
	require.NoError(t, err)
	assert.JSONEq(t, `{"auctions":[]}`, string(auctions))

	realm, err := json.Marshal(docs.Realm)
	require.NoError(t, err)
	assert.JSONEq(t, `{"auction_count":0,"buyout_total":0,"items":0}`, string(realm))
}

func TestDocuments_Shape(t *testing.T) {
	acc := New("aegwynn")
	require.NoError(t, acc.AddAll([]model.AuctionRecord{
		{Owner: "x", OwnerRealm: "r1", Buyout: 100, Quantity: 2},
		{Owner: "y", OwnerRealm: "r2", Buyout: 7, Quantity: 1},
	}))
	acc.Finalize()

	docs, err := acc.Documents()
	require.NoError(t, err)

	out, err := json.Marshal(docs.Players)
	require.NoError(t, err)
	assert.JSONEq(t, `{"players":[
		{"player":"x","realm":"r1","stats":{"auction_count":1,"buyout_total":100,"items":2},
		 "auctions":[{"owner":"x","ownerRealm":"r1","buyout":100,"quantity":2}]},
		{"player":"y","realm":"r2","stats":{"auction_count":1,"buyout_total":7,"items":1},
		 "auctions":[{"owner":"y","ownerRealm":"r2","buyout":7,"quantity":1}]}
	]}`, string(out))

	require.Len(t, docs.Auctions.Auctions, 2)
	assert.Equal(t, "x", docs.Auctions.Auctions[0].Owner)
	assert.Equal(t, "y", docs.Auctions.Auctions[1].Owner)
}

func randomRecords(r *rand.Rand, n int) []model.AuctionRecord {
	recs := make([]model.AuctionRecord, n)
	for i := range recs {
		recs[i] = model.AuctionRecord{
			Auc:        int64(i + 1),
			Owner:      fmt.Sprintf("seller-%d", r.IntN(12)),
			OwnerRealm: fmt.Sprintf("realm-%d", r.IntN(3)),
			Buyout:     r.Int64N(10_000_000),
			Quantity:   1 + r.Int64N(200),
		}
	}
	return recs
}

func TestAccumulator_TotalsAndConservation(t *testing.T) {
	for seed := uint64(1); seed <= 30; seed++ {
		r := rand.New(rand.NewPCG(seed, seed^0x5eed))
		recs := randomRecords(r, r.IntN(400))

		acc := New("prop")
		require.NoError(t, acc.AddAll(recs))

		var buyout, items int64
		perPlayer := make(map[model.PlayerKey][]model.AuctionRecord)
		for _, rec := range recs {
			buyout += rec.Buyout
			items += rec.Quantity
			perPlayer[rec.Key()] = append(perPlayer[rec.Key()], rec)
		}

		realm := acc.RealmStats()
		assert.Equal(t, int64(len(recs)), realm.AuctionCount, "seed %d", seed)
		assert.Equal(t, buyout, realm.BuyoutTotal, "seed %d", seed)
		assert.Equal(t, items, realm.Items, "seed %d", seed)

		var sum model.Stats
		for _, p := range acc.Players() {
			want := perPlayer[p.Key]
			assert.Equal(t, want, p.Auctions, "seed %d player %v", seed, p.Key)

			var expect model.Stats
			for _, rec := range want {
				expect.Add(rec)
			}
			assert.Equal(t, expect, p.Stats, "seed %d player %v", seed, p.Key)

			sum.AuctionCount += p.Stats.AuctionCount
			sum.BuyoutTotal += p.Stats.BuyoutTotal
			sum.Items += p.Stats.Items
		}
		assert.Equal(t, realm, sum, "seed %d: per-player totals must add up to realm totals", seed)
		assert.Equal(t, len(perPlayer), acc.PlayerCount(), "seed %d", seed)
	}
}
