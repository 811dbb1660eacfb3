package strategy

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProjectsTask/EasySwapExplorer/src/service/filter"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

const (
	contract      = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	otherContract = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	wallet        = "0xabcdef0000000000000000000000000000000001"
	now           = int64(1700000000)
)

func newEngine(store *fakeStore, reservoir OrderSource) *Engine {
	currencies := []types.Currency{{Coin: "ETH", Address: "0x0000000000000000000000000000000000000000", Decimals: 18}}
	builder := filter.NewOrderFilterBuilder(currencies, store, store).WithClock(func() int64 { return now })
	return NewEngine(store, builder, reservoir, Limits{DefaultLimit: 20, MaxLimit: 100})
}

func tokenAt(c, id string, updated time.Time) types.Token {
	return types.Token{ContractAddress: c, TokenID: id, TokenType: types.TokenTypeERC721, UpdatedAt: updated}
}

func listing(hash, c, id string, nfts ...types.Token) types.Order {
	return types.Order{
		Hash:   hash,
		Status: types.OrderStatusCreated,
		Side:   types.OrderSideSell,
		Make: types.Asset{AssetType: types.AssetType{
			AssetClass: types.AssetClassERC721,
			Contract:   c,
			TokenID:    id,
		}},
		Nfts: nfts,
	}
}

// multiListing ERC1155 挂单, 同一 token 可以同时有多个
func multiListing(hash string, tk types.Token) types.Order {
	o := listing(hash, tk.ContractAddress, tk.TokenID, tk)
	o.Make.AssetType.AssetClass = types.AssetClassERC1155
	return o
}

func hashes(orders []types.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Hash)
	}
	return out
}

func tokenIDs(got []*types.NftView) []string {
	out := make([]string, 0, len(got))
	for _, v := range got {
		out = append(out, v.TokenID)
	}
	return out
}

func views(t *testing.T, res *types.PagedResult) []*types.NftView {
	t.Helper()
	out := make([]*types.NftView, 0, len(res.Nfts))
	for _, e := range res.Nfts {
		v, ok := e.(*types.NftView)
		require.True(t, ok)
		out = append(out, v)
	}
	return out
}

func TestClassify(t *testing.T) {
	nft := types.NftParams{ContractAddress: contract}
	order := types.OrderParams{Side: types.OrderSideSell}
	owner := types.OwnerParams{OwnerAddress: wallet}
	history := types.HistoryParams{HistorySort: types.HistorySortRecentlyMinted}

	cases := []struct {
		name      string
		params    types.QueryParameters
		reservoir bool
		want      Kind
	}{
		{"none", types.QueryParameters{}, false, KindNone},
		{"nft", types.QueryParameters{Nft: nft}, false, KindNftOnly},
		{"order", types.QueryParameters{Order: order}, false, KindOrderOnly},
		{"owner", types.QueryParameters{Owner: owner}, false, KindOwnerOnly},
		{"nft owner", types.QueryParameters{Nft: nft, Owner: owner}, false, KindNftOwner},
		{"nft order", types.QueryParameters{Nft: nft, Order: order}, false, KindNftOrder},
		{"owner order", types.QueryParameters{Owner: owner, Order: order}, false, KindOwnerOrder},
		{"nft owner order", types.QueryParameters{Nft: nft, Owner: owner, Order: order}, false, KindNftOwnerOrder},
		{"all four", types.QueryParameters{Nft: nft, Owner: owner, Order: order, History: history}, false, KindHistory},
		{"history only", types.QueryParameters{History: history}, false, KindHistory},
		{"reservoir nft order", types.QueryParameters{Nft: nft, Order: order}, true, KindReservoirNftOrder},
		{"reservoir nft owner order", types.QueryParameters{Nft: nft, Owner: owner, Order: order}, true, KindReservoirNftOwnerOrder},
		{"reservoir needs contract", types.QueryParameters{Nft: types.NftParams{TokenType: types.TokenTypeERC721}, Order: order}, true, KindNftOrder},
		{"has offers alone", types.QueryParameters{Order: types.OrderParams{HasOffers: true}}, false, KindOrderOnly},
		{"before timestamp alone", types.QueryParameters{Order: types.OrderParams{BeforeTimestamp: 1}}, false, KindOrderOnly},
		{"traits alone", types.QueryParameters{Nft: types.NftParams{Traits: map[string][]string{"Eyes": {"Laser"}}}}, false, KindNftOnly},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Classify(c.params, c.reservoir))
		})
	}
}

func TestNormalize(t *testing.T) {
	e := newEngine(newFakeStore(), nil)

	c := e.NewContext(types.NftQueryParams{
		ContractAddress: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		OwnerAddress:    "0xABCDEF0000000000000000000000000000000001",
		Maker:           "0xABCDEF0000000000000000000000000000000002",
		Page:            3,
		Limit:           500,
	})
	p := c.Params()
	assert.Equal(t, contract, p.Nft.ContractAddress)
	assert.Equal(t, wallet, p.Owner.OwnerAddress)
	assert.Equal(t, "0xabcdef0000000000000000000000000000000002", p.Order.Maker)
	assert.Equal(t, 3, p.General.Page)
	assert.Equal(t, 100, p.General.Limit)
	assert.Equal(t, 200, p.General.SkippedItems)
	assert.Equal(t, KindNftOwnerOrder, c.Kind())

	p = e.NewContext(types.NftQueryParams{TokenType: "erc721"}).Params()
	assert.Equal(t, 1, p.General.Page)
	assert.Equal(t, 20, p.General.Limit)
	assert.Equal(t, 0, p.General.SkippedItems)
	assert.Equal(t, types.TokenTypeERC721, p.Nft.TokenType)
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()
	e := newEngine(newFakeStore(), nil)

	_, err := e.NewContext(types.NftQueryParams{Page: 2}).Run(ctx, ActionQuery)
	assert.True(t, errors.Is(err, ErrNoStrategy))

	_, err = e.NewContext(types.NftQueryParams{TokenType: types.TokenTypeERC721}).Run(ctx, Action("delete"))
	assert.True(t, errors.Is(err, ErrUnknownAction))

	_, err = e.NewContext(types.NftQueryParams{HistorySort: types.HistorySortRecentlyMinted}).Run(ctx, ActionQuery)
	assert.True(t, errors.Is(err, ErrHistoryContract))
}

func TestNftOnly(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.tokens = []types.Token{
		tokenAt(contract, "3", base.Add(3*time.Hour)),
		tokenAt(contract, "1", base.Add(2*time.Hour)),
		tokenAt(contract, "2", base.Add(time.Hour)),
	}
	store.owners = []types.Owner{{Address: wallet, ContractAddress: contract, TokenID: "1"}}
	store.orders = []types.Order{listing("o3", contract, "3")}
	e := newEngine(store, nil)

	raw := types.NftQueryParams{ContractAddress: contract, TokenType: types.TokenTypeERC721, Page: 1, Limit: 2}
	c := e.NewContext(raw)
	require.Equal(t, KindNftOnly, c.Kind())

	res, err := c.Query(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 2, res.Size)

	got := views(t, res)
	require.Len(t, got, 2)
	assert.Equal(t, "3", got[0].TokenID)
	assert.Equal(t, "1", got[1].TokenID)
	assert.True(t, got[0].UpdatedAt.After(got[1].UpdatedAt))

	assert.Empty(t, got[0].Owners)
	assert.NotNil(t, got[0].Owners)
	require.Len(t, got[0].Orders, 1)
	assert.Equal(t, "o3", got[0].Orders[0].Hash)
	assert.Equal(t, []types.OwnerView{{Owner: wallet, Value: "1"}}, got[1].Owners)
	assert.NotNil(t, got[1].Orders)
	assert.Empty(t, got[1].Orders)

	count, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count.Count)
}

func TestNftOwnerShortCircuit(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.owners = []types.Owner{{Address: wallet, ContractAddress: otherContract, TokenID: "1"}}
	store.tokens = []types.Token{tokenAt(contract, "1", time.Now())}
	e := newEngine(store, nil)

	c := e.NewContext(types.NftQueryParams{ContractAddress: contract, OwnerAddress: wallet})
	require.Equal(t, KindNftOwner, c.Kind())

	res, err := c.Query(ctx)
	require.NoError(t, err)
	assert.NotNil(t, res.Nfts)
	assert.Empty(t, res.Nfts)

	count, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count.Count)

	assert.Zero(t, store.count("FindTokens"))
	assert.Zero(t, store.count("CountTokens"))
}

func TestHasOffersWithoutBuyOrders(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.orders = []types.Order{listing("o1", contract, "1", tokenAt(contract, "1", time.Now()))}
	e := newEngine(store, nil)

	c := e.NewContext(types.NftQueryParams{HasOffers: true})
	require.Equal(t, KindOrderOnly, c.Kind())

	res, err := c.Query(ctx)
	require.NoError(t, err)
	assert.Empty(t, res.Nfts)
	assert.Equal(t, 1, store.count("FindActiveOfferRefs"))
	assert.Zero(t, store.count("FindOrders"))

	count, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count.Count)
}

func TestOrderOnly(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	t1 := tokenAt(contract, "1", time.Now())
	t2 := tokenAt(contract, "2", time.Now())
	t5 := tokenAt(otherContract, "5", time.Now())
	store.orders = []types.Order{
		listing("o2", contract, "2", t2),
		{
			Hash:   "b1",
			Status: types.OrderStatusCreated,
			Side:   types.OrderSideSell,
			Make: types.Asset{AssetType: types.AssetType{
				AssetClass: types.AssetClassERC721Bundle,
				Contracts:  []string{contract, otherContract},
				TokenIDs:   [][]string{{"1"}, {"5"}},
			}},
			Nfts: []types.Token{t1, t5},
		},
		listing("o9", contract, "9"),
	}
	e := newEngine(store, nil)

	c := e.NewContext(types.NftQueryParams{OrderSort: types.OrderSortRecentlyListed})
	res, err := c.Query(ctx)
	require.NoError(t, err)
	require.Len(t, res.Nfts, 2)

	single, ok := res.Nfts[0].(*types.NftView)
	require.True(t, ok)
	assert.Equal(t, "2", single.TokenID)
	require.Len(t, single.Orders, 1)
	assert.Equal(t, "o2", single.Orders[0].Hash)

	bundle, ok := res.Nfts[1].(*types.BundleView)
	require.True(t, ok)
	assert.Equal(t, "b1", bundle.Hash)
	assert.Equal(t, []types.Token{t1, t5}, bundle.Nfts)

	count, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(res.Nfts)), count.Count)
}

func TestNftOrderCountMatchesQuery(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("%d", i)
		store.tokens = append(store.tokens, tokenAt(contract, id, time.Now()))
		if i%2 == 0 {
			store.orders = append(store.orders, listing("o"+id, contract, id))
		}
	}
	// 订单对应的 token 不在 NFT 结果中
	store.orders = append(store.orders, listing("x", otherContract, "1"))
	e := newEngine(store, nil)

	for _, sort := range []string{"", types.OrderSortRecentlyListed} {
		raw := types.NftQueryParams{ContractAddress: contract, Side: types.OrderSideSell, OrderSort: sort, Limit: 100}
		c := e.NewContext(raw)
		require.Equal(t, KindNftOrder, c.Kind())

		res, err := c.Query(ctx)
		require.NoError(t, err)
		count, err := c.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(13), count.Count)
		assert.Len(t, res.Nfts, 13)

		raw.Limit, raw.Page = 10, 2
		res, err = e.NewContext(raw).Query(ctx)
		require.NoError(t, err)
		got := views(t, res)
		require.Len(t, got, 3)
		assert.Equal(t, "20", got[0].TokenID)
	}
}

func TestOwnerOnly(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	tk := tokenAt(contract, "4", time.Now())
	store.owners = []types.Owner{
		{Address: wallet, ContractAddress: contract, TokenID: "4", Token: &tk},
		{Address: wallet, ContractAddress: contract, TokenID: "5"},
	}
	e := newEngine(store, nil)

	c := e.NewContext(types.NftQueryParams{OwnerAddress: wallet})
	require.Equal(t, KindOwnerOnly, c.Kind())

	res, err := c.Query(ctx)
	require.NoError(t, err)
	got := views(t, res)
	require.Len(t, got, 1)
	assert.Equal(t, "4", got[0].TokenID)
	assert.Equal(t, []types.OwnerView{{Owner: wallet, Value: "1"}}, got[0].Owners)
	assert.Equal(t, 1, store.count("FindOwnersByKeys"))
}

func TestOwnerOrder(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	t1 := tokenAt(contract, "1", time.Now())
	t2 := tokenAt(contract, "2", time.Now())
	store.owners = []types.Owner{{Address: wallet, ContractAddress: contract, TokenID: "2"}}
	store.orders = []types.Order{listing("o1", contract, "1", t1), listing("o2", contract, "2", t2)}
	e := newEngine(store, nil)

	c := e.NewContext(types.NftQueryParams{OwnerAddress: wallet, Maker: wallet})
	require.Equal(t, KindOwnerOrder, c.Kind())

	res, err := c.Query(ctx)
	require.NoError(t, err)
	got := views(t, res)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].TokenID)
	assert.Equal(t, "o2", got[0].Orders[0].Hash)

	count, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(got)), count.Count)
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.history = []types.HistoryEntry{
		{ContractAddress: contract, TokenID: "7"},
		{ContractAddress: contract, TokenID: "2"},
		{ContractAddress: contract, TokenID: "5"},
	}
	store.tokens = []types.Token{
		tokenAt(contract, "2", time.Now()),
		tokenAt(contract, "5", time.Now()),
		tokenAt(contract, "7", time.Now()),
	}
	store.orders = []types.Order{listing("o5", contract, "5"), listing("o7", contract, "7")}
	e := newEngine(store, nil)

	c := e.NewContext(types.NftQueryParams{ContractAddress: contract, HistorySort: types.HistorySortRecentlyTransferred})
	require.Equal(t, KindHistory, c.Kind())
	res, err := c.Query(ctx)
	require.NoError(t, err)
	got := views(t, res)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"7", "2", "5"}, []string{got[0].TokenID, got[1].TokenID, got[2].TokenID})
	assert.Empty(t, got[1].Orders)
	assert.Zero(t, store.count("FindOrders"))

	raw := types.NftQueryParams{ContractAddress: contract, HistorySort: types.HistorySortRecentlyTransferred, Side: types.OrderSideSell}
	res, err = e.NewContext(raw).Query(ctx)
	require.NoError(t, err)
	got = views(t, res)
	require.Len(t, got, 2)
	assert.Equal(t, "7", got[0].TokenID)
	assert.Equal(t, "5", got[1].TokenID)
	assert.Equal(t, []string{"o7"}, hashes(got[0].Orders))

	count, err := e.NewContext(raw).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(got)), count.Count)
}

func TestReservoirNftOrder(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.tokens = []types.Token{
		tokenAt(contract, "1", time.Now()),
		tokenAt(contract, "2", time.Now()),
	}
	reservoir := &fakeReservoir{orders: []types.Order{listing("r2", contract, "2")}}
	e := newEngine(store, reservoir)

	c := e.NewContext(types.NftQueryParams{ContractAddress: contract, OrderSort: types.OrderSortLowestPrice})
	require.Equal(t, KindReservoirNftOrder, c.Kind())

	res, err := c.Query(ctx)
	require.NoError(t, err)
	got := views(t, res)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].TokenID)
	assert.Equal(t, "r2", got[0].Orders[0].Hash)
	assert.Equal(t, 1, reservoir.calls)
	assert.Zero(t, store.count("FindOrders"))
	assert.Zero(t, store.count("GetPrices"))

	count, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(got)), count.Count)
}

func TestQueryIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.tokens = []types.Token{tokenAt(contract, "1", time.Now()), tokenAt(contract, "2", time.Now())}
	store.orders = []types.Order{listing("o1", contract, "1"), listing("o2", contract, "2")}
	e := newEngine(store, nil)

	raw := types.NftQueryParams{ContractAddress: contract, Side: types.OrderSideSell}
	first, err := e.NewContext(raw).Query(ctx)
	require.NoError(t, err)
	second, err := e.NewContext(raw).Query(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNftOwner(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.owners = []types.Owner{
		{Address: wallet, ContractAddress: contract, TokenID: "1"},
		{Address: wallet, ContractAddress: otherContract, TokenID: "9"},
	}
	store.tokens = []types.Token{tokenAt(contract, "1", time.Now())}
	store.orders = []types.Order{listing("o1", contract, "1")}
	e := newEngine(store, nil)

	c := e.NewContext(types.NftQueryParams{ContractAddress: contract, OwnerAddress: wallet})
	require.Equal(t, KindNftOwner, c.Kind())

	res, err := c.Query(ctx)
	require.NoError(t, err)
	got := views(t, res)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].TokenID)
	assert.Equal(t, []types.OwnerView{{Owner: wallet, Value: "1"}}, got[0].Owners)
	assert.Equal(t, []string{"o1"}, hashes(got[0].Orders))
	assert.Equal(t, 1, store.count("FindTokens"))

	count, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(got)), count.Count)
}

// nftOwnerOrderStore 4 个 token, 钱包持有 2/3/4, 订单按 4,1,3 排序, 另有一个集合外的订单
func nftOwnerOrderStore() *fakeStore {
	store := newFakeStore()
	for i := 1; i <= 4; i++ {
		store.tokens = append(store.tokens, tokenAt(contract, fmt.Sprintf("%d", i), time.Now()))
	}
	for _, id := range []string{"2", "3", "4"} {
		store.owners = append(store.owners, types.Owner{Address: wallet, ContractAddress: contract, TokenID: id})
	}
	return store
}

func TestNftOwnerOrder(t *testing.T) {
	ctx := context.Background()
	store := nftOwnerOrderStore()
	outside := tokenAt(otherContract, "1", time.Now())
	store.orders = []types.Order{
		listing("o4", contract, "4", store.tokens[3]),
		listing("o1", contract, "1", store.tokens[0]),
		listing("o3", contract, "3", store.tokens[2]),
		listing("x", otherContract, "1", outside),
	}
	e := newEngine(store, nil)

	raw := types.NftQueryParams{ContractAddress: contract, OwnerAddress: wallet, Side: types.OrderSideSell, Limit: 100}
	c := e.NewContext(raw)
	require.Equal(t, KindNftOwnerOrder, c.Kind())

	res, err := c.Query(ctx)
	require.NoError(t, err)
	got := views(t, res)
	// o1 的 token 不被钱包持有, x 的 token 不在 NFT 结果中
	assert.Equal(t, []string{"4", "3"}, tokenIDs(got))
	assert.Equal(t, []string{"o4"}, hashes(got[0].Orders))
	assert.Equal(t, []types.OwnerView{{Owner: wallet, Value: "1"}}, got[1].Owners)

	count, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(got)), count.Count)

	raw.Limit, raw.Page = 1, 2
	res, err = e.NewContext(raw).Query(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, tokenIDs(views(t, res)))
}

func TestReservoirNftOwnerOrder(t *testing.T) {
	ctx := context.Background()
	store := nftOwnerOrderStore()
	reservoir := &fakeReservoir{orders: []types.Order{
		listing("r4", contract, "4"),
		listing("r1", contract, "1"),
		listing("r3", contract, "3"),
		listing("r3b", contract, "3"),
		listing("x", otherContract, "1"),
	}}
	e := newEngine(store, reservoir)

	raw := types.NftQueryParams{ContractAddress: contract, OwnerAddress: wallet, OrderSort: types.OrderSortLowestPrice, Limit: 100}
	c := e.NewContext(raw)
	require.Equal(t, KindReservoirNftOwnerOrder, c.Kind())

	res, err := c.Query(ctx)
	require.NoError(t, err)
	got := views(t, res)
	assert.Equal(t, []string{"4", "3"}, tokenIDs(got))
	assert.Equal(t, []string{"r4"}, hashes(got[0].Orders))
	assert.Equal(t, []string{"r3", "r3b"}, hashes(got[1].Orders))
	assert.Zero(t, store.count("FindOrders"))

	count, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(got)), count.Count)
	assert.Equal(t, 2, reservoir.calls)
}

func TestOrderDrivenViewsCarryEveryListing(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	semi := tokenAt(contract, "7", time.Now())
	semi.TokenType = types.TokenTypeERC1155
	store.tokens = []types.Token{semi}
	store.owners = []types.Owner{{Address: wallet, ContractAddress: contract, TokenID: "7", Value: "3"}}
	store.history = []types.HistoryEntry{{ContractAddress: contract, TokenID: "7"}}
	store.orders = []types.Order{multiListing("a", semi), multiListing("b", semi)}
	e := newEngine(store, nil)

	cases := []struct {
		name string
		raw  types.NftQueryParams
		kind Kind
	}{
		{"nft", types.NftQueryParams{ContractAddress: contract}, KindNftOnly},
		{"order", types.NftQueryParams{OrderSort: types.OrderSortRecentlyListed}, KindOrderOnly},
		{"owner order", types.NftQueryParams{OwnerAddress: wallet, OrderSort: types.OrderSortRecentlyListed}, KindOwnerOrder},
		{"nft order by tokens", types.NftQueryParams{ContractAddress: contract, Side: types.OrderSideSell}, KindNftOrder},
		{"nft order by orders", types.NftQueryParams{ContractAddress: contract, OrderSort: types.OrderSortRecentlyListed}, KindNftOrder},
		{"nft owner order", types.NftQueryParams{ContractAddress: contract, OwnerAddress: wallet, Side: types.OrderSideSell}, KindNftOwnerOrder},
		{"history", types.NftQueryParams{ContractAddress: contract, HistorySort: types.HistorySortRecentlyTransferred, Side: types.OrderSideSell}, KindHistory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := e.NewContext(tc.raw)
			require.Equal(t, tc.kind, c.Kind())

			res, err := c.Query(ctx)
			require.NoError(t, err)
			got := views(t, res)
			require.Len(t, got, 1)
			assert.Equal(t, []string{"a", "b"}, hashes(got[0].Orders))
			assert.Equal(t, []types.OwnerView{{Owner: wallet, Value: "3"}}, got[0].Owners)
		})
	}
}

func TestPageBeyondLastPage(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	t1 := tokenAt(contract, "1", time.Now())
	t2 := tokenAt(contract, "2", time.Now())
	store.tokens = []types.Token{t1, t2}
	store.orders = []types.Order{listing("o1", contract, "1", t1), listing("o2", contract, "2", t2)}
	e := newEngine(store, nil)

	cases := []struct {
		name string
		raw  types.NftQueryParams
		kind Kind
	}{
		{"paged in memory", types.NftQueryParams{OrderSort: types.OrderSortRecentlyListed, Page: math.MaxInt, Limit: 4}, KindOrderOnly},
		{"paged in store", types.NftQueryParams{ContractAddress: contract, Page: math.MaxInt, Limit: 4}, KindNftOnly},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := e.NewContext(tc.raw)
			require.Equal(t, tc.kind, c.Kind())

			p := c.Params()
			assert.Equal(t, types.MaxPage, p.General.Page)
			assert.Equal(t, (types.MaxPage-1)*4, p.General.SkippedItems)

			var res *types.PagedResult
			var err error
			require.NotPanics(t, func() { res, err = c.Query(ctx) })
			require.NoError(t, err)
			assert.Equal(t, types.MaxPage, res.Page)
			assert.NotNil(t, res.Nfts)
			assert.Empty(t, res.Nfts)
		})
	}
}
