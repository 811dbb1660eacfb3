package reservoir

import (
	"context"
	"math"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/zeromicro/go-zero/core/mr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ProjectsTask/EasySwapExplorer/src/common/utils"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/filter"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

const nativeDecimals = 18

// Source 将外部卖单转换为本地订单结构并按订单参数过滤、排序
type Source struct {
	client *Client
	now    func() int64
}

func NewSource(client *Client) *Source {
	return &Source{client: client, now: utils.NowUnix}
}

// entry 转换中的卖单及其原生币价格
type entry struct {
	order types.Order
	price decimal.Decimal
}

// Orders 集合当前的卖单, 每个 token 取最低价
// 1. 指定 tokenIDs 时逐个查询 asks, 取有效卖单中的最低价
// 2. 否则翻页获取挂单列表, 价格取地板价接口的结果
func (s *Source) Orders(ctx context.Context, contract string, tokenIDs []string, p types.OrderParams) ([]types.Order, error) {
	// 外部服务只提供卖单
	if p.Side == types.OrderSideBuy {
		return nil, nil
	}

	var entries []entry
	var err error
	if len(tokenIDs) > 0 {
		entries, err = s.fromAsks(ctx, contract, tokenIDs)
	} else {
		entries, err = s.fromListings(ctx, contract)
	}
	if err != nil {
		return nil, err
	}

	entries, err = s.filter(entries, p)
	if err != nil {
		return nil, err
	}
	sortEntries(entries, p.OrderSort)

	orders := make([]types.Order, 0, len(entries))
	for _, e := range entries {
		orders = append(orders, e.order)
	}
	return orders, nil
}

func (s *Source) fromAsks(ctx context.Context, contract string, tokenIDs []string) ([]entry, error) {
	now := s.now()
	var mu sync.Mutex
	best := make(map[string]entry, len(tokenIDs))

	fns := make([]func() error, 0, len(tokenIDs))
	for _, id := range tokenIDs {
		tokenID := id
		fns = append(fns, func() error {
			asks, err := s.client.Asks(ctx, contract, tokenID)
			if err != nil {
				return errors.Wrapf(err, "failed on query asks of %s", tokenID)
			}
			for _, a := range asks {
				e, ok := askEntry(contract, tokenID, a)
				if !ok || !e.order.IsActive(now) {
					continue
				}
				mu.Lock()
				if cur, exists := best[tokenID]; !exists || e.price.LessThan(cur.price) {
					best[tokenID] = e
				}
				mu.Unlock()
			}
			return nil
		})
	}
	if err := mr.Finish(fns...); err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(best))
	for _, id := range tokenIDs {
		if e, ok := best[id]; ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (s *Source) fromListings(ctx context.Context, contract string) ([]entry, error) {
	var listed []ListedToken
	var floors map[string]decimal.Decimal
	err := mr.Finish(func() (err error) {
		listed, err = s.client.ListedTokens(ctx, contract)
		return errors.Wrap(err, "failed on query listed tokens")
	}, func() (err error) {
		floors, err = s.client.FloorPrices(ctx, contract)
		return errors.Wrap(err, "failed on query floor prices")
	})
	if err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(listed))
	for _, t := range listed {
		ask := t.Market.FloorAsk
		price, ok := floors[t.Token.TokenID]
		if !ok || ask.ID == "" {
			continue
		}
		value, err := toWei(price, nativeDecimals)
		if err != nil {
			continue
		}
		o := newOrder(ask.ID, contract, t.Token.TokenID, ask.Maker, ask.ValidFrom, ask.ValidUntil)
		o.Take = types.Asset{AssetType: types.AssetType{AssetClass: types.AssetClassETH}, Value: value}
		o.CreatedAt = time.Unix(ask.ValidFrom, 0).UTC()
		entries = append(entries, entry{order: o, price: price})
	}
	return entries, nil
}

// askEntry 卖单转换, 价格缺失或格式错误时跳过
func askEntry(contract, tokenID string, a Ask) (entry, bool) {
	if a.Price == nil || (a.Side != "" && !strings.EqualFold(a.Side, "sell")) {
		return entry{}, false
	}
	if a.Criteria.Data.Token.TokenID != "" {
		tokenID = a.Criteria.Data.Token.TokenID
	}

	o := newOrder(a.ID, contract, tokenID, a.Maker, a.ValidFrom, a.ValidUntil)
	o.CreatedAt = a.CreatedAt.UTC()

	cur := a.Price.Currency
	decimals := cur.Decimals
	if decimals == 0 {
		decimals = nativeDecimals
	}
	var value primitive.Decimal128
	var err error
	if a.Price.Amount.Raw != "" {
		value, err = primitive.ParseDecimal128(a.Price.Amount.Raw)
	} else {
		value, err = toWei(a.Price.Amount.Decimal, decimals)
	}
	if err != nil {
		return entry{}, false
	}

	take := types.AssetType{AssetClass: types.AssetClassETH}
	if cur.Contract != "" && !utils.IsZeroAddress(cur.Contract) {
		take = types.AssetType{AssetClass: types.AssetClassERC20, Contract: strings.ToLower(cur.Contract)}
	}
	o.Take = types.Asset{AssetType: take, Value: value}

	price := a.Price.Amount.Decimal
	if price.IsZero() && a.Price.Amount.Raw != "" {
		raw, err := decimal.NewFromString(a.Price.Amount.Raw)
		if err != nil {
			return entry{}, false
		}
		price = raw.Shift(-decimals)
	}
	return entry{order: o, price: price}, true
}

func newOrder(id, contract, tokenID, maker string, start, end int64) types.Order {
	return types.Order{
		Hash:   id,
		Status: types.OrderStatusCreated,
		Side:   types.OrderSideSell,
		Maker:  strings.ToLower(maker),
		Make: types.Asset{AssetType: types.AssetType{
			AssetClass: types.AssetClassERC721,
			Contract:   strings.ToLower(contract),
			TokenID:    tokenID,
		}},
		Start: start,
		End:   end,
		Data:  bson.M{"source": "reservoir"},
	}
}

// filter 价格区间、maker、创建时间及有效期过滤
// tokenAddress 与 assetClass 的语义与本地订单过滤一致:
// 零地址只保留原生币计价的订单, 其它地址匹配 NFT 合约; assetClass 匹配 make 侧资产类型
func (s *Source) filter(entries []entry, p types.OrderParams) ([]entry, error) {
	var lower, upper *decimal.Decimal
	if p.MinPrice != "" {
		d, err := decimal.NewFromString(p.MinPrice)
		if err != nil {
			return nil, errors.Wrap(err, "invalid minPrice")
		}
		lower = &d
	}
	if p.MaxPrice != "" {
		d, err := decimal.NewFromString(p.MaxPrice)
		if err != nil {
			return nil, errors.Wrap(err, "invalid maxPrice")
		}
		upper = &d
	}

	classes := p.AssetClassList()
	now := s.now()
	out := entries[:0]
	for _, e := range entries {
		o := e.order
		if !o.IsActive(now) {
			continue
		}
		if lower != nil && e.price.LessThan(*lower) {
			continue
		}
		if upper != nil && e.price.GreaterThan(*upper) {
			continue
		}
		if p.Maker != "" && o.Maker != strings.ToLower(p.Maker) {
			continue
		}
		if p.BeforeTimestamp > 0 && !o.CreatedAt.Before(time.Unix(p.BeforeTimestamp, 0)) {
			continue
		}
		if !matchTokenAddress(o, p.TokenAddress) {
			continue
		}
		if len(classes) > 0 && !slices.Contains(classes, o.Make.AssetType.AssetClass) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func matchTokenAddress(o types.Order, addr string) bool {
	switch {
	case addr == "":
		return true
	case utils.IsZeroAddress(addr):
		return o.Take.AssetType.AssetClass == types.AssetClassETH
	}
	return strings.EqualFold(o.Make.AssetType.Contract, addr)
}

// sortEntries 与本地订单排序一致, 未指定排序时保持外部服务返回的顺序
func sortEntries(entries []entry, orderSort string) {
	var less func(a, b entry) bool
	switch orderSort {
	case types.OrderSortHighestPrice:
		less = func(a, b entry) bool { return a.price.GreaterThan(b.price) }
	case types.OrderSortLowestPrice:
		less = func(a, b entry) bool { return a.price.LessThan(b.price) }
	case types.OrderSortRecentlyListed:
		less = func(a, b entry) bool { return a.order.CreatedAt.After(b.order.CreatedAt) }
	case types.OrderSortTokenIDAsc:
		less = func(a, b entry) bool { return tokenIDLess(a.order.Make.AssetType.TokenID, b.order.Make.AssetType.TokenID) }
	case types.OrderSortTokenIDDesc:
		less = func(a, b entry) bool { return tokenIDLess(b.order.Make.AssetType.TokenID, a.order.Make.AssetType.TokenID) }
	case types.OrderSortEndingSoon:
		less = func(a, b entry) bool { return endKey(a.order.End) < endKey(b.order.End) }
	default:
		return
	}
	sort.SliceStable(entries, func(i, j int) bool { return less(entries[i], entries[j]) })
}

func tokenIDLess(a, b string) bool {
	da, errA := decimal.NewFromString(a)
	db, errB := decimal.NewFromString(b)
	if errA != nil || errB != nil {
		return a < b
	}
	return da.LessThan(db)
}

func endKey(end int64) int64 {
	if end == 0 {
		return math.MaxInt64
	}
	return end
}

func toWei(price decimal.Decimal, decimals int32) (primitive.Decimal128, error) {
	return filter.ToBaseUnits(price.String(), decimals)
}
