package filter

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasySwapExplorer/src/common/utils"
	"github.com/ProjectsTask/EasySwapExplorer/src/common/xzap"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// ErrNoOffers hasOffers 过滤下没有任何有效买单, 调用方应直接返回空结果
var ErrNoOffers = errors.New("no active offers")

// 价格参数按 18 位精度换算
const priceDecimals = 18

// PriceSource 币种美元价格
type PriceSource interface {
	GetPrices(ctx context.Context) ([]types.TokenPrice, error)
}

// OfferSource 有效买单涉及的 NFT
type OfferSource interface {
	FindActiveOfferRefs(ctx context.Context, now int64) ([]types.TokenRef, error)
}

// OrderFilter orders 集合的查询条件及排序
type OrderFilter struct {
	Match         bson.D
	SortingStages []bson.D
	Sort          bson.D
	// Sorted 显式指定了订单排序, join 时以订单为驱动集合
	Sorted bool
}

// Pipeline 订单聚合管道, 始终关联出订单涉及的 token (nfts 字段)
// grouped 为 true 时每个 NFT 只保留排序后的第一个订单, bundle 订单各自独立
func (f *OrderFilter) Pipeline(grouped bool) mongo.Pipeline {
	p := mongo.Pipeline{matchStage(f.Match), NftAssetStage()}
	p = append(p, f.SortingStages...)
	p = append(p, sortStage(f.Sort))
	if grouped {
		p = append(p,
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: groupKey()},
				{Key: "doc", Value: bson.D{{Key: "$first", Value: "$$ROOT"}}},
			}}},
			bson.D{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$doc"}}}},
			sortStage(f.Sort),
		)
	}
	return append(p, LookupOrderTokens())
}

// groupKey 单个 NFT 订单按 (contract, tokenId) 分组, bundle 按自身 _id
func groupKey() bson.D {
	return bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: "$eq", Value: bson.A{"$" + NftAssetKey + ".assetClass", types.AssetClassERC721Bundle}}},
		"$_id",
		bson.D{
			{Key: "c", Value: bson.D{{Key: "$toLower", Value: "$" + NftAssetKey + ".contract"}}},
			{Key: "t", Value: "$" + NftAssetKey + ".tokenId"},
		},
	}}}
}

// ActiveConditions 有效订单条件: 状态为 CREATED/PARTIALFILLED 且处于 start/end 时间窗口内
func ActiveConditions(now int64) bson.A {
	return bson.A{
		bson.D{{Key: "status", Value: bson.D{{Key: "$in", Value: bson.A{types.OrderStatusCreated, types.OrderStatusPartialFilled}}}}},
		bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "start", Value: 0}},
			bson.D{{Key: "start", Value: bson.D{{Key: "$lt", Value: now}}}},
		}}},
		bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "end", Value: 0}},
			bson.D{{Key: "end", Value: bson.D{{Key: "$gt", Value: now}}}},
		}}},
	}
}

// OrderFilterBuilder 订单过滤构建器, 币种表在构造时注入
type OrderFilterBuilder struct {
	currencies []types.Currency
	prices     PriceSource
	offers     OfferSource
	now        func() int64
}

func NewOrderFilterBuilder(currencies []types.Currency, prices PriceSource, offers OfferSource) *OrderFilterBuilder {
	return &OrderFilterBuilder{
		currencies: currencies,
		prices:     prices,
		offers:     offers,
		now:        utils.NowUnix,
	}
}

// WithClock 替换当前时间来源
func (b *OrderFilterBuilder) WithClock(now func() int64) *OrderFilterBuilder {
	b.now = now
	return b
}

// Now 构建器使用的当前时间
func (b *OrderFilterBuilder) Now() int64 {
	return b.now()
}

// Build 构建订单过滤条件
// hasOffers 且没有有效买单时返回 ErrNoOffers
// 价格排序时价格源失败则整个请求失败
func (b *OrderFilterBuilder) Build(ctx context.Context, p types.OrderParams) (*OrderFilter, error) {
	now := b.now()

	side := p.Side
	if side == "" {
		side = types.OrderSideSell
	}
	// NFT 所在一侧
	nftSide := "make"
	if side == types.OrderSideBuy {
		nftSide = "take"
	}

	conds := bson.A{bson.D{{Key: "side", Value: side}}}
	conds = append(conds, ActiveConditions(now)...)

	if p.MinPrice != "" {
		v, err := ToBaseUnits(p.MinPrice, priceDecimals)
		if err != nil {
			return nil, errors.Wrap(err, "invalid minPrice")
		}
		conds = append(conds, bson.D{{Key: "take.value", Value: bson.D{{Key: "$gte", Value: v}}}})
	}
	if p.MaxPrice != "" {
		v, err := ToBaseUnits(p.MaxPrice, priceDecimals)
		if err != nil {
			return nil, errors.Wrap(err, "invalid maxPrice")
		}
		conds = append(conds, bson.D{{Key: "take.value", Value: bson.D{{Key: "$lte", Value: v}}}})
	}

	if p.BeforeTimestamp > 0 {
		conds = append(conds, bson.D{{Key: "createdAt", Value: bson.D{{Key: "$lt", Value: time.Unix(p.BeforeTimestamp, 0).UTC()}}}})
	}

	if p.TokenAddress != "" {
		if utils.IsZeroAddress(p.TokenAddress) {
			conds = append(conds, bson.D{{Key: "take.assetType.assetClass", Value: types.AssetClassETH}})
		} else {
			addr := strings.ToLower(p.TokenAddress)
			conds = append(conds, bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: nftSide + ".assetType.contract", Value: addr}},
				bson.D{{Key: nftSide + ".assetType.contracts", Value: bson.A{addr}}},
			}}})
		}
	}

	if classes := p.AssetClassList(); len(classes) > 0 {
		conds = append(conds, bson.D{{Key: "make.assetType.assetClass", Value: bson.D{{Key: "$in", Value: classes}}}})
	}

	if p.HasOffers {
		refs, err := b.offers.FindActiveOfferRefs(ctx, now)
		if err != nil {
			return nil, errors.Wrap(err, "failed on query active offers")
		}
		if len(refs) == 0 {
			return nil, ErrNoOffers
		}
		pairs := make(bson.A, 0, len(refs))
		for _, r := range refs {
			pairs = append(pairs, bson.D{
				{Key: nftSide + ".assetType.contract", Value: strings.ToLower(r.ContractAddress)},
				{Key: nftSide + ".assetType.tokenId", Value: r.TokenID},
			})
		}
		conds = append(conds, bson.D{{Key: "$or", Value: pairs}})
	}

	if p.Maker != "" {
		conds = append(conds, bson.D{{Key: "maker", Value: strings.ToLower(p.Maker)}})
	}

	f := &OrderFilter{Match: and(conds), Sorted: p.Sorted()}
	if err := b.applySort(ctx, f, p.OrderSort, nftSide); err != nil {
		return nil, err
	}

	return f, nil
}

func (b *OrderFilterBuilder) applySort(ctx context.Context, f *OrderFilter, orderSort, nftSide string) error {
	tieBreak := bson.E{Key: "_id", Value: 1}
	switch orderSort {
	case types.OrderSortHighestPrice, types.OrderSortLowestPrice:
		prices, err := b.prices.GetPrices(ctx)
		if err != nil {
			return errors.Wrap(err, "failed on get token prices")
		}
		stage, missing := UsdValueStage(b.currencies, prices)
		if len(missing) > 0 {
			xzap.WithContext(ctx).Warn("missing token prices, priced at 0", zap.Strings("coins", missing))
		}
		direction := -1
		if orderSort == types.OrderSortLowestPrice {
			direction = 1
		}
		f.SortingStages = []bson.D{stage}
		f.Sort = bson.D{{Key: UsdValueKey, Value: direction}, tieBreak}
	case types.OrderSortTokenIDAsc, types.OrderSortTokenIDDesc:
		direction := 1
		if orderSort == types.OrderSortTokenIDDesc {
			direction = -1
		}
		f.SortingStages = []bson.D{TokenIDSortKeyStage("$" + nftSide + ".assetType.tokenId")}
		f.Sort = bson.D{{Key: TokenIDSortKey, Value: direction}, tieBreak}
	case types.OrderSortEndingSoon:
		f.SortingStages = []bson.D{EndSortKeyStage()}
		f.Sort = bson.D{{Key: EndSortKey, Value: 1}, tieBreak}
	default:
		f.Sort = bson.D{{Key: "createdAt", Value: -1}, tieBreak}
	}
	return nil
}

// refsByContract 按小写合约地址归并 tokenId, 保持首次出现的顺序
func refsByContract(refs []types.TokenRef) ([]string, map[string][]string) {
	var contracts []string
	ids := make(map[string][]string)
	for _, r := range refs {
		c := strings.ToLower(r.ContractAddress)
		if _, ok := ids[c]; !ok {
			contracts = append(contracts, c)
		}
		ids[c] = append(ids[c], r.TokenID)
	}
	return contracts, ids
}

// OrdersForTokensPipeline 与给定 NFT 相关的有效订单 (买卖两侧, 含 bundle)
// 单 NFT 订单按合约分组用 $in 匹配; bundle 只按合约粗匹配, 成员是否包含由 join 校验
func OrdersForTokensPipeline(refs []types.TokenRef, now int64) mongo.Pipeline {
	contracts, ids := refsByContract(refs)

	var or bson.A
	for _, c := range contracts {
		for _, side := range []string{"make", "take"} {
			or = append(or, bson.D{
				{Key: side + ".assetType.contract", Value: c},
				{Key: side + ".assetType.tokenId", Value: bson.D{{Key: "$in", Value: ids[c]}}},
			})
		}
	}
	if len(contracts) > 0 {
		or = append(or, bson.D{{Key: "make.assetType.contracts", Value: bson.D{{Key: "$in", Value: contracts}}}})
	}
	if len(or) == 0 {
		// 没有任何 NFT 时不匹配任何订单
		or = bson.A{bson.D{{Key: "_id", Value: bson.D{{Key: "$exists", Value: false}}}}}
	}

	conds := append(ActiveConditions(now), bson.D{{Key: "$or", Value: or}})
	return mongo.Pipeline{
		matchStage(and(conds)),
		sortStage(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}),
	}
}

// ActiveOffersPipeline 有效买单涉及的 NFT, 按 (contract, tokenId) 去重
func ActiveOffersPipeline(now int64) mongo.Pipeline {
	conds := append(bson.A{
		bson.D{{Key: "side", Value: types.OrderSideBuy}},
		bson.D{{Key: "take.assetType.tokenId", Value: bson.D{{Key: "$exists", Value: true}}}},
	}, ActiveConditions(now)...)

	return mongo.Pipeline{
		matchStage(and(conds)),
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: bson.D{
			{Key: "c", Value: bson.D{{Key: "$toLower", Value: "$take.assetType.contract"}}},
			{Key: "t", Value: "$take.assetType.tokenId"},
		}}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "contractAddress", Value: "$_id.c"},
			{Key: "tokenId", Value: "$_id.t"},
		}}},
		sortStage(bson.D{{Key: "contractAddress", Value: 1}, {Key: "tokenId", Value: 1}}),
	}
}
