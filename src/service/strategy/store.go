package strategy

import (
	"context"

	"github.com/ProjectsTask/EasySwapExplorer/src/service/filter"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// Store 策略依赖的数据访问接口, 由 dao.Dao 实现
type Store interface {
	filter.AttributeSource
	filter.PriceSource
	filter.OfferSource

	FindTokens(ctx context.Context, f *filter.NftFilter, w filter.Window) ([]types.Token, error)
	CountTokens(ctx context.Context, f *filter.NftFilter) (int64, error)

	// FindOrders 订单附带关联出的 token (Order.Nfts)
	FindOrders(ctx context.Context, f *filter.OrderFilter, grouped bool) ([]types.Order, error)
	// FindOrdersForTokens 与这些 NFT 相关的有效订单, 包括 bundle
	FindOrdersForTokens(ctx context.Context, refs []types.TokenRef, now int64) ([]types.Order, error)

	FindOwners(ctx context.Context, q filter.OwnerQuery) ([]types.Owner, error)
	CountOwners(ctx context.Context, q filter.OwnerQuery) (int64, error)
	FindOwnersByKeys(ctx context.Context, refs []types.TokenRef) ([]types.Owner, error)

	// FindHistory 按 token 聚合的转账历史, 已按 historySort 倒序
	FindHistory(ctx context.Context, contract, historySort string) ([]types.HistoryEntry, error)
}

// OrderSource 外部订单聚合服务, 返回该集合当前的卖单
// tokenIDs 非空时只查询这些 token
type OrderSource interface {
	Orders(ctx context.Context, contract string, tokenIDs []string, p types.OrderParams) ([]types.Order, error)
}
