package dao

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapExplorer/src/service/filter"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// FindOrders 按订单过滤条件查询订单, 结果附带关联的 token
func (d *Dao) FindOrders(ctx context.Context, f *filter.OrderFilter, grouped bool) ([]types.Order, error) {
	orders, err := aggregate[types.Order](ctx, d.Mongo.Collection(filter.CollOrders), f.Pipeline(grouped), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed on query orders")
	}
	return orders, nil
}

// FindOrdersForTokens 查询一页 NFT 的全部有效订单
// 地址比较大小写不敏感
func (d *Dao) FindOrdersForTokens(ctx context.Context, refs []types.TokenRef, now int64) ([]types.Order, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	orders, err := aggregate[types.Order](ctx, d.Mongo.Collection(filter.CollOrders),
		filter.OrdersForTokensPipeline(refs, now), filter.OwnerCollation)
	if err != nil {
		return nil, errors.Wrap(err, "failed on query orders of tokens")
	}
	return orders, nil
}

// FindActiveOfferRefs 存在有效买单的 NFT
func (d *Dao) FindActiveOfferRefs(ctx context.Context, now int64) ([]types.TokenRef, error) {
	refs, err := aggregate[types.TokenRef](ctx, d.Mongo.Collection(filter.CollOrders), filter.ActiveOffersPipeline(now), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed on query active offers")
	}
	return refs, nil
}
