package strategy

import (
	"context"

	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/mr"

	"github.com/ProjectsTask/EasySwapExplorer/src/service/join"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// fetchExternalOrders 从外部订单聚合服务获取该集合的卖单
func (e *Engine) fetchExternalOrders(ctx context.Context, p types.QueryParameters) ([]types.Order, error) {
	orders, err := e.reservoir.Orders(ctx, p.Nft.ContractAddress, p.Nft.TokenIDList(), p.Order)
	return orders, errors.Wrap(err, "failed on query external orders")
}

// reservoirNftOrder 与 nftOrder 相同的 join 规则, 订单来自外部聚合服务
func (e *Engine) reservoirNftOrder(ctx context.Context, p types.QueryParameters, action Action) (outcome, error) {
	var tokens []types.Token
	var orders []types.Order
	err := mr.Finish(func() (err error) {
		tokens, err = e.fetchTokens(ctx, p)
		return err
	}, func() (err error) {
		orders, err = e.fetchExternalOrders(ctx, p)
		return err
	})
	if err != nil {
		return outcome{}, err
	}
	if len(tokens) == 0 || len(orders) == 0 {
		return emptyOutcome(p), nil
	}

	sets := join.Sets{
		Tokens:        join.IndexTokens(tokens),
		RequireTokens: true,
		Orders:        join.IndexOrders(orders),
		RequireOrders: true,
	}
	return e.joinTokensOrders(ctx, p, action, tokens, orders, p.Order.Sorted(), sets)
}

// reservoirNftOwnerOrder 与 nftOwnerOrder 相同的 join 规则, 订单来自外部聚合服务
func (e *Engine) reservoirNftOwnerOrder(ctx context.Context, p types.QueryParameters, action Action) (outcome, error) {
	var tokens []types.Token
	var owners []types.Owner
	var orders []types.Order
	err := mr.Finish(func() (err error) {
		tokens, err = e.fetchTokens(ctx, p)
		return err
	}, func() (err error) {
		owners, err = e.fetchOwners(ctx, p)
		return err
	}, func() (err error) {
		orders, err = e.fetchExternalOrders(ctx, p)
		return err
	})
	if err != nil {
		return outcome{}, err
	}
	if len(tokens) == 0 || len(owners) == 0 || len(orders) == 0 {
		return emptyOutcome(p), nil
	}

	sets := join.Sets{
		Tokens:        join.IndexTokens(tokens),
		RequireTokens: true,
		Owners:        join.IndexOwners(owners),
		RequireOwners: true,
		Orders:        join.IndexOrders(orders),
		RequireOrders: true,
	}
	return driven(ctx, e, p, action, orders, func() join.Matcher[types.Order] {
		return join.ByOrder(sets)
	})
}
