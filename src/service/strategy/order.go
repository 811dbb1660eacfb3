package strategy

import (
	"context"

	"github.com/zeromicro/go-zero/core/mr"

	"github.com/ProjectsTask/EasySwapExplorer/src/service/join"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// orderOnly 只有 Order 参数: 订单(按 NFT 分组去重)为驱动集合, token 由库内 lookup 关联
// 分组只用于驱动集合去重, 输出时补充该 NFT 的全部有效订单
func (e *Engine) orderOnly(ctx context.Context, p types.QueryParameters, action Action) (outcome, error) {
	orders, _, err := e.fetchOrders(ctx, p)
	if out, ok := shortCircuit(ctx, p, err); ok {
		return out, nil
	}
	if err != nil {
		return outcome{}, err
	}

	return driven(ctx, e, p, action, orders, func() join.Matcher[types.Order] {
		return join.ByOrder(join.Sets{})
	})
}

// nftOrder NFT + Order: 并发查询, 指定订单排序时以订单为驱动集合, 否则以 token 为驱动集合
func (e *Engine) nftOrder(ctx context.Context, p types.QueryParameters, action Action) (outcome, error) {
	var tokens []types.Token
	var orders []types.Order
	var sorted bool
	err := mr.Finish(func() (err error) {
		tokens, err = e.fetchTokens(ctx, p)
		return err
	}, func() (err error) {
		orders, sorted, err = e.fetchOrders(ctx, p)
		return err
	})
	if out, ok := shortCircuit(ctx, p, err); ok {
		return out, nil
	}
	if err != nil {
		return outcome{}, err
	}
	if len(tokens) == 0 || len(orders) == 0 {
		return emptyOutcome(p), nil
	}

	sets := join.Sets{
		Tokens:        join.IndexTokens(tokens),
		RequireTokens: true,
		Orders:        e.indexOrders(ctx, orders),
		RequireOrders: true,
		FilterOrders:  true,
	}
	return e.joinTokensOrders(ctx, p, action, tokens, orders, sorted, sets)
}

// ownerOrder Owner + Order: 并发查询, 以订单为驱动集合
func (e *Engine) ownerOrder(ctx context.Context, p types.QueryParameters, action Action) (outcome, error) {
	var owners []types.Owner
	var orders []types.Order
	err := mr.Finish(func() (err error) {
		owners, err = e.fetchOwners(ctx, p)
		return err
	}, func() (err error) {
		orders, _, err = e.fetchOrders(ctx, p)
		return err
	})
	if out, ok := shortCircuit(ctx, p, err); ok {
		return out, nil
	}
	if err != nil {
		return outcome{}, err
	}
	if len(owners) == 0 || len(orders) == 0 {
		return emptyOutcome(p), nil
	}

	sets := join.Sets{
		Owners:        join.IndexOwners(owners),
		RequireOwners: true,
	}
	return driven(ctx, e, p, action, orders, func() join.Matcher[types.Order] {
		return join.ByOrder(sets)
	})
}

// nftOwnerOrder NFT + Owner + Order: 三者并发查询, 以订单为驱动集合
func (e *Engine) nftOwnerOrder(ctx context.Context, p types.QueryParameters, action Action) (outcome, error) {
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
		orders, _, err = e.fetchOrders(ctx, p)
		return err
	})
	if out, ok := shortCircuit(ctx, p, err); ok {
		return out, nil
	}
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
	}
	return driven(ctx, e, p, action, orders, func() join.Matcher[types.Order] {
		return join.ByOrder(sets)
	})
}

// joinTokensOrders 订单排序时以订单为驱动集合, 否则以 token 为驱动集合
func (e *Engine) joinTokensOrders(ctx context.Context, p types.QueryParameters, action Action,
	tokens []types.Token, orders []types.Order, sorted bool, sets join.Sets) (outcome, error) {
	if sorted {
		return driven(ctx, e, p, action, orders, func() join.Matcher[types.Order] {
			return join.ByOrder(sets)
		})
	}
	return driven(ctx, e, p, action, tokens, func() join.Matcher[types.Token] {
		return join.ByToken(sets)
	})
}
