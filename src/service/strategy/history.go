package strategy

import (
	"context"

	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/mr"

	"github.com/ProjectsTask/EasySwapExplorer/src/service/join"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// history 以转账历史(按铸造或最后转账时间排序)为驱动集合
// token 必须存在; 启用了 Order/Owner 参数组时对应集合也必须有匹配
func (e *Engine) history(ctx context.Context, p types.QueryParameters, action Action) (outcome, error) {
	if p.Nft.ContractAddress == "" {
		return outcome{}, ErrHistoryContract
	}

	withOwners, withOrders := p.Owner.IsActive(), p.Order.IsActive()

	var entries []types.HistoryEntry
	var tokens []types.Token
	var owners []types.Owner
	var orders []types.Order
	fns := []func() error{
		func() (err error) {
			entries, err = e.store.FindHistory(ctx, p.Nft.ContractAddress, p.History.HistorySort)
			return errors.Wrap(err, "failed on query transfer history")
		},
		func() (err error) {
			tokens, err = e.fetchTokens(ctx, p)
			return err
		},
	}
	if withOwners {
		fns = append(fns, func() (err error) {
			owners, err = e.fetchOwners(ctx, p)
			return err
		})
	}
	if withOrders {
		fns = append(fns, func() (err error) {
			orders, _, err = e.fetchOrders(ctx, p)
			return err
		})
	}

	err := mr.Finish(fns...)
	if out, ok := shortCircuit(ctx, p, err); ok {
		return out, nil
	}
	if err != nil {
		return outcome{}, err
	}
	if len(entries) == 0 || len(tokens) == 0 ||
		(withOwners && len(owners) == 0) || (withOrders && len(orders) == 0) {
		return emptyOutcome(p), nil
	}

	sets := join.Sets{Tokens: join.IndexTokens(tokens), RequireTokens: true}
	if withOwners {
		sets.Owners, sets.RequireOwners = join.IndexOwners(owners), true
	}
	if withOrders {
		sets.Orders, sets.RequireOrders, sets.FilterOrders = e.indexOrders(ctx, orders), true, true
	}

	return driven(ctx, e, p, action, entries, func() join.Matcher[types.HistoryEntry] {
		return join.ByHistory(sets)
	})
}
