package strategy

import (
	"context"

	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/mr"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasySwapExplorer/src/common/xzap"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/filter"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/join"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// outcome 策略执行结果, query 时为 page, count 时为 count
type outcome struct {
	page  *types.PagedResult
	count int64
}

func emptyOutcome(p types.QueryParameters) outcome {
	return outcome{page: types.EmptyPage(p.General.Page, p.General.Limit)}
}

// pageOf 内存分页参数
func pageOf(p types.QueryParameters) join.Page {
	return join.Page{Number: p.General.Page, Limit: p.General.Limit, Skip: p.General.SkippedItems}
}

// windowOf 库内分页窗口
func windowOf(p types.QueryParameters) filter.Window {
	return filter.Window{Skip: int64(p.General.SkippedItems), Limit: int64(p.General.Limit)}
}

// firstPage 已在库内分页的结果, 内存中不再跳过
func firstPage(p types.QueryParameters) join.Page {
	return join.Page{Number: p.General.Page, Limit: p.General.Limit}
}

// driven 按驱动集合计数或分页, 分页后补充非必需的关联
func driven[T any](ctx context.Context, e *Engine, p types.QueryParameters, action Action, items []T, match func() join.Matcher[T]) (outcome, error) {
	if action == ActionCount {
		return outcome{count: join.Count(items, match())}, nil
	}
	res := join.Paginate(items, pageOf(p), match())
	if err := e.enrich(ctx, res); err != nil {
		return outcome{}, err
	}
	return outcome{page: res}, nil
}

// enrich 分页结果补充全部持有人与有效订单 (含 bundle)
func (e *Engine) enrich(ctx context.Context, res *types.PagedResult) error {
	keys := join.Keys(res)
	if len(keys) == 0 {
		join.Attach(res, nil, nil)
		return nil
	}

	refs := make([]types.TokenRef, 0, len(keys))
	for _, k := range keys {
		refs = append(refs, k.Ref())
	}

	var owners []types.Owner
	var orders []types.Order
	now := e.orders.Now()
	err := mr.Finish(func() (err error) {
		owners, err = e.store.FindOwnersByKeys(ctx, refs)
		return errors.Wrap(err, "failed on query owners by tokens")
	}, func() (err error) {
		orders, err = e.store.FindOrdersForTokens(ctx, refs, now)
		return errors.Wrap(err, "failed on query orders by tokens")
	})
	if err != nil {
		return err
	}

	join.Attach(res, join.IndexOwners(owners), e.indexOrders(ctx, activeOnly(orders, now)))
	return nil
}

// indexOrders 建立订单索引, 记录被丢弃的异常 bundle
func (e *Engine) indexOrders(ctx context.Context, orders []types.Order) *join.OrderIndex {
	idx := join.IndexOrders(orders)
	if n := idx.Malformed(); n > 0 {
		xzap.WithContext(ctx).Warn("misaligned bundle orders skipped", zap.Int("count", n))
	}
	return idx
}

func activeOnly(orders []types.Order, now int64) []types.Order {
	out := orders[:0:0]
	for _, o := range orders {
		if o.IsActive(now) {
			out = append(out, o)
		}
	}
	return out
}

// buildOrderFilter 构建订单过滤条件
func (e *Engine) buildOrderFilter(ctx context.Context, p types.QueryParameters) (*filter.OrderFilter, error) {
	return e.orders.Build(ctx, p.Order)
}

// fetchOrders 构建订单过滤并查询, 每个 NFT 只保留一个订单
func (e *Engine) fetchOrders(ctx context.Context, p types.QueryParameters) ([]types.Order, bool, error) {
	f, err := e.buildOrderFilter(ctx, p)
	if err != nil {
		return nil, false, err
	}
	orders, err := e.store.FindOrders(ctx, f, true)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed on query orders")
	}
	return orders, f.Sorted, nil
}

// fetchTokens 构建 NFT 过滤并查询全部匹配的 token
func (e *Engine) fetchTokens(ctx context.Context, p types.QueryParameters) ([]types.Token, error) {
	f, err := filter.BuildNftFilter(ctx, e.store, p.Nft)
	if err != nil {
		return nil, err
	}
	tokens, err := e.store.FindTokens(ctx, f, filter.All)
	return tokens, errors.Wrap(err, "failed on query tokens")
}

// fetchOwners 查询该地址的全部持有记录
func (e *Engine) fetchOwners(ctx context.Context, p types.QueryParameters) ([]types.Owner, error) {
	owners, err := e.store.FindOwners(ctx, filter.BuildOwnerQuery(p.Owner, p.Nft.TokenType))
	return owners, errors.Wrap(err, "failed on query owners")
}

// shortCircuit 过滤条件排除全部结果时返回空结果而不是错误
func shortCircuit(ctx context.Context, p types.QueryParameters, err error) (outcome, bool) {
	switch {
	case errors.Is(err, filter.ErrNoOffers):
		xzap.WithContext(ctx).Info("no active offers, empty result")
	case errors.Is(err, filter.ErrNoFilters):
		xzap.WithContext(ctx).Info("owner scope excludes every token, empty result")
	default:
		return outcome{}, false
	}
	return emptyOutcome(p), true
}
