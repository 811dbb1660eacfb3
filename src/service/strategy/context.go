// Package strategy 按启用的参数组选择查询策略, 组合过滤构建器、数据访问与内存 join
package strategy

import (
	"context"
	"math"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasySwapExplorer/src/common/utils"
	"github.com/ProjectsTask/EasySwapExplorer/src/common/xzap"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/filter"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

var (
	ErrNoStrategy      = errors.New("no strategy matches the given parameters")
	ErrUnknownAction   = errors.New("unknown action")
	ErrHistoryContract = errors.New("history sort requires contractAddress")
)

// Action 执行动作
type Action string

const (
	ActionQuery Action = "query"
	ActionCount Action = "count"
)

// Limits 分页限制
type Limits struct {
	DefaultLimit int
	MaxLimit     int
}

// Engine 策略执行依赖, 进程内共享, 无请求状态
type Engine struct {
	store     Store
	orders    *filter.OrderFilterBuilder
	reservoir OrderSource
	limits    Limits
}

func NewEngine(store Store, orders *filter.OrderFilterBuilder, reservoir OrderSource, limits Limits) *Engine {
	if limits.MaxLimit <= 0 {
		limits.MaxLimit = 100
	}
	if limits.DefaultLimit <= 0 || limits.DefaultLimit > limits.MaxLimit {
		limits.DefaultLimit = utils.Min(20, limits.MaxLimit)
	}
	return &Engine{store: store, orders: orders, reservoir: reservoir, limits: limits}
}

// Context 单次请求的策略上下文, 构造时完成参数规整与策略选择
type Context struct {
	engine *Engine
	params types.QueryParameters
	kind   Kind
}

// NewContext 规整参数并选择策略
func (e *Engine) NewContext(raw types.NftQueryParams) *Context {
	p := e.normalize(raw)
	return &Context{
		engine: e,
		params: p,
		kind:   Classify(p, e.reservoir != nil),
	}
}

func (c *Context) Kind() Kind {
	return c.kind
}

func (c *Context) Params() types.QueryParameters {
	return c.params
}

// Run 执行 query 或 count
func (c *Context) Run(ctx context.Context, action Action) (interface{}, error) {
	switch action {
	case ActionQuery:
		return c.Query(ctx)
	case ActionCount:
		return c.Count(ctx)
	}
	return nil, errors.Wrapf(ErrUnknownAction, "action %q", action)
}

// Query 分页查询
func (c *Context) Query(ctx context.Context) (*types.PagedResult, error) {
	out, err := c.dispatch(ctx, ActionQuery)
	if err != nil {
		return nil, err
	}
	return out.page, nil
}

// Count 计数, 与 Query 使用相同的过滤条件
func (c *Context) Count(ctx context.Context) (*types.CountResult, error) {
	out, err := c.dispatch(ctx, ActionCount)
	if err != nil {
		return nil, err
	}
	return &types.CountResult{Count: out.count}, nil
}

func (c *Context) dispatch(ctx context.Context, action Action) (outcome, error) {
	xzap.WithContext(ctx).Info("query strategy resolved",
		zap.String("strategy", c.kind.String()), zap.String("action", string(action)))

	e, p := c.engine, c.params
	switch c.kind {
	case KindNftOnly:
		return e.nftOnly(ctx, p, action)
	case KindOrderOnly:
		return e.orderOnly(ctx, p, action)
	case KindOwnerOnly:
		return e.ownerOnly(ctx, p, action)
	case KindNftOwner:
		return e.nftOwner(ctx, p, action)
	case KindNftOrder:
		return e.nftOrder(ctx, p, action)
	case KindOwnerOrder:
		return e.ownerOrder(ctx, p, action)
	case KindNftOwnerOrder:
		return e.nftOwnerOrder(ctx, p, action)
	case KindHistory:
		return e.history(ctx, p, action)
	case KindReservoirNftOrder:
		return e.reservoirNftOrder(ctx, p, action)
	case KindReservoirNftOwnerOrder:
		return e.reservoirNftOwnerOrder(ctx, p, action)
	}
	return outcome{}, ErrNoStrategy
}

// normalize 参数拆分为参数组并规整
// 1. 合约地址转 checksum, 其它地址转小写
// 2. page 限制在 [1, MaxPage], limit 限制在 [1, MaxLimit], 未指定时取默认值
// 3. SkippedItems 超出 int 范围时按上限截断, 分页结果为空页
func (e *Engine) normalize(raw types.NftQueryParams) types.QueryParameters {
	contract := raw.ContractAddress
	if contract != "" {
		contract = utils.ToValidateAddress(contract)
	}

	page := raw.Page
	if page < 1 {
		page = 1
	}
	limit := raw.Limit
	if limit <= 0 {
		limit = e.limits.DefaultLimit
	}
	limit = utils.Min(limit, e.limits.MaxLimit)
	page = utils.Min(page, types.MaxPage)
	skipped := math.MaxInt
	if page-1 <= math.MaxInt/limit {
		skipped = (page - 1) * limit
	}

	return types.QueryParameters{
		Nft: types.NftParams{
			ContractAddress: contract,
			TokenType:       strings.ToUpper(raw.TokenType),
			SearchQuery:     strings.TrimSpace(raw.SearchQuery),
			TokenIDs:        raw.TokenIDs,
			Traits:          raw.Traits,
			NftSort:         raw.NftSort,
		},
		Order: types.OrderParams{
			Side:            strings.ToUpper(raw.Side),
			MinPrice:        raw.MinPrice,
			MaxPrice:        raw.MaxPrice,
			BeforeTimestamp: raw.BeforeTimestamp,
			TokenAddress:    strings.ToLower(raw.TokenAddress),
			AssetClass:      raw.AssetClass,
			HasOffers:       raw.HasOffers,
			Maker:           strings.ToLower(raw.Maker),
			OrderSort:       raw.OrderSort,
		},
		Owner: types.OwnerParams{
			OwnerAddress: strings.ToLower(raw.OwnerAddress),
		},
		History: types.HistoryParams{
			HistorySort: raw.HistorySort,
		},
		General: types.GeneralParams{
			Page:         page,
			Limit:        limit,
			SkippedItems: skipped,
		},
	}
}
