package strategy

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapExplorer/src/service/filter"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/join"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// nftOnly 只有 NFT 参数: 库内分页查询 token, 再按 key 关联持有人与订单
func (e *Engine) nftOnly(ctx context.Context, p types.QueryParameters, action Action) (outcome, error) {
	f, err := filter.BuildNftFilter(ctx, e.store, p.Nft)
	if err != nil {
		return outcome{}, err
	}
	return e.pagedTokens(ctx, p, action, f)
}

// nftOwner NFT + Owner: 先查询持有记录, 以持有的 (contract, tokenId) 收窄 NFT 过滤
func (e *Engine) nftOwner(ctx context.Context, p types.QueryParameters, action Action) (outcome, error) {
	owners, err := e.fetchOwners(ctx, p)
	if err != nil {
		return outcome{}, err
	}

	f, err := filter.BuildNftFilterForOwners(ctx, e.store, p.Nft, owners)
	if out, ok := shortCircuit(ctx, p, err); ok {
		return out, nil
	}
	if err != nil {
		return outcome{}, err
	}
	return e.pagedTokens(ctx, p, action, f)
}

// pagedTokens 没有内存过滤时直接在库内分页与计数
func (e *Engine) pagedTokens(ctx context.Context, p types.QueryParameters, action Action, f *filter.NftFilter) (outcome, error) {
	if action == ActionCount {
		n, err := e.store.CountTokens(ctx, f)
		if err != nil {
			return outcome{}, errors.Wrap(err, "failed on count tokens")
		}
		return outcome{count: n}, nil
	}

	tokens, err := e.store.FindTokens(ctx, f, windowOf(p))
	if err != nil {
		return outcome{}, errors.Wrap(err, "failed on query tokens")
	}

	res := join.Paginate(tokens, firstPage(p), join.ByToken(join.Sets{}))
	if err := e.enrich(ctx, res); err != nil {
		return outcome{}, err
	}
	return outcome{page: res}, nil
}
