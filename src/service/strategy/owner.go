package strategy

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapExplorer/src/service/filter"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/join"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// ownerOnly 只有 Owner 参数: 持有记录在库内关联 token 并分页, 再补充全部持有人与订单 (含 bundle)
func (e *Engine) ownerOnly(ctx context.Context, p types.QueryParameters, action Action) (outcome, error) {
	q := filter.BuildOwnerQuery(p.Owner, p.Nft.TokenType).WithTokens()

	if action == ActionCount {
		n, err := e.store.CountOwners(ctx, q)
		if err != nil {
			return outcome{}, errors.Wrap(err, "failed on count owners")
		}
		return outcome{count: n}, nil
	}

	owners, err := e.store.FindOwners(ctx, q.Paged(windowOf(p)))
	if err != nil {
		return outcome{}, errors.Wrap(err, "failed on query owners")
	}

	res := join.Paginate(owners, firstPage(p), func(o types.Owner) (types.Entry, bool) {
		if o.Token == nil {
			return nil, false
		}
		return &types.NftView{Token: *o.Token}, true
	})
	if err := e.enrich(ctx, res); err != nil {
		return outcome{}, err
	}
	return outcome{page: res}, nil
}
