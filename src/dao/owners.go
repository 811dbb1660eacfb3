package dao

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapExplorer/src/service/filter"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// FindOwners 执行持有记录查询, 地址比较大小写不敏感
func (d *Dao) FindOwners(ctx context.Context, q filter.OwnerQuery) ([]types.Owner, error) {
	owners, err := aggregate[types.Owner](ctx, d.Mongo.Collection(q.Collection), q.Pipeline, filter.OwnerCollation)
	if err != nil {
		return nil, errors.Wrapf(err, "failed on query %s", q.Collection)
	}
	return owners, nil
}

// CountOwners 持有记录查询的结果数量
func (d *Dao) CountOwners(ctx context.Context, q filter.OwnerQuery) (int64, error) {
	cq := q.Count()
	count, err := aggregateCount(ctx, d.Mongo.Collection(cq.Collection), cq.Pipeline, filter.OwnerCollation)
	if err != nil {
		return 0, errors.Wrapf(err, "failed on count %s", q.Collection)
	}
	return count, nil
}

// FindOwnersByKeys 一页 NFT 的持有人, 同时查询 ERC721 与 ERC1155 持有记录
func (d *Dao) FindOwnersByKeys(ctx context.Context, refs []types.TokenRef) ([]types.Owner, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	return d.FindOwners(ctx, filter.OwnersByKeysQuery(refs))
}
