package dao

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ProjectsTask/EasySwapExplorer/src/service/filter"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// FindTokens 按 NFT 过滤条件查询 token, w 为库内分页窗口
func (d *Dao) FindTokens(ctx context.Context, f *filter.NftFilter, w filter.Window) ([]types.Token, error) {
	tokens, err := aggregate[types.Token](ctx, d.Mongo.Collection(filter.CollTokens), f.Pipeline(w), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed on query tokens")
	}
	return tokens, nil
}

// CountTokens 满足 NFT 过滤条件的 token 数量
func (d *Dao) CountTokens(ctx context.Context, f *filter.NftFilter) (int64, error) {
	count, err := aggregateCount(ctx, d.Mongo.Collection(filter.CollTokens), f.CountPipeline(), nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed on count tokens")
	}
	return count, nil
}
