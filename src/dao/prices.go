package dao

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasySwapExplorer/src/common/xzap"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/filter"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

const cacheKeyPrices = "cache:explorer:token:prices"

// GetPrices 各币种的美元价格
// 1. 开启缓存时先读 Redis
// 2. 未命中则读取 tokenprices 集合并回写缓存
// 缓存读写失败只记录日志, 不影响查询
func (d *Dao) GetPrices(ctx context.Context) ([]types.TokenPrice, error) {
	cached := d.KvStore != nil && d.opts.PriceCacheTTL > 0
	if cached {
		if val, err := d.KvStore.Get(cacheKeyPrices); err != nil {
			xzap.WithContext(ctx).Warn("failed on get prices cache", zap.Error(err))
		} else if val != "" {
			var prices []types.TokenPrice
			if err := json.Unmarshal([]byte(val), &prices); err == nil {
				return prices, nil
			}
		}
	}

	prices, err := d.findPrices(ctx)
	if err != nil {
		return nil, err
	}

	if cached {
		data, err := json.Marshal(prices)
		if err == nil {
			err = d.KvStore.Setex(cacheKeyPrices, string(data), d.opts.PriceCacheTTL)
		}
		if err != nil {
			xzap.WithContext(ctx).Warn("failed on set prices cache", zap.Error(err))
		}
	}
	return prices, nil
}

func (d *Dao) findPrices(ctx context.Context) ([]types.TokenPrice, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	cur, err := d.Mongo.Collection(filter.CollTokenPrices).Find(ctx, bson.D{},
		options.Find().SetProjection(bson.D{{Key: "coin", Value: 1}, {Key: "value", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "failed on query token prices")
	}
	defer cur.Close(ctx)

	prices := make([]types.TokenPrice, 0)
	if err := cur.All(ctx, &prices); err != nil {
		return nil, errors.Wrap(err, "failed on decode token prices")
	}
	return prices, nil
}
