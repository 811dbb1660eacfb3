package dao

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ProjectsTask/EasySwapExplorer/src/config"
)

// NewMongo 连接文档库并 ping 主节点
func NewMongo(ctx context.Context, c config.MongoCfg) (*mongo.Client, error) {
	timeout := time.Duration(c.Timeout) * time.Second
	opts := options.Client().ApplyURI(c.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed on connect mongo")
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "failed on ping mongo")
	}
	return client, nil
}

// aggregate 执行聚合并解码全部结果
func aggregate[T any](ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, collation *options.Collation) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	opts := options.Aggregate().SetAllowDiskUse(true)
	if collation != nil {
		opts.SetCollation(collation)
	}
	cur, err := coll.Aggregate(ctx, pipeline, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// countResult $count stage 的输出
type countResult struct {
	Count int64 `bson:"count"`
}

// aggregateCount 执行以 $count 结尾的聚合, 没有结果时为 0
func aggregateCount(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, collation *options.Collation) (int64, error) {
	res, err := aggregate[countResult](ctx, coll, pipeline, collation)
	if err != nil {
		return 0, err
	}
	if len(res) == 0 {
		return 0, nil
	}
	return res[0].Count, nil
}
