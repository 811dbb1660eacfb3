package svc

import (
	"context"

	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/kv"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasySwapExplorer/src/common/xzap"
	"github.com/ProjectsTask/EasySwapExplorer/src/config"
	"github.com/ProjectsTask/EasySwapExplorer/src/dao"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/filter"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/reservoir"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/strategy"
)

type ServerCtx struct {
	C       *config.Config
	Mongo   *mongo.Client
	DB      *gorm.DB
	Dao     *dao.Dao
	KvStore kv.Store
	Engine  *strategy.Engine
}

// NewServiceContext 初始化服务上下文
// 该函数负责初始化查询服务所需的所有基础设施组件
func NewServiceContext(c *config.Config) (*ServerCtx, error) {
	// 1. 初始化日志系统 (Zap Logger)
	if _, err := xzap.SetUp(c.Log); err != nil {
		return nil, err
	}
	ctx := context.Background()

	// 2. 构造 Redis 配置, 未配置时不启用价格缓存
	var kvConf kv.KvConf
	for _, con := range c.Kv.Redis {
		kvConf = append(kvConf, cache.NodeConf{
			RedisConf: redis.RedisConf{
				Host: con.Host,
				Type: con.Type,
				Pass: con.Pass,
			},
			Weight: 1,
		})
	}
	var store kv.Store
	if len(kvConf) > 0 {
		store = kv.NewStore(kvConf)
	}

	// 3. 连接文档库
	client, err := dao.NewMongo(ctx, c.Mongo)
	if err != nil {
		return nil, err
	}

	// 4. 转账历史来自 MySQL 时初始化 GORM
	var db *gorm.DB
	if c.History.Source == config.HistorySourceMySQL {
		if db, err = dao.NewMySQL(c.DB); err != nil {
			return nil, err
		}
	}

	// 5. 初始化数据访问层 (DAO)
	d := dao.New(ctx, client.Database(c.Mongo.Database), db, store, dao.Options{
		Chain:         c.Chain.Name,
		PriceCacheTTL: c.Price.CacheTTL,
		HistorySource: c.History.Source,
	})

	// 6. 初始化策略引擎, 订单来源按配置选择
	engine, err := NewEngine(c, d)
	if err != nil {
		return nil, err
	}

	// 7. 组装 ServerCtx 对象
	serverCtx := NewServerCtx(
		WithMongo(client),
		WithDB(db),
		WithKv(store),
		WithDao(d),
		WithEngine(engine),
	)
	serverCtx.C = c

	xzap.WithContext(ctx).Info("service context ready",
		zap.String("order_source", c.Query.OrderSource),
		zap.String("history_source", c.History.Source),
		zap.Bool("price_cache", store != nil))
	return serverCtx, nil
}

// NewEngine 基于给定的数据访问实现构建策略引擎
func NewEngine(c *config.Config, store strategy.Store) (*strategy.Engine, error) {
	builder := filter.NewOrderFilterBuilder(c.Chain.Tokens, store, store)

	// 接口变量必须保持无类型 nil, 否则引擎会误认为启用了外部订单源
	var external strategy.OrderSource
	switch c.Query.OrderSource {
	case config.OrderSourceLocal:
	case config.OrderSourceReservoir:
		if c.Reservoir.BaseURL == "" {
			return nil, errors.New("reservoir.base_url is required when query.order_source = reservoir")
		}
		external = reservoir.NewSource(reservoir.NewClient(c.Reservoir))
	default:
		return nil, errors.Errorf("unknown query.order_source %q", c.Query.OrderSource)
	}

	return strategy.NewEngine(store, builder, external, strategy.Limits{
		DefaultLimit: c.Query.DefaultLimit,
		MaxLimit:     c.Query.MaxLimit,
	}), nil
}

// Close 释放连接
func (s *ServerCtx) Close(ctx context.Context) error {
	if s.DB != nil {
		if sqlDB, err := s.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if s.Mongo != nil {
		return s.Mongo.Disconnect(ctx)
	}
	return nil
}
