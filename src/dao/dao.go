package dao

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/stores/kv"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// QueryTimeout 单次聚合的超时时间
const QueryTimeout = time.Second * 30

// Options 数据访问相关的配置项
type Options struct {
	Chain         string // 链名称, 用于 MySQL 分表
	PriceCacheTTL int    // 价格缓存秒数, 0 表示不缓存
	HistorySource string // mongo | mysql
}

// Dao 数据访问对象
// 封装了文档库 (Mongo)、关系型数据库 (GORM) 和 Redis (KvStore) 的操作
// 所有的数据库交互逻辑应在此层实现, 避免在 Service 层直接操作 DB
type Dao struct {
	ctx context.Context

	Mongo   *mongo.Database // 文档库, tokens/orders/owners 等集合所在
	DB      *gorm.DB        // 关系型数据库连接实例, 仅 MySQL 转账历史使用, 可为 nil
	KvStore kv.Store        // 键值存储实例 (Redis), 用于价格缓存, 可为 nil

	opts Options
}

// New 创建一个新的 Dao 实例
// 参数:
//
//	ctx: 上下文
//	mdb: Mongo 数据库实例
//	db: GORM DB 实例
//	kvStore: KV Store 实例
//	opts: 配置项
//
// 返回:
//
//	*Dao: 初始化的 Dao 指针
func New(ctx context.Context, mdb *mongo.Database, db *gorm.DB, kvStore kv.Store, opts Options) *Dao {
	return &Dao{
		ctx:     ctx,
		Mongo:   mdb,
		DB:      db,
		KvStore: kvStore,
		opts:    opts,
	}
}
