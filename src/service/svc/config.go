package svc

import (
	"github.com/zeromicro/go-zero/core/stores/kv"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasySwapExplorer/src/dao"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/strategy"
)

// CtxConfig 服务上下文配置构建器
// 用于使用 Option 模式构建 ServerCtx
type CtxConfig struct {
	mongo   *mongo.Client
	db      *gorm.DB
	dao     *dao.Dao
	KvStore kv.Store
	engine  *strategy.Engine
}

type CtxOption func(conf *CtxConfig)

// NewServerCtx 创建新的服务上下文
// 使用 Option 模式初始化 Mongo, DB, KVStore, Dao, Engine 等组件
func NewServerCtx(options ...CtxOption) *ServerCtx {
	c := &CtxConfig{}
	for _, opt := range options {
		opt(c)
	}
	return &ServerCtx{
		Mongo:   c.mongo,
		DB:      c.db,
		KvStore: c.KvStore,
		Dao:     c.dao,
		Engine:  c.engine,
	}
}

func WithMongo(client *mongo.Client) CtxOption {
	return func(conf *CtxConfig) {
		conf.mongo = client
	}
}

func WithKv(kv kv.Store) CtxOption {
	return func(conf *CtxConfig) {
		conf.KvStore = kv
	}
}

func WithDB(db *gorm.DB) CtxOption {
	return func(conf *CtxConfig) {
		conf.db = db
	}
}

func WithDao(dao *dao.Dao) CtxOption {
	return func(conf *CtxConfig) {
		conf.dao = dao
	}
}

func WithEngine(engine *strategy.Engine) CtxOption {
	return func(conf *CtxConfig) {
		conf.engine = engine
	}
}
