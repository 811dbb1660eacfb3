package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/ProjectsTask/EasySwapExplorer/src/common/xzap"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

const (
	OrderSourceLocal     = "local"
	OrderSourceReservoir = "reservoir"

	HistorySourceMongo = "mongo"
	HistorySourceMySQL = "mysql"
)

// Config 全局配置
type Config struct {
	Api       Api          `toml:"api" mapstructure:"api" json:"api"`
	Log       xzap.LogConf `toml:"log" mapstructure:"log" json:"log"`
	Mongo     MongoCfg     `toml:"mongo" mapstructure:"mongo" json:"mongo"`
	Kv        KvConf       `toml:"kv" mapstructure:"kv" json:"kv"`
	DB        DBCfg        `toml:"db" mapstructure:"db" json:"db"`
	Query     QueryCfg     `toml:"query" mapstructure:"query" json:"query"`
	Chain     ChainCfg     `toml:"chain" mapstructure:"chain" json:"chain"`
	Price     PriceCfg     `toml:"price" mapstructure:"price" json:"price"`
	History   HistoryCfg   `toml:"history" mapstructure:"history" json:"history"`
	Reservoir ReservoirCfg `toml:"reservoir" mapstructure:"reservoir" json:"reservoir"`
}

type Api struct {
	Port string `toml:"port" mapstructure:"port" json:"port"` // 如 ":9000"
}

// MongoCfg 文档库配置
type MongoCfg struct {
	URI      string `toml:"uri" mapstructure:"uri" json:"uri"`
	Database string `toml:"database" mapstructure:"database" json:"database"`
	Timeout  int    `toml:"timeout" mapstructure:"timeout" json:"timeout"` // 连接超时(秒)
}

// KvConf Redis 配置, 用于价格缓存
type KvConf struct {
	Redis []*Redis `toml:"redis" mapstructure:"redis" json:"redis"`
}

type Redis struct {
	Host string `toml:"host" mapstructure:"host" json:"host"`
	Type string `toml:"type" mapstructure:"type" json:"type"` // node | cluster
	Pass string `toml:"pass" mapstructure:"pass" json:"pass"`
}

// DBCfg MySQL 配置, 仅 history.source = mysql 时使用
type DBCfg struct {
	DSN          string `toml:"dsn" mapstructure:"dsn" json:"-"`
	MaxOpenConns int    `toml:"max_open_conns" mapstructure:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns" mapstructure:"max_idle_conns" json:"max_idle_conns"`
}

// QueryCfg 查询相关配置
type QueryCfg struct {
	DefaultLimit int    `toml:"default_limit" mapstructure:"default_limit" json:"default_limit"`
	MaxLimit     int    `toml:"max_limit" mapstructure:"max_limit" json:"max_limit"`
	OrderSource  string `toml:"order_source" mapstructure:"order_source" json:"order_source"` // local | reservoir
}

// ChainCfg 链信息及支付币种表
type ChainCfg struct {
	ID     int64            `toml:"id" mapstructure:"id" json:"id"`
	Name   string           `toml:"name" mapstructure:"name" json:"name"`
	Tokens []types.Currency `toml:"tokens" mapstructure:"tokens" json:"tokens"`
}

// PriceCfg 价格缓存配置
type PriceCfg struct {
	CacheTTL int `toml:"cache_ttl" mapstructure:"cache_ttl" json:"cache_ttl"` // 秒, 0 表示不缓存
}

type HistoryCfg struct {
	Source string `toml:"source" mapstructure:"source" json:"source"` // mongo | mysql
}

// ReservoirCfg 外部订单聚合服务配置
type ReservoirCfg struct {
	BaseURL string `toml:"base_url" mapstructure:"base_url" json:"base_url"`
	ApiKey  string `toml:"api_key" mapstructure:"api_key" json:"-"`
	Timeout int    `toml:"timeout" mapstructure:"timeout" json:"timeout"` // 秒
	Retries int    `toml:"retries" mapstructure:"retries" json:"retries"`
}

// UnmarshalConfig 加载并解析配置文件
func UnmarshalConfig(configFilePath string) (*Config, error) {
	viper.SetConfigFile(configFilePath)
	viper.SetConfigType("toml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("EXPLORER") // 如 EXPLORER_MONGO_URI
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return nil, err
	}
	c.applyDefaults()

	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Query.DefaultLimit <= 0 {
		c.Query.DefaultLimit = 20
	}
	if c.Query.MaxLimit <= 0 {
		c.Query.MaxLimit = 100
	}
	if c.Query.DefaultLimit > c.Query.MaxLimit {
		c.Query.DefaultLimit = c.Query.MaxLimit
	}
	if c.Query.OrderSource == "" {
		c.Query.OrderSource = OrderSourceLocal
	}
	if c.History.Source == "" {
		c.History.Source = HistorySourceMongo
	}
	if c.Mongo.Timeout <= 0 {
		c.Mongo.Timeout = 10
	}
	if c.Reservoir.Timeout <= 0 {
		c.Reservoir.Timeout = 10
	}
}
