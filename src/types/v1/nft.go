package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 订单状态
const (
	OrderStatusCreated       = "CREATED"
	OrderStatusPartialFilled = "PARTIALFILLED"
	OrderStatusFilled        = "FILLED"
	OrderStatusCancelled     = "CANCELLED"
	OrderStatusStale         = "STALE"
)

const (
	OrderSideBuy  = "BUY"
	OrderSideSell = "SELL"
)

// 资产类型
const (
	AssetClassETH          = "ETH"
	AssetClassERC20        = "ERC20"
	AssetClassERC721       = "ERC721"
	AssetClassERC1155      = "ERC1155"
	AssetClassERC721Bundle = "ERC721_BUNDLE"
)

// Token 已铸造的 NFT
type Token struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ContractAddress string             `bson:"contractAddress" json:"contractAddress"`
	TokenID         string             `bson:"tokenId" json:"tokenId"`
	TokenType       string             `bson:"tokenType" json:"tokenType"`
	Metadata        bson.M             `bson:"metadata,omitempty" json:"metadata,omitempty"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
	SearchScore     float64            `bson:"searchScore,omitempty" json:"searchScore,omitempty"`
}

// AssetType 订单一侧的资产描述
// Bundle 订单使用 Contracts/TokenIDs 两个按下标对齐的数组, Contracts[i] 对应 TokenIDs[i] 中的多个 tokenId
type AssetType struct {
	AssetClass string     `bson:"assetClass" json:"assetClass"`
	Contract   string     `bson:"contract,omitempty" json:"contract,omitempty"`
	TokenID    string     `bson:"tokenId,omitempty" json:"tokenId,omitempty"`
	Contracts  []string   `bson:"contracts,omitempty" json:"contracts,omitempty"`
	TokenIDs   [][]string `bson:"tokenIds,omitempty" json:"tokenIds,omitempty"`
}

func (a AssetType) IsBundle() bool {
	return a.AssetClass == AssetClassERC721Bundle
}

// Aligned bundle 的两个数组长度一致
func (a AssetType) Aligned() bool {
	return len(a.Contracts) == len(a.TokenIDs)
}

type Asset struct {
	AssetType AssetType            `bson:"assetType" json:"assetType"`
	Value     primitive.Decimal128 `bson:"value" json:"value"`
}

// Order 链下签名订单
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Hash      string             `bson:"hash" json:"hash"`
	Status    string             `bson:"status" json:"status"`
	Side      string             `bson:"side" json:"side"`
	Maker     string             `bson:"maker" json:"maker"`
	Taker     string             `bson:"taker,omitempty" json:"taker,omitempty"`
	Make      Asset              `bson:"make" json:"make"`
	Take      Asset              `bson:"take" json:"take"`
	Start     int64              `bson:"start" json:"start"`
	End       int64              `bson:"end" json:"end"`
	Salt      string             `bson:"salt" json:"salt"`
	Signature string             `bson:"signature" json:"signature"`
	Data      bson.M             `bson:"data,omitempty" json:"data,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	// 排序用派生字段
	UsdValue float64 `bson:"usdValue,omitempty" json:"usdValue,omitempty"`

	// lookup 关联出的 token, 不直接输出
	Nfts []Token `bson:"nfts,omitempty" json:"-"`
}

// NftAsset 订单中 NFT 所在的一侧: 卖单在 make, 买单在 take
func (o Order) NftAsset() AssetType {
	if o.Side == OrderSideBuy {
		return o.Take.AssetType
	}
	return o.Make.AssetType
}

// IsActive 订单当前是否可成交
func (o Order) IsActive(now int64) bool {
	if o.Status != OrderStatusCreated && o.Status != OrderStatusPartialFilled {
		return false
	}
	if o.Start != 0 && o.Start >= now {
		return false
	}
	if o.End != 0 && o.End <= now {
		return false
	}
	return true
}

// Owner 持有记录, ERC721 与 ERC1155 分表存储
type Owner struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Address         string             `bson:"address" json:"address"`
	ContractAddress string             `bson:"contractAddress" json:"contractAddress"`
	TokenID         string             `bson:"tokenId" json:"tokenId"`
	Value           interface{}        `bson:"value,omitempty" json:"value,omitempty"`

	// owner -> token lookup 结果
	Token *Token `bson:"token,omitempty" json:"-"`
}

// TokenRef (contractAddress, tokenId) 二元组
type TokenRef struct {
	ContractAddress string `bson:"contractAddress" json:"contractAddress"`
	TokenID         string `bson:"tokenId" json:"tokenId"`
}

// HistoryEntry 按 token 聚合后的转账历史
type HistoryEntry struct {
	ContractAddress string    `bson:"contractAddress" json:"contractAddress" gorm:"column:contract_address"`
	TokenID         string    `bson:"tokenId" json:"tokenId" gorm:"column:token_id"`
	LastBlock       int64     `bson:"lastBlock" json:"lastBlock" gorm:"column:last_block"`
	LastLogIndex    int64     `bson:"lastLogIndex" json:"lastLogIndex" gorm:"column:last_log_index"`
	MintedAt        time.Time `bson:"mintedAt" json:"mintedAt" gorm:"column:minted_at"`
	LastTransferAt  time.Time `bson:"lastTransferAt" json:"lastTransferAt" gorm:"column:last_transfer_at"`
}

// CollectionAttributes 集合属性索引: trait 名称 -> trait 值 -> tokenIds
type CollectionAttributes struct {
	ContractAddress string                         `bson:"contractAddress"`
	Attributes      map[string]map[string][]string `bson:"attributes"`
}

// TokenPrice 价格缓存
type TokenPrice struct {
	Coin  string  `bson:"coin" json:"coin"`
	Value float64 `bson:"value" json:"value"`
}

// Currency 支付币种配置 (地址 + 精度)
type Currency struct {
	Coin     string `toml:"coin" mapstructure:"coin" json:"coin"`
	Address  string `toml:"address" mapstructure:"address" json:"address"`
	Decimals int32  `toml:"decimals" mapstructure:"decimals" json:"decimals"`
}
