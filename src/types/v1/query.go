package types

import (
	"strings"
)

const (
	TokenTypeERC721  = "ERC721"
	TokenTypeERC1155 = "ERC1155"
)

// NFT 排序
const (
	NftSortTokenIDAsc  = "tokenIdAsc"
	NftSortTokenIDDesc = "tokenIdDesc"
)

// 订单排序, 互斥
const (
	OrderSortRecentlyListed = "recentlyListed"
	OrderSortHighestPrice   = "highestPrice"
	OrderSortLowestPrice    = "lowestPrice"
	OrderSortTokenIDAsc     = "tokenIdAsc"
	OrderSortTokenIDDesc    = "tokenIdDesc"
	OrderSortEndingSoon     = "endingSoon"
)

// 转账历史排序
const (
	HistorySortRecentlyMinted      = "recentlyMinted"
	HistorySortRecentlyTransferred = "recentlyTransferred"
)

// NftQueryParams 请求中的原始过滤参数 (filters JSON)
// 由 Strategy Context 按参数组拆分为 QueryParameters
type NftQueryParams struct {
	// NFT
	ContractAddress string              `json:"contractAddress" validate:"omitempty,address"`
	TokenType       string              `json:"tokenType" validate:"omitempty,oneof=ERC721 ERC1155"`
	SearchQuery     string              `json:"searchQuery" validate:"omitempty,max=128"`
	TokenIDs        string              `json:"tokenIds" validate:"omitempty,tokenids"`
	Traits          map[string][]string `json:"traits"`
	NftSort         string              `json:"nftSort" validate:"omitempty,oneof=tokenIdAsc tokenIdDesc"`

	// Order
	Side            string `json:"side" validate:"omitempty,oneof=BUY SELL"`
	MinPrice        string `json:"minPrice" validate:"omitempty,numeric"`
	MaxPrice        string `json:"maxPrice" validate:"omitempty,numeric"`
	BeforeTimestamp int64  `json:"beforeTimestamp" validate:"omitempty,gt=0"`
	TokenAddress    string `json:"tokenAddress" validate:"omitempty,address"`
	AssetClass      string `json:"assetClass" validate:"omitempty,max=256"`
	HasOffers       bool   `json:"hasOffers"`
	Maker           string `json:"maker" validate:"omitempty,address"`
	OrderSort       string `json:"orderSort" validate:"omitempty,oneof=recentlyListed highestPrice lowestPrice tokenIdAsc tokenIdDesc endingSoon"`

	// Owner
	OwnerAddress string `json:"ownerAddress" validate:"omitempty,address"`

	// History
	HistorySort string `json:"historySort" validate:"omitempty,oneof=recentlyMinted recentlyTransferred"`

	// General
	Page  int `json:"page" validate:"omitempty,gte=0,lte=100000"`
	Limit int `json:"limit" validate:"omitempty,gte=0"`
}

// NftParams NFT 参数组
type NftParams struct {
	ContractAddress string
	TokenType       string
	SearchQuery     string
	TokenIDs        string
	Traits          map[string][]string
	NftSort         string
}

// IsActive 任一字段被设置即视为启用
func (p NftParams) IsActive() bool {
	return p.ContractAddress != "" || p.TokenType != "" || p.SearchQuery != "" ||
		p.TokenIDs != "" || len(p.Traits) > 0 || p.NftSort != ""
}

// TokenIDList 解析 tokenIds CSV, 忽略空项
func (p NftParams) TokenIDList() []string {
	return SplitCSV(p.TokenIDs)
}

// OrderParams 订单参数组
type OrderParams struct {
	Side            string
	MinPrice        string
	MaxPrice        string
	BeforeTimestamp int64
	TokenAddress    string
	AssetClass      string
	HasOffers       bool
	Maker           string
	OrderSort       string
}

func (p OrderParams) IsActive() bool {
	return p.Side != "" || p.MinPrice != "" || p.MaxPrice != "" || p.BeforeTimestamp != 0 ||
		p.TokenAddress != "" || p.AssetClass != "" || p.HasOffers || p.Maker != "" || p.OrderSort != ""
}

// Sorted 是否显式指定了订单排序
// 指定后 join 必须以订单集合作为驱动集合, 否则排序会在 join 中丢失
func (p OrderParams) Sorted() bool {
	return p.OrderSort != ""
}

// AssetClassList 解析 assetClass CSV
func (p OrderParams) AssetClassList() []string {
	return SplitCSV(p.AssetClass)
}

// OwnerParams 持有人参数组
type OwnerParams struct {
	OwnerAddress string
}

func (p OwnerParams) IsActive() bool {
	return p.OwnerAddress != ""
}

// HistoryParams 转账历史参数组
type HistoryParams struct {
	HistorySort string
}

func (p HistoryParams) IsActive() bool {
	return p.HistorySort != ""
}

// MaxPage 页码上限, 与 NftQueryParams.Page 的校验规则一致
const MaxPage = 100000

// GeneralParams 分页参数
type GeneralParams struct {
	Page         int
	Limit        int
	SkippedItems int
}

// QueryParameters 单次请求的参数聚合, 构造后不再修改
type QueryParameters struct {
	Nft     NftParams
	Order   OrderParams
	Owner   OwnerParams
	History HistoryParams
	General GeneralParams
}

// SplitCSV 按逗号切分并去除空白项
func SplitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
