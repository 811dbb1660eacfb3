package types

// Entry 分页结果中的一项: 单个 NFT 视图或 bundle 订单视图
type Entry interface {
	entry()
}

// OwnerView 持有人及持有数量 (ERC721 固定为 "1")
type OwnerView struct {
	Owner string `json:"owner"`
	Value string `json:"value"`
}

// NftView NFT 元数据 + 当前持有人 + 有效订单
// Orders 为数组以支持 ERC1155 多个挂单
type NftView struct {
	Token
	Owners []OwnerView `json:"owners"`
	Orders []Order     `json:"orders"`
}

func (*NftView) entry() {}

// BundleView bundle 订单及其包含的 NFT
type BundleView struct {
	Order
	Nfts []Token `json:"nfts"`
}

func (*BundleView) entry() {}

// PagedResult 分页查询结果
type PagedResult struct {
	Page int     `json:"page"`
	Size int     `json:"size"`
	Nfts []Entry `json:"nfts"`
}

// CountResult 计数结果
type CountResult struct {
	Count int64 `json:"count"`
}

// EmptyPage 空分页, nfts 序列化为 []
func EmptyPage(page, size int) *PagedResult {
	return &PagedResult{Page: page, Size: size, Nfts: []Entry{}}
}
