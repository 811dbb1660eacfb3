package strategy

import (
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// Kind 查询策略, 按参数组组合互斥选择
type Kind int

const (
	KindNone Kind = iota
	KindNftOnly
	KindOrderOnly
	KindOwnerOnly
	KindNftOwner
	KindNftOrder
	KindOwnerOrder
	KindNftOwnerOrder
	KindHistory
	KindReservoirNftOrder
	KindReservoirNftOwnerOrder
)

var kindNames = map[Kind]string{
	KindNone:                   "none",
	KindNftOnly:                "nft",
	KindOrderOnly:              "order",
	KindOwnerOnly:              "owner",
	KindNftOwner:               "nft_owner",
	KindNftOrder:               "nft_order",
	KindOwnerOrder:             "owner_order",
	KindNftOwnerOrder:          "nft_owner_order",
	KindHistory:                "history",
	KindReservoirNftOrder:      "reservoir_nft_order",
	KindReservoirNftOwnerOrder: "reservoir_nft_owner_order",
}

func (k Kind) String() string {
	return kindNames[k]
}

// Classify 根据启用的参数组选择策略
// 1. history 参数启用时总是选择 History
// 2. 其余按 (nft, order, owner) 组合查表
// 3. 外部订单源且指定了合约时, NFT+Order 与 NFT+Owner+Order 使用外部订单版本
func Classify(p types.QueryParameters, reservoir bool) Kind {
	if p.History.IsActive() {
		return KindHistory
	}

	nft, order, owner := p.Nft.IsActive(), p.Order.IsActive(), p.Owner.IsActive()
	external := reservoir && p.Nft.ContractAddress != ""
	switch {
	case nft && order && owner:
		if external {
			return KindReservoirNftOwnerOrder
		}
		return KindNftOwnerOrder
	case nft && order:
		if external {
			return KindReservoirNftOrder
		}
		return KindNftOrder
	case nft && owner:
		return KindNftOwner
	case order && owner:
		return KindOwnerOrder
	case nft:
		return KindNftOnly
	case order:
		return KindOrderOnly
	case owner:
		return KindOwnerOnly
	}
	return KindNone
}
