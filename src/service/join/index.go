// Package join 在内存中关联 tokens/owners/orders 等独立查询结果, 并按驱动集合分页
package join

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// Key (contractAddress, tokenId), 地址统一小写
type Key struct {
	Contract string
	TokenID  string
}

func KeyOf(contract, tokenID string) Key {
	return Key{Contract: strings.ToLower(contract), TokenID: tokenID}
}

func TokenKey(t types.Token) Key {
	return KeyOf(t.ContractAddress, t.TokenID)
}

func OwnerKey(o types.Owner) Key {
	return KeyOf(o.ContractAddress, o.TokenID)
}

// Ref 转为 TokenRef, 供按 key 批量查询
func (k Key) Ref() types.TokenRef {
	return types.TokenRef{ContractAddress: k.Contract, TokenID: k.TokenID}
}

// TokenIndex token 按 key 索引, 重复时保留第一个
type TokenIndex map[Key]types.Token

func IndexTokens(tokens []types.Token) TokenIndex {
	idx := make(TokenIndex, len(tokens))
	for _, t := range tokens {
		k := TokenKey(t)
		if _, ok := idx[k]; !ok {
			idx[k] = t
		}
	}
	return idx
}

// OwnerIndex 持有记录按 key 索引, ERC1155 同一 token 可有多个持有人
type OwnerIndex map[Key][]types.Owner

func IndexOwners(owners []types.Owner) OwnerIndex {
	idx := make(OwnerIndex, len(owners))
	for _, o := range owners {
		k := OwnerKey(o)
		idx[k] = append(idx[k], o)
	}
	return idx
}

// Views 持有人视图, 数量统一转为字符串, ERC721 没有 value 字段时为 "1"
func (i OwnerIndex) Views(k Key) []types.OwnerView {
	owners := i[k]
	if len(owners) == 0 {
		return nil
	}
	views := make([]types.OwnerView, 0, len(owners))
	for _, o := range owners {
		views = append(views, types.OwnerView{Owner: o.Address, Value: valueString(o.Value)})
	}
	return views
}

func valueString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "1"
	case string:
		return x
	case primitive.Decimal128:
		return x.String()
	case int32, int64, int:
		return fmt.Sprintf("%d", x)
	case float64:
		return fmt.Sprintf("%.0f", x)
	default:
		return fmt.Sprint(x)
	}
}

// OrderIndex 订单索引, 单个 NFT 订单按 key 索引, bundle 订单按成员匹配
type OrderIndex struct {
	singles   map[Key][]types.Order
	bundles   []types.Order
	malformed int
}

func IndexOrders(orders []types.Order) *OrderIndex {
	idx := &OrderIndex{singles: make(map[Key][]types.Order, len(orders))}
	for _, o := range orders {
		asset := o.NftAsset()
		if asset.IsBundle() {
			if !asset.Aligned() {
				idx.malformed++
				continue
			}
			idx.bundles = append(idx.bundles, o)
			continue
		}
		k := KeyOf(asset.Contract, asset.TokenID)
		idx.singles[k] = append(idx.singles[k], o)
	}
	return idx
}

// Match 与该 NFT 相关的全部订单
func (i *OrderIndex) Match(k Key) []types.Order {
	if i == nil {
		return nil
	}
	matched := append([]types.Order(nil), i.singles[k]...)
	for _, b := range i.bundles {
		if BundleContains(b.NftAsset(), k) {
			matched = append(matched, b)
		}
	}
	return matched
}

// Malformed contracts/tokenIds 下标不对齐而被丢弃的 bundle 数量
func (i *OrderIndex) Malformed() int {
	if i == nil {
		return 0
	}
	return i.malformed
}

// BundleContains bundle 是否包含该 NFT: contracts[i] 与 tokenIds[i] 描述同一组成员
// 下标不对齐的 bundle 不匹配任何 NFT
func BundleContains(a types.AssetType, k Key) bool {
	if !a.Aligned() {
		return false
	}
	for i, c := range a.Contracts {
		if !strings.EqualFold(c, k.Contract) {
			continue
		}
		for _, id := range a.TokenIDs[i] {
			if id == k.TokenID {
				return true
			}
		}
	}
	return false
}
