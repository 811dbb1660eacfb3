package join

import (
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// Page 分页参数, Skip = (Number-1) * Limit
type Page struct {
	Number int
	Limit  int
	Skip   int
}

// Matcher 判断驱动集合中的一项是否通过全部过滤, 通过时返回输出项
type Matcher[T any] func(item T) (types.Entry, bool)

// Paginate 按驱动集合的顺序遍历并过滤
// 1. 累计到 Skip+Limit 个匹配项即停止
// 2. 从 Skip 处截取, Skip 越界时返回空页
func Paginate[T any](driving []T, page Page, match Matcher[T]) *types.PagedResult {
	res := types.EmptyPage(page.Number, page.Limit)
	if page.Skip < 0 || page.Skip >= len(driving) {
		return res
	}
	bound := page.Skip + page.Limit
	if bound < page.Skip {
		bound = len(driving)
	}

	var matched []types.Entry
	for _, item := range driving {
		entry, ok := match(item)
		if !ok {
			continue
		}
		matched = append(matched, entry)
		if page.Limit > 0 && len(matched) >= bound {
			break
		}
	}

	if page.Skip < len(matched) {
		res.Nfts = append(res.Nfts, matched[page.Skip:]...)
	}
	return res
}

// Count 与 Paginate 相同的过滤逻辑, 只计数
func Count[T any](driving []T, match Matcher[T]) int64 {
	var n int64
	for _, item := range driving {
		if _, ok := match(item); ok {
			n++
		}
	}
	return n
}

// Sets 参与关联的结果集, Require* 为 true 时驱动项必须在该集合中有匹配
// 集合为 nil 表示该集合未查询, 不关联也不过滤
type Sets struct {
	Tokens        TokenIndex
	RequireTokens bool

	Owners        OwnerIndex
	RequireOwners bool

	Orders        *OrderIndex
	RequireOrders bool
	// FilterOrders 为 true 时 Orders 只参与过滤, 输出的订单由分页后的 Attach 补充
	FilterOrders bool
}

// attach 为单个 NFT 关联 owners/orders, 必需集合中没有匹配时返回 false
func (s Sets) attach(k Key, view *types.NftView) bool {
	if s.Owners != nil {
		view.Owners = s.Owners.Views(k)
		if s.RequireOwners && len(view.Owners) == 0 {
			return false
		}
	}
	if s.Orders != nil {
		matched := s.Orders.Match(k)
		if s.RequireOrders && len(matched) == 0 {
			return false
		}
		if !s.FilterOrders {
			view.Orders = matched
		}
	}
	return true
}

// ByToken 以 token 为驱动集合
func ByToken(s Sets) Matcher[types.Token] {
	return func(t types.Token) (types.Entry, bool) {
		view := &types.NftView{Token: t}
		if !s.attach(TokenKey(t), view) {
			return nil, false
		}
		return view, true
	}
}

// ByHistory 以转账历史为驱动集合, token 必须存在
func ByHistory(s Sets) Matcher[types.HistoryEntry] {
	seen := make(map[Key]struct{})
	return func(h types.HistoryEntry) (types.Entry, bool) {
		k := KeyOf(h.ContractAddress, h.TokenID)
		if _, dup := seen[k]; dup {
			return nil, false
		}
		t, ok := s.Tokens[k]
		if !ok {
			return nil, false
		}
		view := &types.NftView{Token: t}
		if !s.attach(k, view) {
			return nil, false
		}
		seen[k] = struct{}{}
		return view, true
	}
}

// ByOrder 以订单为驱动集合
// 单个 NFT 订单输出 NftView, 同一 NFT 只输出一次, 其全部有效订单由 Attach 补充
// bundle 订单输出 BundleView, 成员按 contracts/tokenIds 精确匹配, 并受 token/owner 集合约束
func ByOrder(s Sets) Matcher[types.Order] {
	seen := make(map[Key]struct{})
	return func(o types.Order) (types.Entry, bool) {
		asset := o.NftAsset()
		if asset.IsBundle() {
			return s.bundle(o, asset)
		}

		k := KeyOf(asset.Contract, asset.TokenID)
		if _, dup := seen[k]; dup {
			return nil, false
		}

		t, ok := s.tokenOf(k, o)
		if !ok {
			return nil, false
		}
		view := &types.NftView{Token: t}
		if !s.attach(k, view) {
			return nil, false
		}
		seen[k] = struct{}{}
		return view, true
	}
}

// tokenOf 优先从 token 集合取, 否则取订单关联出的 token
func (s Sets) tokenOf(k Key, o types.Order) (types.Token, bool) {
	if s.Tokens != nil {
		t, ok := s.Tokens[k]
		if ok || s.RequireTokens {
			return t, ok
		}
	}
	for _, t := range o.Nfts {
		if TokenKey(t) == k {
			return t, true
		}
	}
	return types.Token{}, false
}

func (s Sets) bundle(o types.Order, asset types.AssetType) (types.Entry, bool) {
	if !asset.Aligned() {
		return nil, false
	}

	members := make([]types.Token, 0, len(o.Nfts))
	seen := make(map[Key]struct{}, len(o.Nfts))
	for _, t := range o.Nfts {
		k := TokenKey(t)
		if _, dup := seen[k]; dup || !BundleContains(asset, k) {
			continue
		}
		if s.RequireTokens {
			if _, ok := s.Tokens[k]; !ok {
				continue
			}
		}
		if s.RequireOwners && len(s.Owners[k]) == 0 {
			continue
		}
		seen[k] = struct{}{}
		members = append(members, t)
	}
	if len(members) == 0 {
		return nil, false
	}

	order := o
	order.Nfts = nil
	return &types.BundleView{Order: order, Nfts: members}, true
}

// Keys 分页结果中单个 NFT 的 key, 用于分页后补充关联
func Keys(res *types.PagedResult) []Key {
	var keys []Key
	for _, e := range res.Nfts {
		if v, ok := e.(*types.NftView); ok {
			keys = append(keys, TokenKey(v.Token))
		}
	}
	return keys
}

// Attach 分页后补充未关联的 owners/orders, 并把 nil 数组规整为空数组
func Attach(res *types.PagedResult, owners OwnerIndex, orders *OrderIndex) *types.PagedResult {
	for _, e := range res.Nfts {
		v, ok := e.(*types.NftView)
		if !ok {
			continue
		}
		k := TokenKey(v.Token)
		if v.Owners == nil && owners != nil {
			v.Owners = owners.Views(k)
		}
		if v.Orders == nil && orders != nil {
			v.Orders = orders.Match(k)
		}
		if v.Owners == nil {
			v.Owners = []types.OwnerView{}
		}
		if v.Orders == nil {
			v.Orders = []types.Order{}
		}
	}
	return res
}
