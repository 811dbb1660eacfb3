package strategy

import (
	"context"
	"strings"
	"sync"

	"github.com/ProjectsTask/EasySwapExplorer/src/service/filter"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/join"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// fakeStore 内存版 Store, 返回预置数据并记录调用次数
// tokens/orders 视为已按查询排序
type fakeStore struct {
	mu    sync.Mutex
	calls map[string]int

	tokens  []types.Token
	orders  []types.Order
	owners  []types.Owner
	offers  []types.TokenRef
	history []types.HistoryEntry
	attrs   *types.CollectionAttributes
	prices  []types.TokenPrice
}

func newFakeStore() *fakeStore {
	return &fakeStore{calls: make(map[string]int)}
}

func (s *fakeStore) called(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
}

func (s *fakeStore) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *fakeStore) FindCollectionAttributes(ctx context.Context, contractAddress string) (*types.CollectionAttributes, error) {
	s.called("FindCollectionAttributes")
	return s.attrs, nil
}

func (s *fakeStore) GetPrices(ctx context.Context) ([]types.TokenPrice, error) {
	s.called("GetPrices")
	return s.prices, nil
}

func (s *fakeStore) FindActiveOfferRefs(ctx context.Context, now int64) ([]types.TokenRef, error) {
	s.called("FindActiveOfferRefs")
	return s.offers, nil
}

func (s *fakeStore) FindTokens(ctx context.Context, f *filter.NftFilter, w filter.Window) ([]types.Token, error) {
	s.called("FindTokens")
	out := s.tokens
	if w.Skip > 0 {
		if int(w.Skip) >= len(out) {
			return nil, nil
		}
		out = out[w.Skip:]
	}
	if w.Limit > 0 && int(w.Limit) < len(out) {
		out = out[:w.Limit]
	}
	return append([]types.Token(nil), out...), nil
}

func (s *fakeStore) CountTokens(ctx context.Context, f *filter.NftFilter) (int64, error) {
	s.called("CountTokens")
	return int64(len(s.tokens)), nil
}

// FindOrders grouped 时每个 NFT 只保留第一个订单, bundle 原样保留
func (s *fakeStore) FindOrders(ctx context.Context, f *filter.OrderFilter, grouped bool) ([]types.Order, error) {
	s.called("FindOrders")
	if !grouped {
		return append([]types.Order(nil), s.orders...), nil
	}
	var out []types.Order
	seen := make(map[join.Key]struct{})
	for _, o := range s.orders {
		asset := o.NftAsset()
		if !asset.IsBundle() {
			k := join.KeyOf(asset.Contract, asset.TokenID)
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *fakeStore) FindOrdersForTokens(ctx context.Context, refs []types.TokenRef, now int64) ([]types.Order, error) {
	s.called("FindOrdersForTokens")
	return append([]types.Order(nil), s.orders...), nil
}

func (s *fakeStore) FindOwners(ctx context.Context, q filter.OwnerQuery) ([]types.Owner, error) {
	s.called("FindOwners")
	return append([]types.Owner(nil), s.owners...), nil
}

func (s *fakeStore) CountOwners(ctx context.Context, q filter.OwnerQuery) (int64, error) {
	s.called("CountOwners")
	return int64(len(s.owners)), nil
}

func (s *fakeStore) FindOwnersByKeys(ctx context.Context, refs []types.TokenRef) ([]types.Owner, error) {
	s.called("FindOwnersByKeys")
	var out []types.Owner
	for _, o := range s.owners {
		for _, r := range refs {
			if strings.EqualFold(o.ContractAddress, r.ContractAddress) && o.TokenID == r.TokenID {
				out = append(out, o)
			}
		}
	}
	return out, nil
}

func (s *fakeStore) FindHistory(ctx context.Context, contract, historySort string) ([]types.HistoryEntry, error) {
	s.called("FindHistory")
	return s.history, nil
}

// fakeReservoir 外部订单源
type fakeReservoir struct {
	orders []types.Order
	calls  int
}

func (r *fakeReservoir) Orders(ctx context.Context, contract string, tokenIDs []string, p types.OrderParams) ([]types.Order, error) {
	r.calls++
	return r.orders, nil
}
