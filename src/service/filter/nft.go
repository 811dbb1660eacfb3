package filter

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ProjectsTask/EasySwapExplorer/src/common/utils"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// ErrNoFilters owner 范围收窄后为空, 调用方应直接返回空页而不是发起无约束查询
var ErrNoFilters = errors.New("no filters: owner scope excludes every token")

// AttributeSource 查询集合属性索引
type AttributeSource interface {
	FindCollectionAttributes(ctx context.Context, contractAddress string) (*types.CollectionAttributes, error)
}

// NftFilter tokens 集合的查询条件及排序
type NftFilter struct {
	Match      bson.D
	SortStages []bson.D
	Sort       bson.D
}

// Pipeline 带排序与分页的 tokens 聚合管道
func (f *NftFilter) Pipeline(w Window) mongo.Pipeline {
	p := mongo.Pipeline{matchStage(f.Match)}
	p = append(p, f.SortStages...)
	p = append(p, sortStage(f.Sort))
	return append(p, w.stages()...)
}

// CountPipeline 与 Pipeline 相同条件下的计数
func (f *NftFilter) CountPipeline() mongo.Pipeline {
	return mongo.Pipeline{matchStage(f.Match), countStage()}
}

// BuildNftFilter 构建 NFT 查询条件
func BuildNftFilter(ctx context.Context, src AttributeSource, p types.NftParams) (*NftFilter, error) {
	return buildNftFilter(ctx, src, p, nil, false)
}

// BuildNftFilterForOwners 构建 NFT 查询条件并与 owner 持有的 (contract, tokenId) 取交集
// owner 列表按 contractAddress 收窄后为空时返回 ErrNoFilters
func BuildNftFilterForOwners(ctx context.Context, src AttributeSource, p types.NftParams, owners []types.Owner) (*NftFilter, error) {
	return buildNftFilter(ctx, src, p, owners, true)
}

func buildNftFilter(ctx context.Context, src AttributeSource, p types.NftParams, owners []types.Owner, withOwners bool) (*NftFilter, error) {
	var scoped []types.Owner
	if withOwners {
		scoped = owners
		if p.ContractAddress != "" {
			scoped = nil
			for _, o := range owners {
				if strings.EqualFold(o.ContractAddress, p.ContractAddress) {
					scoped = append(scoped, o)
				}
			}
		}
		if len(scoped) == 0 {
			return nil, ErrNoFilters
		}
	}

	var conds bson.A
	if p.ContractAddress != "" {
		conds = append(conds, bson.D{{Key: "contractAddress", Value: p.ContractAddress}})
	}
	if p.TokenType != "" {
		conds = append(conds, bson.D{{Key: "tokenType", Value: p.TokenType}})
	}

	if len(p.Traits) > 0 {
		ids, err := resolveTraits(ctx, src, p.ContractAddress, p.Traits)
		if err != nil {
			return nil, err
		}
		conds = append(conds, bson.D{{Key: "tokenId", Value: bson.D{{Key: "$in", Value: ids}}}})
	} else if ids := p.TokenIDList(); len(ids) > 0 {
		conds = append(conds, bson.D{{Key: "tokenId", Value: bson.D{{Key: "$in", Value: ids}}}})
	}

	if p.SearchQuery != "" {
		conds = append(conds, bson.D{{Key: "metadata.name", Value: bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(p.SearchQuery)},
			{Key: "$options", Value: "i"},
		}}})
	}

	if withOwners {
		conds = append(conds, bson.D{{Key: "$or", Value: ownerPairs(scoped)}})
	}

	f := &NftFilter{Match: and(conds)}
	switch p.NftSort {
	case types.NftSortTokenIDAsc:
		f.SortStages = []bson.D{TokenIDSortKeyStage("$tokenId")}
		f.Sort = bson.D{{Key: TokenIDSortKey, Value: 1}, {Key: "_id", Value: 1}}
	case types.NftSortTokenIDDesc:
		f.SortStages = []bson.D{TokenIDSortKeyStage("$tokenId")}
		f.Sort = bson.D{{Key: TokenIDSortKey, Value: -1}, {Key: "_id", Value: 1}}
	default:
		f.Sort = bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: 1}}
	}

	return f, nil
}

// ownerPairs owner 记录转为 $or 条件, tokens 中地址为 checksum 格式
func ownerPairs(owners []types.Owner) bson.A {
	seen := make(map[string]struct{}, len(owners))
	pairs := make(bson.A, 0, len(owners))
	for _, o := range owners {
		addr := utils.ToValidateAddress(o.ContractAddress)
		k := addr + "/" + o.TokenID
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		pairs = append(pairs, bson.D{
			{Key: "contractAddress", Value: addr},
			{Key: "tokenId", Value: o.TokenID},
		})
	}
	return pairs
}

// resolveTraits 将 trait 过滤解析为 tokenId 白名单
// 同一 trait 下多个值取并集, 不同 trait 之间取交集
// trait 名称在该集合下不存在时返回空白名单 (而不是不过滤)
func resolveTraits(ctx context.Context, src AttributeSource, contract string, traits map[string][]string) ([]string, error) {
	empty := []string{}
	if contract == "" {
		return empty, nil
	}

	attrs, err := src.FindCollectionAttributes(ctx, contract)
	if err != nil {
		return nil, errors.Wrap(err, "failed on query collection attributes")
	}
	if attrs == nil {
		return empty, nil
	}

	names := make([]string, 0, len(traits))
	for name := range traits {
		names = append(names, name)
	}
	sort.Strings(names)

	var result []string
	for i, name := range names {
		byValue, ok := attrs.Attributes[name]
		if !ok {
			return empty, nil
		}

		var group []string
		for _, v := range traits[name] {
			group = append(group, byValue[v]...)
		}
		if len(group) == 0 {
			return empty, nil
		}

		if i == 0 {
			result = utils.Intersect(group, group)
		} else {
			result = utils.Intersect(result, group)
		}
		if len(result) == 0 {
			return empty, nil
		}
	}

	return result, nil
}
