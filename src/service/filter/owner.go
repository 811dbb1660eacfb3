package filter

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// OwnerCollation 地址大小写不敏感比较
var OwnerCollation = &options.Collation{Locale: "en", Strength: 2}

// OwnerQuery 尚未执行的持有记录聚合, 由调用方决定何时(并发)执行
type OwnerQuery struct {
	Collection string
	Pipeline   mongo.Pipeline
}

// BuildOwnerQuery 按 token 标准选择持有记录集合, 未知标准时合并两个集合
func BuildOwnerQuery(p types.OwnerParams, standard string) OwnerQuery {
	match := matchStage(bson.D{{Key: "address", Value: p.OwnerAddress}})

	var q OwnerQuery
	switch strings.ToUpper(standard) {
	case types.TokenTypeERC721:
		q = OwnerQuery{Collection: CollErc721Owners, Pipeline: mongo.Pipeline{match}}
	case types.TokenTypeERC1155:
		q = OwnerQuery{Collection: CollErc1155Owners, Pipeline: mongo.Pipeline{match}}
	default:
		q = OwnerQuery{Collection: CollErc721Owners, Pipeline: mongo.Pipeline{
			match,
			{{Key: "$unionWith", Value: bson.D{
				{Key: "coll", Value: CollErc1155Owners},
				{Key: "pipeline", Value: bson.A{match}},
			}}},
		}}
	}

	q.Pipeline = append(q.Pipeline, sortStage(bson.D{
		{Key: "contractAddress", Value: 1},
		{Key: "tokenId", Value: 1},
		{Key: "_id", Value: 1},
	}))
	return q
}

// with 复制管道并追加 stage, 原查询不变
func (q OwnerQuery) with(stages ...bson.D) OwnerQuery {
	p := make(mongo.Pipeline, 0, len(q.Pipeline)+len(stages))
	p = append(p, q.Pipeline...)
	p = append(p, stages...)
	return OwnerQuery{Collection: q.Collection, Pipeline: p}
}

// Paged 库内分页
func (q OwnerQuery) Paged(w Window) OwnerQuery {
	return q.with(w.stages()...)
}

// WithTokens 关联出持有的 token, 丢弃 token 不存在的持有记录
func (q OwnerQuery) WithTokens() OwnerQuery {
	stages := append(LookupOwnerToken(), matchStage(bson.D{{Key: "token", Value: bson.D{{Key: "$exists", Value: true}}}}))
	return q.with(stages...)
}

// Count 计数
func (q OwnerQuery) Count() OwnerQuery {
	return q.with(countStage())
}

// OwnersByKeysQuery 两个持有记录集合中属于给定 NFT 的记录, 需配合 OwnerCollation 执行
func OwnersByKeysQuery(refs []types.TokenRef) OwnerQuery {
	contracts, ids := refsByContract(refs)
	var or bson.A
	for _, c := range contracts {
		or = append(or, bson.D{
			{Key: "contractAddress", Value: c},
			{Key: "tokenId", Value: bson.D{{Key: "$in", Value: ids[c]}}},
		})
	}
	if len(or) == 0 {
		or = bson.A{bson.D{{Key: "_id", Value: bson.D{{Key: "$exists", Value: false}}}}}
	}
	match := matchStage(bson.D{{Key: "$or", Value: or}})

	return OwnerQuery{Collection: CollErc721Owners, Pipeline: mongo.Pipeline{
		match,
		{{Key: "$unionWith", Value: bson.D{
			{Key: "coll", Value: CollErc1155Owners},
			{Key: "pipeline", Value: bson.A{match}},
		}}},
		sortStage(bson.D{{Key: "contractAddress", Value: 1}, {Key: "tokenId", Value: 1}, {Key: "_id", Value: 1}}),
	}}
}
