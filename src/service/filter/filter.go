// Package filter 将各参数组转换为 MongoDB 查询/聚合片段及排序
package filter

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// 集合名称
const (
	CollTokens               = "tokens"
	CollOrders               = "orders"
	CollErc721Owners         = "erc721owners"
	CollErc1155Owners        = "erc1155owners"
	CollCollectionAttributes = "collectionattributes"
	CollHistories            = "histories"
	CollTokenPrices          = "tokenprices"
)

// Window 库内分页窗口, Limit 为 0 表示不限制
type Window struct {
	Skip  int64
	Limit int64
}

// All 不分页
var All = Window{}

func (w Window) stages() mongo.Pipeline {
	var stages mongo.Pipeline
	if w.Skip > 0 {
		stages = append(stages, bson.D{{Key: "$skip", Value: w.Skip}})
	}
	if w.Limit > 0 {
		stages = append(stages, bson.D{{Key: "$limit", Value: w.Limit}})
	}
	return stages
}

// countStage 统一的计数 stage, 输出 {count: n}
func countStage() bson.D {
	return bson.D{{Key: "$count", Value: "count"}}
}

func matchStage(match bson.D) bson.D {
	if match == nil {
		match = bson.D{}
	}
	return bson.D{{Key: "$match", Value: match}}
}

func sortStage(sort bson.D) bson.D {
	return bson.D{{Key: "$sort", Value: sort}}
}

// and 组装 $and, 空条件返回空文档
func and(conds bson.A) bson.D {
	if len(conds) == 0 {
		return bson.D{}
	}
	return bson.D{{Key: "$and", Value: conds}}
}
