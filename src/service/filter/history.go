package filter

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// HistorySortField 历史排序对应的聚合字段
func HistorySortField(historySort string) string {
	if historySort == types.HistorySortRecentlyMinted {
		return "mintedAt"
	}
	return "lastTransferAt"
}

// BuildHistoryPipeline 按 token 聚合转账历史
// 每个 token 取区块/日志下标最大的一条作为最后一次转账, 最早一条的时间作为铸造时间
// 结果按铸造时间或最后转账时间倒序
func BuildHistoryPipeline(contract, historySort string) mongo.Pipeline {
	return mongo.Pipeline{
		matchStage(bson.D{{Key: "contractAddress", Value: contract}}),
		sortStage(bson.D{{Key: "blockNumber", Value: -1}, {Key: "logIndex", Value: -1}}),
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$tokenId"},
			{Key: "contractAddress", Value: bson.D{{Key: "$first", Value: "$contractAddress"}}},
			{Key: "lastBlock", Value: bson.D{{Key: "$first", Value: "$blockNumber"}}},
			{Key: "lastLogIndex", Value: bson.D{{Key: "$first", Value: "$logIndex"}}},
			{Key: "lastTransferAt", Value: bson.D{{Key: "$first", Value: "$timestamp"}}},
			{Key: "mintedAt", Value: bson.D{{Key: "$last", Value: "$timestamp"}}},
		}}},
		{{Key: "$addFields", Value: bson.D{{Key: "tokenId", Value: "$_id"}}}},
		sortStage(bson.D{
			{Key: HistorySortField(historySort), Value: -1},
			{Key: "lastBlock", Value: -1},
			{Key: "lastLogIndex", Value: -1},
			{Key: "_id", Value: 1},
		}),
	}
}
