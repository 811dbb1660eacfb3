package filter

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// NftAssetStage 派生订单中 NFT 所在一侧的 assetType: 买单为 take, 卖单为 make
func NftAssetStage() bson.D {
	return bson.D{{Key: "$addFields", Value: bson.D{
		{Key: NftAssetKey, Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$side", types.OrderSideBuy}}},
			"$take.assetType",
			"$make.assetType",
		}}}},
	}}}
}

// LookupOrderTokens 订单关联 token, 结果写入 nfts 字段, 依赖 NftAssetStage
// 地址统一小写比较; bundle 订单按 contracts/tokenIds 成员粗匹配, 精确的下标对齐由 join 校验
func LookupOrderTokens() bson.D {
	asset := "$" + NftAssetKey
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: CollTokens},
		{Key: "let", Value: bson.D{
			{Key: "c", Value: bson.D{{Key: "$toLower", Value: bson.D{{Key: "$ifNull", Value: bson.A{asset + ".contract", ""}}}}}},
			{Key: "t", Value: bson.D{{Key: "$ifNull", Value: bson.A{asset + ".tokenId", ""}}}},
			{Key: "cs", Value: bson.D{{Key: "$map", Value: bson.D{
				{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{asset + ".contracts", bson.A{}}}}},
				{Key: "as", Value: "x"},
				{Key: "in", Value: bson.D{{Key: "$toLower", Value: "$$x"}}},
			}}}},
			{Key: "ts", Value: bson.D{{Key: "$reduce", Value: bson.D{
				{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{asset + ".tokenIds", bson.A{}}}}},
				{Key: "initialValue", Value: bson.A{}},
				{Key: "in", Value: bson.D{{Key: "$concatArrays", Value: bson.A{"$$value", "$$this"}}}},
			}}}},
		}},
		{Key: "pipeline", Value: bson.A{
			bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{bson.D{{Key: "$toLower", Value: "$contractAddress"}}, "$$c"}}},
					bson.D{{Key: "$eq", Value: bson.A{"$tokenId", "$$t"}}},
				}}},
				bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "$in", Value: bson.A{bson.D{{Key: "$toLower", Value: "$contractAddress"}}, "$$cs"}}},
					bson.D{{Key: "$in", Value: bson.A{"$tokenId", "$$ts"}}},
				}}},
			}}}}}}},
		}},
		{Key: "as", Value: "nfts"},
	}}}
}

// LookupOwnerToken 持有记录关联 token, 结果写入 token 字段 (单个文档)
func LookupOwnerToken() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CollTokens},
			{Key: "let", Value: bson.D{
				{Key: "c", Value: bson.D{{Key: "$toLower", Value: "$contractAddress"}}},
				{Key: "t", Value: "$tokenId"},
			}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{bson.D{{Key: "$toLower", Value: "$contractAddress"}}, "$$c"}}},
					bson.D{{Key: "$eq", Value: bson.A{"$tokenId", "$$t"}}},
				}}}}}}},
				bson.D{{Key: "$limit", Value: 1}},
			}},
			{Key: "as", Value: "token"},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "token", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{"$token", 0}}}},
		}}},
	}
}
