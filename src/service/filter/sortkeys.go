package filter

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ProjectsTask/EasySwapExplorer/src/common/utils"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// 排序派生字段
const (
	TokenIDSortKey = "tokenIdSortKey"
	EndSortKey     = "endSortKey"
	UsdValueKey    = "usdValue"
	NftAssetKey    = "nftAsset"
)

// TokenIDSortKeyStage tokenId 为十进制字符串, 按数值排序需先转 decimal
// 非数字的 tokenId 排在最前
func TokenIDSortKeyStage(field string) bson.D {
	return bson.D{{Key: "$addFields", Value: bson.D{
		{Key: TokenIDSortKey, Value: bson.D{{Key: "$convert", Value: bson.D{
			{Key: "input", Value: field},
			{Key: "to", Value: "decimal"},
			{Key: "onError", Value: nil},
			{Key: "onNull", Value: nil},
		}}}},
	}}}
}

// EndSortKeyStage end 为 0 表示永不过期, 排在最后
func EndSortKeyStage() bson.D {
	return bson.D{{Key: "$addFields", Value: bson.D{
		{Key: EndSortKey, Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$end", 0}}}, 0}}},
			int64(math.MaxInt64),
			"$end",
		}}}},
	}}}
}

// UsdValueStage 按支付币种换算订单的美元价值
// 支付侧: 买单为 make, 卖单为 take
// 金额 / 10^decimals * 美元价格, 未知币种或缺少价格时为 0
// 返回缺少价格的币种, 由调用方记录
func UsdValueStage(currencies []types.Currency, prices []types.TokenPrice) (bson.D, []string) {
	priceOf := make(map[string]float64, len(prices))
	for _, p := range prices {
		priceOf[strings.ToUpper(p.Coin)] = p.Value
	}

	var missing []string
	branches := bson.A{}
	for _, c := range currencies {
		price, ok := priceOf[strings.ToUpper(c.Coin)]
		if !ok {
			missing = append(missing, c.Coin)
			continue
		}

		var caseExpr bson.D
		if utils.IsZeroAddress(c.Address) {
			caseExpr = bson.D{{Key: "$eq", Value: bson.A{"$$pay.assetType.assetClass", types.AssetClassETH}}}
		} else {
			caseExpr = bson.D{{Key: "$eq", Value: bson.A{
				bson.D{{Key: "$toLower", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$$pay.assetType.contract", ""}}}}},
				strings.ToLower(c.Address),
			}}}
		}

		branches = append(branches, bson.D{
			{Key: "case", Value: caseExpr},
			{Key: "then", Value: bson.D{{Key: "$multiply", Value: bson.A{
				bson.D{{Key: "$divide", Value: bson.A{
					bson.D{{Key: "$toDecimal", Value: "$$pay.value"}},
					scaleOf(c.Decimals),
				}}},
				price,
			}}}},
		})
	}

	var value interface{} = 0
	if len(branches) > 0 {
		value = bson.D{{Key: "$switch", Value: bson.D{
			{Key: "branches", Value: branches},
			{Key: "default", Value: 0},
		}}}
	}

	stage := bson.D{{Key: "$addFields", Value: bson.D{
		{Key: UsdValueKey, Value: bson.D{{Key: "$toDouble", Value: bson.D{{Key: "$let", Value: bson.D{
			{Key: "vars", Value: bson.D{{Key: "pay", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$side", types.OrderSideBuy}}},
				"$make",
				"$take",
			}}}}}},
			{Key: "in", Value: value},
		}}}}}},
	}}}

	return stage, missing
}

// scaleOf 10^decimals
func scaleOf(decimals int32) primitive.Decimal128 {
	d, _ := primitive.ParseDecimal128(decimal.New(1, decimals).String())
	return d
}

// ToBaseUnits 将十进制价格字符串换算为链上最小单位, 舍去多余小数位
func ToBaseUnits(price string, decimals int32) (primitive.Decimal128, error) {
	d, err := decimal.NewFromString(price)
	if err != nil {
		return primitive.Decimal128{}, err
	}
	return primitive.ParseDecimal128(d.Shift(decimals).Truncate(0).String())
}
