package v1

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasySwapExplorer/src/common/errcode"
	"github.com/ProjectsTask/EasySwapExplorer/src/common/xhttp"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/svc"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/v1"
	"github.com/ProjectsTask/EasySwapExplorer/src/types/v1"
)

// NftsHandler NFT 分页查询
// 主要功能:
// 1. 解析前端传递的过滤参数 (filters)
// 2. 按启用的参数组选择查询策略
// 3. 返回 {page, size, nfts}
func NftsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := parseFilters(c)
		if err != nil {
			xhttp.Error(c, err)
			return
		}

		res, err := service.QueryNfts(c.Request.Context(), svcCtx, filter)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// NftsCountHandler 与 NftsHandler 过滤条件一致的结果总数
func NftsCountHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := parseFilters(c)
		if err != nil {
			xhttp.Error(c, err)
			return
		}

		res, err := service.CountNfts(c.Request.Context(), svcCtx, filter)
		if err != nil {
			xhttp.Error(c, err)
			return
		}
		xhttp.OkJson(c, res)
	}
}

// parseFilters 解析 filters 查询参数, 为空时视为没有任何过滤条件
func parseFilters(c *gin.Context) (types.NftQueryParams, error) {
	var filter types.NftQueryParams
	filterParam := c.Query("filters")
	if filterParam == "" {
		return filter, nil
	}
	if err := json.Unmarshal([]byte(filterParam), &filter); err != nil {
		return filter, errcode.NewCustomErr("Filter param is invalid.")
	}
	return filter, nil
}
