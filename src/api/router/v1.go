package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasySwapExplorer/src/api/v1"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/svc"
)

func loadV1(r *gin.Engine, svcCtx *svc.ServerCtx) {
	apiV1 := r.Group("/api/v1")

	nfts := apiV1.Group("/nfts")
	{
		nfts.GET("", v1.NftsHandler(svcCtx))            // NFT 分页查询
		nfts.GET("/count", v1.NftsCountHandler(svcCtx)) // 结果总数
	}
}
