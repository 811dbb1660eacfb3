package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasySwapExplorer/src/api/middleware"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/svc"
)

// NewRouter 创建 gin 引擎并注册中间件与路由
// 查询接口只读, 跨域只放行 GET
func NewRouter(svcCtx *svc.ServerCtx) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RecoverMiddleware()) // panic 统一返回 ErrUnexpected
	r.Use(middleware.RLog())              // 请求 ID 与访问日志

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Length", "Content-Type", "X-Request-Id"},
		ExposeHeaders:   []string{"Content-Length", "Content-Type", "X-Request-Id"},
		MaxAge:          1 * time.Hour,
	}))
	loadV1(r, svcCtx)

	return r
}
