package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasySwapExplorer/src/common/xzap"
	"github.com/ProjectsTask/EasySwapExplorer/src/config"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/svc"
)

const shutdownTimeout = 10 * time.Second

// Platform 平台结构体，作为整个应用程序的容器
type Platform struct {
	config    *config.Config
	router    *gin.Engine
	serverCtx *svc.ServerCtx
	server    *http.Server
}

// NewPlatform 创建一个新的 Platform 实例
func NewPlatform(config *config.Config, router *gin.Engine, serverCtx *svc.ServerCtx) (*Platform, error) {
	return &Platform{
		config:    config,
		router:    router,
		serverCtx: serverCtx,
		server:    &http.Server{Addr: config.Api.Port, Handler: router},
	}, nil
}

// Start 启动平台服务
// 这是一个阻塞调用，直到服务关闭或监听失败
func (p *Platform) Start() error {
	xzap.WithContext(context.Background()).Info("EasySwap-Explorer run", zap.String("port", p.config.Api.Port))
	if err := p.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "failed on serve http")
	}
	return nil
}

// Stop 停止接收新请求, 等待处理中的请求完成后释放连接
func (p *Platform) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	err := p.server.Shutdown(ctx)
	if cerr := p.serverCtx.Close(ctx); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
