package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zeromicro/go-zero/core/threading"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasySwapExplorer/src/api/router"
	"github.com/ProjectsTask/EasySwapExplorer/src/app"
	"github.com/ProjectsTask/EasySwapExplorer/src/common/xzap"
	"github.com/ProjectsTask/EasySwapExplorer/src/service/svc"
)

// ServeCmd 启动 HTTP 查询服务
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve nft query api.",
	Long:  "serve nft query api.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		// 1. 读取和解析配置文件
		c, err := loadConfig()
		if err != nil {
			return err
		}

		// 2. 初始化服务上下文, 包含 Mongo, Redis 等连接
		serverCtx, err := svc.NewServiceContext(c)
		if err != nil {
			return err
		}

		// 3. 初始化路由并创建应用实例
		platform, err := app.NewPlatform(c, router.NewRouter(serverCtx), serverCtx)
		if err != nil {
			return err
		}

		onExit := make(chan error, 1)
		threading.GoSafe(func() {
			onExit <- platform.Start()
		})

		// 监听 SIGINT (Ctrl+C) 和 SIGTERM (kill) 信号，实现优雅退出
		onSignal := make(chan os.Signal, 1)
		signal.Notify(onSignal, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-onSignal:
			xzap.WithContext(ctx).Info("Exit by signal", zap.String("signal", sig.String()))
		case err := <-onExit:
			if err != nil {
				xzap.WithContext(ctx).Error("Exit by error", zap.Error(err))
				_ = serverCtx.Close(ctx)
				return err
			}
		}
		return platform.Stop(ctx)
	},
}

func init() {
	rootCmd.AddCommand(ServeCmd)
}
