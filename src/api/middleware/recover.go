package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasySwapExplorer/src/common/errcode"
	"github.com/ProjectsTask/EasySwapExplorer/src/common/xhttp"
	"github.com/ProjectsTask/EasySwapExplorer/src/common/xzap"
)

// RecoverMiddleware 捕获 handler 中的 panic, 记录堆栈并返回 ErrUnexpected
func RecoverMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				xzap.WithContext(c).Error("panic recovered",
					zap.String("panic", fmt.Sprint(r)),
					zap.String("path", c.Request.URL.Path),
					zap.ByteString("stack", debug.Stack()))
				xhttp.Error(c, errcode.ErrUnexpected)
			}
		}()
		c.Next()
	}
}
