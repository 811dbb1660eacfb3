package xhttp

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasySwapExplorer/src/common/errcode"
	"github.com/ProjectsTask/EasySwapExplorer/src/common/xzap"
)

// Response 统一返回结构
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// OkJson 返回成功结果
func OkJson(c *gin.Context, v interface{}) {
	c.JSON(http.StatusOK, Response{Code: errcode.CodeOk, Msg: "ok", Data: v})
}

// Error 返回错误结果
// 非 errcode.Err 类型的错误统一视为 ErrUnexpected, 原始错误只写日志不返回给调用方
func Error(c *gin.Context, err error) {
	var e *errcode.Err
	if !errors.As(err, &e) {
		xzap.WithContext(c).Error("unexpected error", zap.Error(err))
		e = errcode.ErrUnexpected
	}

	status := e.HTTPStatus
	if status == 0 {
		status = http.StatusOK
	}
	c.AbortWithStatusJSON(status, Response{Code: e.Code, Msg: e.Msg})
}
