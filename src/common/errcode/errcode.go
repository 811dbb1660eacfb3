package errcode

import (
	"fmt"
	"net/http"
)

// Err 业务错误码
type Err struct {
	Code       int    `json:"code"`
	Msg        string `json:"msg"`
	HTTPStatus int    `json:"-"`
}

func (e *Err) Error() string {
	return fmt.Sprintf("code: %d, msg: %s", e.Code, e.Msg)
}

const (
	CodeOk             = 0
	CodeInvalidParams  = 10001
	CodeUnexpected     = 10002
	CodeCustom         = 10003
	CodeUpstreamFailed = 10004
)

var (
	ErrInvalidParams  = &Err{Code: CodeInvalidParams, Msg: "invalid params", HTTPStatus: http.StatusBadRequest}
	ErrUnexpected     = &Err{Code: CodeUnexpected, Msg: "unexpected error", HTTPStatus: http.StatusInternalServerError}
	ErrUpstreamFailed = &Err{Code: CodeUpstreamFailed, Msg: "upstream dependency failed", HTTPStatus: http.StatusBadGateway}
)

// NewCustomErr 自定义错误信息, 视为客户端错误
func NewCustomErr(msg string) *Err {
	return &Err{Code: CodeCustom, Msg: msg, HTTPStatus: http.StatusBadRequest}
}

// NewInvalidParamsErr 带说明的参数错误
func NewInvalidParamsErr(msg string) *Err {
	return &Err{Code: CodeInvalidParams, Msg: msg, HTTPStatus: http.StatusBadRequest}
}
