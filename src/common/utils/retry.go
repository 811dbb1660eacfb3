package utils

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Retry 通用重试函数
// @param name: 操作名称, 用于错误信息
// @param attempts: 最大尝试次数
// @param sleep: 每次重试间隔
// @param fn: 返回 error 表示需要重试
// 全部失败时返回最后一次的错误; ctx 取消时立即返回
func Retry(ctx context.Context, name string, attempts int, sleep time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "%s canceled", name)
		case <-time.After(sleep):
		}
	}
	return errors.Wrapf(err, "%s: retry time over", name)
}
