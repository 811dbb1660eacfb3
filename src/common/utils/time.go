package utils

import "time"

// NowUTC 当前 UTC 时间
func NowUTC() time.Time {
	return time.Now().UTC()
}

// NowUnix 当前 UTC 秒级时间戳, 订单 start/end 以秒为单位
func NowUnix() int64 {
	return NowUTC().Unix()
}
