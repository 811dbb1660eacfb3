package xzap

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	ModeConsole = "console"
	ModeFile    = "file"
	ModeBoth    = "both"

	// RequestIDKey gin.Context 中保存请求 ID 的 key
	RequestIDKey = "request_id"
)

type ctxKey struct{}

// LogConf 日志配置
type LogConf struct {
	ServiceName string `toml:"service_name" mapstructure:"service_name" json:"service_name"`
	Mode        string `toml:"mode" mapstructure:"mode" json:"mode"`                // console | file | both
	Path        string `toml:"path" mapstructure:"path" json:"path"`                // 日志目录
	Level       string `toml:"level" mapstructure:"level" json:"level"`             // debug | info | warn | error
	Compress    bool   `toml:"compress" mapstructure:"compress" json:"compress"`    // 轮转后是否压缩
	KeepDays    int    `toml:"keep_days" mapstructure:"keep_days" json:"keep_days"` // 保留天数
	MaxSize     int    `toml:"max_size" mapstructure:"max_size" json:"max_size"`    // 单文件大小(MB)
	MaxBackups  int    `toml:"max_backups" mapstructure:"max_backups" json:"max_backups"`
}

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// SetUp 根据配置初始化全局 logger
// 文件输出使用 lumberjack 进行按大小轮转
func SetUp(c LogConf) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if c.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(c.Level))); err != nil {
			return nil, err
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.TimeKey = "time"

	var cores []zapcore.Core
	mode := c.Mode
	if mode == "" {
		mode = ModeConsole
	}

	if mode == ModeConsole || mode == ModeBoth {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), level))
	}

	if mode == ModeFile || mode == ModeBoth {
		if c.Path == "" {
			c.Path = "logs"
		}
		if err := os.MkdirAll(c.Path, 0o755); err != nil {
			return nil, err
		}
		name := c.ServiceName
		if name == "" {
			name = "service"
		}
		writer := &lumberjack.Logger{
			Filename:   filepath.Join(c.Path, name+".log"),
			MaxSize:    c.MaxSize,
			MaxAge:     c.KeepDays,
			MaxBackups: c.MaxBackups,
			Compress:   c.Compress,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(writer), level))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	if c.ServiceName != "" {
		l = l.With(zap.String("service", c.ServiceName))
	}

	mu.Lock()
	logger = l
	mu.Unlock()

	return l, nil
}

// Logger 返回全局 logger
func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// WithRequestID 将请求 ID 写入 context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// WithContext 返回携带请求 ID 的 logger
// 兼容 gin.Context (通过字符串 key 读取) 和普通 context
func WithContext(ctx context.Context) *zap.Logger {
	l := Logger()
	if ctx == nil {
		return l
	}
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		return l.With(zap.String(RequestIDKey, id))
	}
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		return l.With(zap.String(RequestIDKey, id))
	}
	return l
}
