// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Init 配置全局 zerolog 实例，所有服务在 main 的第一行调用。
func Init(serviceName, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.DurationFieldUnit = time.Millisecond

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	zlog.Logger = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// WithContext 把当前 span 的 trace_id 挂到 logger 上并放入 context。
func WithContext(ctx context.Context) context.Context {
	l := zlog.Logger.With()
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		l = l.Str("trace_id", sc.TraceID().String())
	}
	logger := l.Logger()
	return logger.WithContext(ctx)
}

// Ctx 返回 context 中的 logger；没有时回退到全局 logger。
func Ctx(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &zlog.Logger
}
