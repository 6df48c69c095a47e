// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	zlog "github.com/rs/zerolog/log"

	"zirako/internal/pkg/logger"
	"zirako/internal/pkg/nacos"
	"zirako/internal/pkg/tracing"
	"zirako/internal/pkg/utils"
)

type AppCtx struct {
	Mux    *http.ServeMux
	Config *Config
}

// AppInfo 包含了启动一个微服务所需的所有特定信息。
type AppInfo struct {
	ServiceName      string
	RegisterHandlers func(appCtx AppCtx) // 每个服务注册自己独特的 HTTP 路由
	// Wrap 可选，用于在 mux 外层套上认证等中间件
	Wrap func(http.Handler) http.Handler
	// OnShutdown 在 HTTP 服务关闭后按注册的逆序执行
	OnShutdown []func(ctx context.Context)
}

// Setup 加载配置、初始化日志，并在启用时从 Nacos 配置中心拉取覆盖配置。
// 所有 cmd 在组装依赖之前调用一次。
func Setup(serviceName string) *Config {
	cfg, err := LoadConfig(getEnv("CONFIG_FILE", "configs/config.yaml"))
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load config")
	}
	SetCurrentConfig(cfg)
	logger.Init(serviceName, cfg.App.LogLevel)

	if nacosEnabled() {
		watchRemoteConfig(serviceName)
	}
	return GetCurrentConfig()
}

// StartService 封装了所有微服务的通用启动和优雅关停逻辑。
func StartService(info AppInfo) {
	cfg := GetCurrentConfig()

	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	// 服务注册是可选的，本地开发时不依赖 Nacos
	var namingClient *nacos.Client
	var ip string
	if nacosEnabled() {
		namingClient, ip = registerInstance(info.ServiceName, cfg.App.Port)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("GET /metrics", promhttp.Handler())
	if info.RegisterHandlers != nil {
		info.RegisterHandlers(AppCtx{Mux: mux, Config: cfg})
	}
	var handler http.Handler = mux
	if info.Wrap != nil {
		handler = info.Wrap(mux)
	}

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.App.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zlog.Info().Str("service", info.ServiceName).Int("port", cfg.App.Port).Msg("🚀 HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal().Err(err).Str("addr", server.Addr).Msg("could not listen")
		}
	}()

	// 阻塞主 goroutine，直到接收到退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info().Str("service", info.ServiceName).Msg("🛑 Shutting down service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 先从注册中心摘除，再停止接收流量
	if namingClient != nil {
		if err := namingClient.DeregisterServiceInstance(info.ServiceName, ip, cfg.App.Port); err != nil {
			zlog.Error().Err(err).Msg("Error deregistering from Nacos")
		}
	}
	if nacosConfigClient != nil {
		nacosConfigClient.Close()
	}

	if err := server.Shutdown(ctx); err != nil {
		zlog.Error().Err(err).Msg("Error shutting down http server")
	}

	for i := len(info.OnShutdown) - 1; i >= 0; i-- {
		info.OnShutdown[i](ctx)
	}

	// 最后关闭 Tracer Provider，确保所有缓冲的 trace 都被发送出去
	if err := tp.Shutdown(ctx); err != nil {
		zlog.Error().Err(err).Msg("Error shutting down tracer provider")
	}
	zlog.Info().Str("service", info.ServiceName).Msg("✅ Service gracefully shut down")
}

// WaitForSignal 供没有 HTTP 入口的后台进程使用
func WaitForSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

func registerInstance(serviceName string, port int) (*nacos.Client, string) {
	serverConfigs, err := nacos.ParseServerConfigs(getEnv("NACOS_SERVER_ADDRS", "localhost:8848"))
	if err != nil {
		zlog.Fatal().Err(err).Msg("invalid Nacos server address format")
	}
	clientConfig := nacos.NewClientConfig(getEnv("NACOS_NAMESPACE", ""))

	namingClient, err := nacos.NewNacosClientWithConfigs(serverConfigs, &clientConfig, getEnv("NACOS_GROUP", "DEFAULT_GROUP"))
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to initialize nacos client")
	}

	ip, err := utils.GetOutboundIP()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to get outbound IP address")
	}
	if err := namingClient.RegisterServiceInstance(serviceName, ip, port); err != nil {
		zlog.Fatal().Err(err).Msg("failed to register service with nacos")
	}
	return namingClient, ip
}

func nacosEnabled() bool {
	return getEnv("NACOS_ENABLED", "false") == "true"
}
