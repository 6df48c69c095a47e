// internal/pkg/bootstrap/nacos_config.go
package bootstrap

import (
	zlog "github.com/rs/zerolog/log"

	"zirako/internal/pkg/nacos"
)

var nacosConfigClient *nacos.ConfigClient

// watchRemoteConfig 从 Nacos 拉取 <service>.yaml 覆盖本地配置，并监听后续变更。
// 远端不可用时保留本地配置继续启动。
func watchRemoteConfig(serviceName string) {
	serverConfigs, err := nacos.ParseServerConfigs(getEnv("NACOS_SERVER_ADDRS", "localhost:8848"))
	if err != nil {
		zlog.Warn().Err(err).Msg("⚠️ invalid Nacos address, remote config disabled")
		return
	}
	clientConfig := nacos.NewClientConfig(getEnv("NACOS_NAMESPACE", ""))
	client, err := nacos.NewConfigClient(serverConfigs, &clientConfig, getEnv("NACOS_GROUP", "DEFAULT_GROUP"))
	if err != nil {
		zlog.Warn().Err(err).Msg("⚠️ Nacos config client unavailable, using local config")
		return
	}
	nacosConfigClient = client

	dataID := serviceName + ".yaml"
	if content, err := client.Get(dataID); err != nil {
		zlog.Warn().Err(err).Str("data_id", dataID).Msg("⚠️ could not fetch remote config")
	} else if content != "" {
		applyRemoteConfig(content)
	}

	if err := client.Listen(dataID, applyRemoteConfig); err != nil {
		zlog.Warn().Err(err).Str("data_id", dataID).Msg("⚠️ could not watch remote config")
	}
}

// applyRemoteConfig 在当前快照的副本上合并远端内容后整体替换
func applyRemoteConfig(content string) {
	next := *GetCurrentConfig()
	if err := ParseConfig([]byte(content), &next); err != nil {
		zlog.Error().Err(err).Msg("❌ rejected remote config")
		return
	}
	SetCurrentConfig(&next)
	zlog.Info().Msg("✅ remote config applied")
}
