package metrics

import (
	"go.uber.org/fx"

	"github.com/dep2p/go-reqres/config"
)

// Config 指标配置
type Config struct {
	// Enabled 是否启用指标收集
	Enabled bool

	// PeerCacheSize 节点带宽统计缓存容量
	PeerCacheSize int
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Enabled:       true,
		PeerCacheSize: DefaultPeerCacheSize,
	}
}

// ConfigFromUnified 从统一配置创建指标配置
func ConfigFromUnified(cfg *config.Config) Config {
	if cfg == nil {
		return DefaultConfig()
	}
	return Config{
		Enabled:       cfg.Metrics.Enabled,
		PeerCacheSize: cfg.Metrics.PeerCacheSize,
	}
}

// Params Metrics 依赖参数
type Params struct {
	fx.In

	UnifiedCfg *config.Config `optional:"true"`
}

// Module 是 metrics 的 Fx 模块
var Module = fx.Module("metrics",
	fx.Provide(NewReporterFromParams),
)

// NewReporterFromParams 从参数创建 Reporter
//
// 指标禁用时返回空实现，调用方无需判空。
func NewReporterFromParams(p Params) Reporter {
	cfg := ConfigFromUnified(p.UnifiedCfg)
	if !cfg.Enabled {
		return Nop{}
	}
	return NewExchangeCollector(cfg.PeerCacheSize)
}
