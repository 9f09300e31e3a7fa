package config

import (
	"errors"
	"time"
)

// MetricsConfig 指标收集配置
type MetricsConfig struct {
	// Enabled 是否启用指标收集
	Enabled bool

	// PeerCacheSize 节点带宽统计缓存容量
	//
	// 节点数量无上界，节点级统计放在 LRU 缓存中限制基数。
	PeerCacheSize int

	// EnableSnapshots 是否启用周期性指标快照日志
	EnableSnapshots bool

	// SnapshotInterval 快照输出间隔
	SnapshotInterval Duration
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		// ════════════════════════════════════════════════════════════════════
		// 指标收集配置
		// ════════════════════════════════════════════════════════════════════
		Enabled:          true,                       // 指标收集：启用
		PeerCacheSize:    1024,                       // 节点缓存容量：1024 个
		EnableSnapshots:  false,                      // 快照日志：默认禁用
		SnapshotInterval: Duration(30 * time.Second), // 快照间隔：30 秒
	}
}

// Validate 验证指标配置
func (c *MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.PeerCacheSize <= 0 {
		return errors.New("metrics: peer cache size must be positive")
	}
	if c.EnableSnapshots && c.SnapshotInterval <= 0 {
		return errors.New("metrics: snapshot interval must be positive")
	}
	return nil
}

// WithPeerCacheSize 设置节点缓存容量
func (c MetricsConfig) WithPeerCacheSize(size int) MetricsConfig {
	c.PeerCacheSize = size
	return c
}
