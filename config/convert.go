package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// FromJSON 从 JSON 数据创建配置
//
// 支持从 JSON 文件或字符串加载配置。
// JSON 格式与 Config 结构体一一对应。
//
// 示例 JSON:
//
//	{
//	  "exchange": {"EventQueueSize": 128},
//	  "rate_limit": {"Enabled": true, "RequestsPerSecond": 50}
//	}
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// ToJSON 把配置序列化为 JSON
func ToJSON(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	return json.MarshalIndent(cfg, "", "  ")
}

// ApplyPreset 应用预设配置
//
// Preset 提供了针对不同场景优化的配置组合。
// 该函数将预设应用到配置上。
//
// 支持的预设：
//   - "server": 服务器优化（大队列、高并行）
//   - "mobile": 移动端优化（小队列、低资源占用）
//   - "minimal": 最小配置（关闭可选功能）
func ApplyPreset(cfg *Config, presetName string) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	switch presetName {
	case "server":
		return applyServerPreset(cfg)
	case "mobile":
		return applyMobilePreset(cfg)
	case "minimal":
		return applyMinimalPreset(cfg)
	case "":
		// 空预设，不做任何操作
		return nil
	default:
		return fmt.Errorf("unknown preset: %s", presetName)
	}
}

// applyServerPreset 应用服务器预设
//
// 服务器配置优化：
//   - 大事件队列，支撑高吞吐
//   - 高并行拨号
//   - 启用入站限流，防止单节点挤占
func applyServerPreset(cfg *Config) error {
	// 交换：大队列，密集扫描
	cfg.Exchange.EventQueueSize = 256
	cfg.Exchange.ExpiryTick = Duration(100 * time.Millisecond)

	// 拨号：高并行
	cfg.Dial.MaxConcurrentDials = 64

	// 限流：启用，保护服务端处理能力
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RequestsPerSecond = 200
	cfg.RateLimit.Burst = 100
	cfg.RateLimit.MaxPeers = 4096

	// 指标：启用快照日志，便于监控
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableSnapshots = true
	cfg.Metrics.PeerCacheSize = 4096

	return nil
}

// applyMobilePreset 应用移动端预设
//
// 移动端配置优化：
//   - 小队列，低内存占用
//   - 稀疏的超时扫描，省电
//   - 低并行拨号
func applyMobilePreset(cfg *Config) error {
	// 交换：小队列，稀疏扫描
	cfg.Exchange.EventQueueSize = 32
	cfg.Exchange.ExpiryTick = Duration(500 * time.Millisecond)

	// 拨号：低并行，更长超时（移动网络延迟高）
	cfg.Dial.Timeout = Duration(20 * time.Second)
	cfg.Dial.MaxConcurrentDials = 4

	// 指标：小缓存
	cfg.Metrics.PeerCacheSize = 128
	cfg.Metrics.EnableSnapshots = false

	return nil
}

// applyMinimalPreset 应用最小预设
//
// 最小配置：关闭所有可选功能，只保留核心交换能力。
func applyMinimalPreset(cfg *Config) error {
	cfg.Exchange.EventQueueSize = 16

	cfg.RateLimit.Enabled = false

	cfg.Metrics.Enabled = false
	cfg.Metrics.EnableSnapshots = false

	return nil
}
