// Package config 提供统一的配置管理
//
// 本包采用混合配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义
//   - 支持从 JSON 加载和保存配置
//   - 支持预设配置（server/mobile/minimal）
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Exchange.EventQueueSize = 128
//	cfg.RateLimit.Enabled = true
//
//	// 应用预设到现有配置
//	config.ApplyPreset(cfg, "server")
//
//	// 从 JSON 加载
//	cfg, err := config.FromJSON(data)
package config

// Config 是 go-reqres 的完整配置结构
//
// 该结构体嵌入了所有组件的子配置，提供统一的配置接口。
// 配置按照功能模块组织：
//   - Exchange: 交换服务（事件队列、超时扫描）
//   - Dial: 拨号行为
//   - RateLimit: 入站限流
//   - Metrics: 指标收集
type Config struct {
	// Exchange 交换服务配置
	Exchange ExchangeConfig `json:"exchange"`

	// Dial 拨号配置
	Dial DialConfig `json:"dial"`

	// RateLimit 入站限流配置
	RateLimit RateLimitConfig `json:"rate_limit"`

	// Metrics 指标收集配置
	Metrics MetricsConfig `json:"metrics"`
}

// NewConfig 创建默认配置
//
// 返回的配置使用所有组件的默认值，适用于大多数场景。
// 可以通过修改字段或使用预设来定制配置。
func NewConfig() *Config {
	return &Config{
		Exchange:  DefaultExchangeConfig(),
		Dial:      DefaultDialConfig(),
		RateLimit: DefaultRateLimitConfig(),
		Metrics:   DefaultMetricsConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置是否有效，如果发现无效配置则返回错误。
// 建议在使用配置前调用此方法。
func (c *Config) Validate() error {
	if err := c.Exchange.Validate(); err != nil {
		return err
	}
	if err := c.Dial.Validate(); err != nil {
		return err
	}
	if err := c.RateLimit.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	return nil
}
