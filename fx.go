package reqres

import (
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-reqres/config"
	"github.com/dep2p/go-reqres/internal/core/metrics"
	exchange "github.com/dep2p/go-reqres/internal/protocol/reqres"
	pkgif "github.com/dep2p/go-reqres/pkg/interfaces"
)

// Module 聚合请求响应子系统的 Fx 模块
//
// 包含指标采集与交换服务两个模块。Host 由调用方提供
// （fx.Provide 或 BuildApp），事件总线由 Host 自带，
// 统一配置 *config.Config 为可选依赖。
//
// 加载顺序（按依赖）：
//  1. Metrics: 指标报告器（配置禁用时为空实现）
//  2. Exchange: 交换服务（生命周期挂接 Start/Stop）
func Module() fx.Option {
	return fx.Options(
		metrics.Module,
		exchange.Module(),
	)
}

// BuildApp 装配完整的 Fx 应用
//
// 组装顺序：
//  1. 配置验证（前置，cfg 为 nil 时全部使用默认值）
//  2. Host 与配置注入
//  3. 子系统模块（Metrics、Exchange）
//  4. 用户扩展（Fx Options）
//
// 返回的应用由调用方 Start/Stop，交换服务的生命周期
// 已挂接到 Fx 生命周期上。
func BuildApp(host pkgif.Host, cfg *config.Config, extra ...fx.Option) (*fx.App, error) {
	if host == nil {
		return nil, ErrNilHost
	}

	// ════════════════════════════════════════════════════════════════════════
	// 1. 配置验证（前置）
	// ════════════════════════════════════════════════════════════════════════
	if cfg != nil {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 注入与模块装配
	// ════════════════════════════════════════════════════════════════════════
	modules := []fx.Option{
		fx.Provide(func() pkgif.Host { return host }),
		Module(),
	}
	if cfg != nil {
		modules = append(modules, fx.Supply(cfg))
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 用户扩展（Fx Options）
	// ════════════════════════════════════════════════════════════════════════
	if len(extra) > 0 {
		modules = append(modules, extra...)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 4. Fx 配置
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
		fx.NopLogger,
	)

	return fx.New(modules...), nil
}
