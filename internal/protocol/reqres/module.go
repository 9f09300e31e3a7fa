package reqres

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-reqres/config"
	"github.com/dep2p/go-reqres/internal/core/metrics"
	pkgif "github.com/dep2p/go-reqres/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params Fx 模块依赖参数
type Params struct {
	fx.In

	Host       pkgif.Host
	Reporter   metrics.Reporter `optional:"true"`
	UnifiedCfg *config.Config   `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Exchange pkgif.Exchange
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("reqres",
		fx.Provide(ProvideExchange),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideExchange 提供 Exchange 实例
//
// 统一配置与指标报告器均为可选依赖，缺省时使用内置默认值。
func ProvideExchange(p Params) (Result, error) {
	var opts []Option
	if p.UnifiedCfg != nil {
		opts = append(opts, FromUnified(p.UnifiedCfg))
	}
	if p.Reporter != nil {
		opts = append(opts, WithReporter(p.Reporter))
	}

	svc, err := New(p.Host, opts...)
	if err != nil {
		return Result{}, err
	}
	return Result{Exchange: svc}, nil
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In
	LC       fx.Lifecycle
	Exchange pkgif.Exchange
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return input.Exchange.Start(ctx)
		},
		OnStop: func(_ context.Context) error {
			return input.Exchange.Stop()
		},
	})
}

// ============================================================================
// 模块元信息
// ============================================================================

const (
	// Version 模块版本
	Version = "1.0.0"
	// Name 模块名称
	Name = "reqres"
	// Description 模块描述
	Description = "请求响应交换模块，提供多协议的点对点请求响应语义"
)
