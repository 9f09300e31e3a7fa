// Package eventbus 实现进程内事件总线
//
// 提供类型安全的事件发布/订阅机制，支持：
//   - 多订阅者
//   - 缓冲区配置
//   - 发射器引用计数
//   - 并发安全
//   - 有状态模式（Stateful）
//
// # 快速开始
//
//	// 创建总线
//	bus := eventbus.NewBus()
//
//	// 订阅事件
//	sub, _ := bus.Subscribe(new(types.EvtPeerDisconnected))
//	defer sub.Close()
//
//	go func() {
//	    for evt := range sub.Out() {
//	        e := evt.(types.EvtPeerDisconnected)
//	        // 处理断连事件
//	    }
//	}()
//
//	// 发射事件
//	em, _ := bus.Emitter(new(types.EvtPeerDisconnected))
//	defer em.Close()
//	em.Emit(types.EvtPeerDisconnected{...})
//
// # Fx 模块
//
//	import "go.uber.org/fx"
//
//	app := fx.New(
//	    eventbus.Module(),
//	    fx.Invoke(func(bus pkgif.EventBus) {
//	        sub, _ := bus.Subscribe(new(types.EvtPeerConnected))
//	        // ...
//	    }),
//	)
//
// # 架构定位
//
// Tier: Core Layer Level 1（无依赖）
//
// 依赖关系：
//   - 依赖：pkg/interfaces
//   - 被依赖：transport/memnet（发布连接事件）、protocol/reqres（订阅断连事件）
//
// # 并发安全
//
// EventBus 使用 sync.RWMutex 和 atomic 保证并发安全：
//   - 订阅/取消订阅：RWMutex 保护
//   - 发射器引用计数：atomic.Int32
//   - 通道关闭：closeOnce 防止重复
//
// # 相关文档
//
//   - 接口定义：pkg/interfaces/eventbus.go
//   - 事件类型：pkg/types/events.go
package eventbus
