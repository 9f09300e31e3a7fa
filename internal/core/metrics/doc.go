// Package metrics 提供交换指标收集
//
// metrics 模块实现请求/应答交换的统计功能：
//   - 请求统计（全局/按协议）
//   - 带宽统计（全局/按协议/按节点）
//   - 流量速率计算（滑动窗口）
//   - 节点级统计基数控制（LRU 缓存）
//   - 周期性快照日志
//
// # 快速开始
//
//	collector := metrics.NewExchangeCollector(1024)
//
//	// 记录请求生命周期
//	collector.RecordRequestSent(proto, peer, 128)
//	collector.RecordRequestSucceeded(proto, peer, 256)
//
//	// 获取统计
//	stats := collector.StatsForProtocol(proto)
//	fmt.Printf("sent: %d, ok: %d\n", stats.RequestsSent, stats.RequestsSucceeded)
//
// # 分层统计
//
// metrics 支持三层统计：
//
//	// 1. 全局带宽（所有流量）
//	totals := collector.BandwidthTotals()
//
//	// 2. 按协议统计
//	protoStats := collector.StatsForProtocol(types.ProtocolID("/ping/1"))
//
//	// 3. 按节点带宽
//	peerStats := collector.BandwidthForPeer(types.PeerID("12D3KooW..."))
//
// # 基数控制
//
// 协议数量由注册表约束，协议级统计使用普通 map。
// 节点数量无上界，节点级统计放在 LRU 缓存中，
// 超过容量时最久未活动的节点被淘汰。
//
// # 快照日志
//
// SnapshotCollector 周期性输出交换状态快照：
//
//	sc := metrics.NewSnapshotCollector(collector)
//	sc.SetInflightSource(svc)
//	sc.Start(30 * time.Second)
//	defer sc.Stop()
//
// # Fx 模块
//
//	import "go.uber.org/fx"
//
//	app := fx.New(
//	    metrics.Module,
//	    fx.Invoke(func(reporter metrics.Reporter) {
//	        reporter.RecordRequestSent(proto, peer, 100)
//	    }),
//	)
//
// # 架构定位
//
// Tier: Core Layer Level 1（无依赖）
//
// 依赖关系：
//   - 依赖：pkg/types, golang-lru
//   - 被依赖：protocol/reqres
//
// # 并发安全
//
// 所有方法都是并发安全的：
//   - 计数器使用原子操作
//   - 协议表使用 RWMutex 保护
//   - LRU 缓存内置锁保护
package metrics
