// Package memnet 实现进程内环回传输
//
// memnet 提供完全驻留内存的 Host/Swarm/Connection/Stream 实现，
// 供包级测试与演示程序使用：不涉及网络 I/O、加密与多路复用协商，
// 但完整保留请求响应子系统消费的传输层语义。
//
// 核心设计：
//   - Network 是节点注册表：同一 Network 中的主机可以互相拨号
//   - 每次拨号创建一对方向相反、共享 UUID 的连接（拨号方出站，被叫方入站）
//   - 流基于两条单向 net.Pipe 管道，支持半关闭（CloseWrite）、
//     截止时间与重置（Reset 使对端读写立即失败）
//   - 流打开时按给出顺序与远端已注册的处理器协商协议，
//     远端处理器在独立 goroutine 中运行
//   - 连接建立与断开通过事件总线发布 types.EvtPeerConnected /
//     types.EvtPeerDisconnected（按节点去重：首连发布、末断发布）
//
// 使用示例：
//
//	nw := memnet.NewNetwork()
//	defer nw.Close()
//
//	alice, _ := nw.NewHost("12D3KooWAlice")
//	bob, _ := nw.NewHost("12D3KooWBob")
//
//	bob.SetStreamHandler("/echo/1", func(s interfaces.Stream) {
//		defer s.Close()
//		io.Copy(s, s)
//	})
//
//	if err := alice.Connect(ctx, bob.ID()); err != nil { ... }
//	s, err := alice.NewStream(ctx, bob.ID(), "/echo/1")
//
// 依赖关系：
//   - 依赖：pkg/interfaces（传输层契约）、pkg/types（标识与事件）、
//     internal/core/eventbus（连接事件发布）
//   - 被依赖：internal/protocol/reqres 的集成测试、cmd/reqres-ping
package memnet
