// Package reqres 实现请求响应交换协议
//
// reqres 在连接复用传输之上提供带超时与并发控制的
// 请求响应语义：每次交换占用一条新流，请求方写入请求后
// 半关闭写端，应答方写回应答后关闭流。帧格式为
// varint 长度前缀加裸负载。
//
// 核心设计：
//   - 多协议：一个服务实例承载多个已注册协议，
//     每个协议有独立的大小上限、超时与入站并发配额，
//     兼容旧协议名与主名共享同一配额
//   - 单一事件流：出站成功/失败、入站请求与入站失败
//     全部汇入一条有界通道，队列满时投递阻塞（有界背压）
//   - 恰好一次结算：每个出站请求以恰好一个终态事件结束，
//     追踪器移除是唯一的结算提交点，超时扫描、断连清理
//     与出站协程竞争时只有移除成功者投递事件
//   - 非阻塞提交：SendRequest 立即返回请求 ID，
//     拨号、写请求、读应答全部在独立协程中进行；
//     Request 为阻塞便捷方法，结果不进入事件流
//   - 入站保护：并发配额满或对端被限流时流被立即复位，
//     不做无界排队；应答超时由服务侧兜底，应用层
//     丢弃应答句柄同样以超时结算
//
// 使用示例：
//
//	svc, _ := reqres.New(host)
//	_ = svc.RegisterProtocol(types.DefaultProtocolConfig("/ping/1"))
//	_ = svc.Start(ctx)
//	defer svc.Stop()
//
//	go func() {
//		for evt := range svc.Events() {
//			switch e := evt.(type) {
//			case types.EvtIncomingRequest:
//				_ = e.Request.Reply.Send(types.OutgoingResponse{Payload: []byte("PONG")})
//			case types.EvtOutboundSucceeded:
//				fmt.Printf("应答: %s\n", e.Payload)
//			}
//		}
//	}()
//
//	id, _ := svc.SendRequest(peer, "/ping/1", []byte("PING"), types.DialPolicyTryConnect)
//
// 依赖关系：
//   - 依赖：pkg/interfaces（传输层与服务契约）、pkg/types（标识、
//     配置与事件）、internal/core/metrics（指标上报）、
//     config（统一配置桥接）
//   - 被依赖：根包 reqres 门面、cmd/reqres-ping
package reqres
