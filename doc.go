// Package reqres 提供点对点请求响应交换库
//
// go-reqres 是一个模块化的请求响应子系统：在单条流上完成
// "一请求一应答" 交换，支持多协议注册、非阻塞提交与统一事件流。
//
// # 核心概念
//
// go-reqres 围绕三个核心概念构建：
//
//   - Service: 交换服务，用户交互的主入口
//   - ProtocolConfig: 协议配置（名称、负载上限、超时、并发额度）
//   - Event: 统一事件流（入站请求与出站结算都从这里投递）
//
// # 快速开始
//
//	import (
//	    "github.com/dep2p/go-reqres"
//	    "github.com/dep2p/go-reqres/pkg/types"
//	)
//
//	// 1. 创建服务并注册协议
//	svc, err := reqres.New(host)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg := types.DefaultProtocolConfig("/ping/1")
//	if err := svc.RegisterProtocol(cfg); err != nil {
//	    log.Fatal(err)
//	}
//
//	// 2. 启动并消费事件流
//	if err := svc.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	go func() {
//	    for evt := range svc.Events() {
//	        switch e := evt.(type) {
//	        case types.EvtIncomingRequest:
//	            e.Request.Reply.Send(types.OutgoingResponse{Payload: []byte("PONG")})
//	        case types.EvtOutboundSucceeded:
//	            fmt.Println("应答:", string(e.Payload))
//	        }
//	    }
//	}()
//
//	// 3. 发送请求（非阻塞提交，结果走事件流）
//	id, _ := svc.SendRequest(peer, "/ping/1", []byte("PING"), types.DialPolicyTryConnect)
//
//	// 或者阻塞等待应答
//	resp, err := svc.Request(ctx, peer, "/ping/1", []byte("PING"))
//
// # API 层次结构
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  入口层                                                      │
//	│  reqres.New() / reqres.Start() / reqres.BuildApp()          │
//	├─────────────────────────────────────────────────────────────┤
//	│  交换层                                                      │
//	│  Service: SendRequest / Request / Events / Stats            │
//	├─────────────────────────────────────────────────────────────┤
//	│  支撑层                                                      │
//	│  registry / tracker / codec / limiter / metrics             │
//	└─────────────────────────────────────────────────────────────┘
//
// # 文件组织
//
// 本包是薄门面，核心实现位于 internal/protocol/reqres：
//
//	go-reqres/
//	├── reqres.go             # 版本信息、New()、Start()
//	├── types.go              # 公共类型别名（从 pkg/types 导出）
//	├── errors.go             # 错误再导出
//	├── options.go            # WithXxx 配置选项
//	├── fx.go                 # Fx 模块聚合与应用装配
//	│
//	├── config/               # 统一配置（来源合并、校验、默认值）
//	├── pkg/types/            # 公共类型（PeerID、事件、协议配置）
//	├── pkg/interfaces/       # 窄接口（Host、Stream、Exchange）
//	├── internal/protocol/reqres/   # 交换核心（注册表、追踪器、编解码）
//	├── internal/core/eventbus/     # 事件总线
//	├── internal/core/metrics/      # 指标采集
//	└── internal/transport/memnet/  # 进程内内存传输（测试与示例）
//
// # 交付语义
//
// 每个出站请求恰好收到一个终态事件（成功或失败），由请求追踪器的
// 单次移除保证；入站侧并发超额、负载超限、应答超时分别产生独立的
// 失败事件。Stop 后不再投递新事件；通道本身不关闭，
// 消费方随自身生命周期退出消费循环。
//
// # 版本
//
// 当前版本: v1.0.0
//
// 更多信息请访问: https://github.com/dep2p/go-reqres
package reqres
