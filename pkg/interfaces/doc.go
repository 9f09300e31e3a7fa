// Package interfaces 定义 go-reqres 的公共接口
//
// 本包只含接口与函数类型，不含实现。分为两类：
//
// 消费侧接口（由底层传输层提供，本模块只消费）:
//   - Host       - 连接复用传输的核心抽象（打开流、注册流处理器）
//   - Stream     - 双向字节流（单次协议交换的载体）
//   - Connection - 节点间连接（流的归属）
//   - Swarm      - 连接群管理（连接状态查询、拨号、事件通知）
//   - EventBus   - 类型化事件总线（连接状态通知的投递通道）
//
// 提供侧接口（由本模块实现）:
//   - Exchange   - 请求响应交换服务
//
// # 设计原则
//
//  1. 接口最小化：只声明请求响应子系统实际消费的方法
//  2. 接受接口、返回结构体：实现方返回具体类型
//  3. 所有标识符使用 pkg/types 中的类型化 ID
package interfaces
