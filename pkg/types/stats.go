package types

// ============================================================================
//                              ProtocolStats - 协议统计
// ============================================================================

// ProtocolStats 单协议交换统计
type ProtocolStats struct {
	// RequestsSent 已提交的出站请求数
	RequestsSent uint64

	// RequestsSucceeded 成功结算的出站请求数
	RequestsSucceeded uint64

	// RequestsFailed 失败结算的出站请求数
	RequestsFailed uint64

	// RequestsReceived 已投递给应用的入站请求数
	RequestsReceived uint64

	// ResponsesSent 成功写回的应答数
	ResponsesSent uint64

	// InboundRejected 被拒绝的入站流数（并发超限或负载超限）
	InboundRejected uint64

	// BytesSent 发送字节数（请求与应答负载）
	BytesSent uint64

	// BytesRecv 接收字节数（请求与应答负载）
	BytesRecv uint64
}

// TotalBytes 返回总传输字节数
func (s ProtocolStats) TotalBytes() uint64 {
	return s.BytesSent + s.BytesRecv
}

// SuccessRate 返回出站请求成功率（0~1，无已结算请求时为 0）
func (s ProtocolStats) SuccessRate() float64 {
	settled := s.RequestsSucceeded + s.RequestsFailed
	if settled == 0 {
		return 0
	}
	return float64(s.RequestsSucceeded) / float64(settled)
}

// ============================================================================
//                              ExchangeStats - 交换服务统计
// ============================================================================

// ExchangeStats 交换服务整体统计
type ExchangeStats struct {
	// RequestsSent 已提交的出站请求总数
	RequestsSent uint64

	// RequestsSucceeded 成功结算的出站请求总数
	RequestsSucceeded uint64

	// RequestsFailed 失败结算的出站请求总数
	RequestsFailed uint64

	// ActiveOutbound 当前在途的出站请求数
	ActiveOutbound int

	// ActiveInbound 当前未应答的入站请求数
	ActiveInbound int

	// Protocols 按协议主名分组的统计
	Protocols map[ProtocolID]ProtocolStats
}
