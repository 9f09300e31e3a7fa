package types

// ============================================================================
//                              Direction - 连接方向
// ============================================================================

// Direction 连接/流方向
type Direction int

const (
	// DirUnknown 未知方向
	DirUnknown Direction = iota
	// DirInbound 入站
	DirInbound
	// DirOutbound 出站
	DirOutbound
)

// String 返回方向的字符串表示
func (d Direction) String() string {
	switch d {
	case DirInbound:
		return "inbound"
	case DirOutbound:
		return "outbound"
	default:
		return "unknown"
	}
}

// ============================================================================
//                              Connectedness - 连接状态
// ============================================================================

// Connectedness 节点连接状态
type Connectedness int

const (
	// NotConnected 未连接
	NotConnected Connectedness = iota
	// Connected 已连接
	Connected
	// CanConnect 可连接（有地址但未连接）
	CanConnect
	// CannotConnect 无法连接
	CannotConnect
)

// String 返回连接状态的字符串表示
func (c Connectedness) String() string {
	switch c {
	case NotConnected:
		return "not_connected"
	case Connected:
		return "connected"
	case CanConnect:
		return "can_connect"
	case CannotConnect:
		return "cannot_connect"
	default:
		return "unknown"
	}
}
