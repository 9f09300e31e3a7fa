// Package types 定义 go-reqres 的基础类型
//
// 本文件定义各类标识符。
package types

import (
	"encoding/hex"
	"strconv"
)

// ============================================================================
//                              PeerID - 节点标识
// ============================================================================

// PeerID 节点唯一标识符
//
// 由底层传输层的节点身份派生，Base58 编码（用户可读、可分享）。
// 本模块不关心其派生方式，仅将其作为不透明的路由键使用。
type PeerID string

// EmptyPeerID 空节点 ID
const EmptyPeerID PeerID = ""

// Base58 字母表（Bitcoin 风格，排除易混淆字符 0OIl）
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// base58AlphabetMap 字符到值的映射
var base58AlphabetMap = func() map[rune]bool {
	m := make(map[rune]bool, len(base58Alphabet))
	for _, c := range base58Alphabet {
		m[c] = true
	}
	return m
}()

// String 返回 PeerID 的字符串表示
func (id PeerID) String() string {
	return string(id)
}

// ShortString 返回 PeerID 的短字符串表示
//
// 格式：前 8 个字符 + "..." + 后 3 个字符，用于日志中的简短标识。
// 不足 12 个字符时原样返回。
func (id PeerID) ShortString() string {
	s := string(id)
	if len(s) <= 12 {
		return s
	}
	return s[:8] + "..." + s[len(s)-3:]
}

// IsEmpty 检查 PeerID 是否为空
func (id PeerID) IsEmpty() bool {
	return id == EmptyPeerID
}

// Equal 比较两个 PeerID 是否相等
func (id PeerID) Equal(other PeerID) bool {
	return id == other
}

// Validate 校验 PeerID 格式
//
// 要求非空且仅包含 Base58 字符。
func (id PeerID) Validate() error {
	if id.IsEmpty() {
		return ErrEmptyPeerID
	}
	for _, c := range string(id) {
		if !base58AlphabetMap[c] {
			return ErrInvalidPeerID
		}
	}
	return nil
}

// ParsePeerID 从字符串解析 PeerID
func ParsePeerID(s string) (PeerID, error) {
	id := PeerID(s)
	if err := id.Validate(); err != nil {
		return EmptyPeerID, err
	}
	return id, nil
}

// PeerIDSlice 可排序的 PeerID 切片
type PeerIDSlice []PeerID

func (s PeerIDSlice) Len() int           { return len(s) }
func (s PeerIDSlice) Less(i, j int) bool { return s[i] < s[j] }
func (s PeerIDSlice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// ============================================================================
//                              RequestID - 请求标识
// ============================================================================

// RequestID 出站请求唯一标识符
//
// 在单个交换服务实例内单调递增，永不复用。
// 仅用于关联提交与其最终结果事件，跨实例无意义。
type RequestID uint64

// String 返回 RequestID 的字符串表示
func (id RequestID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ============================================================================
//                              StreamID - 流标识
// ============================================================================

// StreamID 流唯一标识符
type StreamID uint64

// String 返回 StreamID 的字符串表示
func (id StreamID) String() string {
	return hex.EncodeToString([]byte{
		byte(id >> 56), byte(id >> 48), byte(id >> 40), byte(id >> 32),
		byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id),
	})
}
