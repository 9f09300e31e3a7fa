// Package types 定义 go-reqres 的基础类型
//
// 本文件定义协议标识类型。
package types

import "strings"

// ============================================================================
//                              ProtocolID - 协议标识
// ============================================================================

// ProtocolID 协议标识符
// 格式: 以 / 开头的路径形式，如 /ping/1、/myapp/kv/1.0.0
type ProtocolID string

// String 返回协议 ID 字符串
func (p ProtocolID) String() string {
	return string(p)
}

// IsEmpty 检查协议 ID 是否为空
func (p ProtocolID) IsEmpty() bool {
	return p == ""
}

// MaxProtocolIDLength 协议 ID 最大长度
const MaxProtocolIDLength = 256

// Validate 校验协议 ID 格式
//
// 要求：非空、以 / 开头、无空白字符、无空路径段、长度不超过上限。
func (p ProtocolID) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyProtocolID
	}
	if len(p) > MaxProtocolIDLength {
		return ErrInvalidProtocolID
	}
	s := string(p)
	if !strings.HasPrefix(s, "/") {
		return ErrInvalidProtocolID
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return ErrInvalidProtocolID
	}
	// 去掉首个 / 后不允许空路径段
	for _, seg := range strings.Split(s[1:], "/") {
		if seg == "" {
			return ErrInvalidProtocolID
		}
	}
	return nil
}
