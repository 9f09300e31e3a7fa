package reqres

import "errors"

// 错误定义
var (
	// ErrNilHost Host 接口为 nil
	ErrNilHost = errors.New("reqres: host is nil")

	// ErrNotStarted 服务未启动
	ErrNotStarted = errors.New("reqres: service not started")

	// ErrAlreadyStarted 服务已启动
	ErrAlreadyStarted = errors.New("reqres: service already started")

	// ErrFrameTooLarge 帧长度超过协议上限
	ErrFrameTooLarge = errors.New("reqres: frame exceeds size limit")

	// ErrRateLimited 对端入站请求被限流
	ErrRateLimited = errors.New("reqres: peer rate limited")
)
