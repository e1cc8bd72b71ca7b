// Package pool provides a bounded goroutine pool built on ants.
package pool

import "errors"

// 池相关错误定义
var (
	// ErrPoolClosed 池已关闭
	ErrPoolClosed = errors.New("pool is closed")

	// ErrInvalidPoolConfig 无效的池配置
	ErrInvalidPoolConfig = errors.New("invalid pool config")

	// ErrPoolOverload 池已满
	ErrPoolOverload = errors.New("pool is overloaded")
)
