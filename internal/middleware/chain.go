package middleware

import "net/http"

// Middleware 定义中间件函数类型：
// 接收一个 http.HandlerFunc，返回包装后的 http.HandlerFunc。
type Middleware func(http.HandlerFunc) http.HandlerFunc

// Chain 按顺序组合多个中间件。
// 执行顺序为洋葱模型：Chain(m1, m2, ..., mn) 即
// m1 → m2 → ... → mn → handler → mn → ... → m2 → m1，
// 第一个参数在最外层。
//
// 不传任何中间件时返回透传中间件。
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.HandlerFunc) http.HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
