package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
)

// RequestID 返回生成请求追踪 ID 的中间件。
// 每个请求生成 8 字节随机数（16 个十六进制字符），
// 写入 X-Request-Id 响应头，便于对照转换日志排查问题。
func RequestID() Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			buf := make([]byte, 8)
			if _, err := rand.Read(buf); err != nil {
				log.Printf("[RequestID] crypto/rand failed: %v", err)
			}
			w.Header().Set("X-Request-Id", hex.EncodeToString(buf))
			next(w, r)
		}
	}
}
