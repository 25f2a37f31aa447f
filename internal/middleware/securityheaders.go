package middleware

import "net/http"

// SecurityHeaders 返回设置安全响应头的中间件。
// 转换结果可能包含用户上传的 SVG，严格的 CSP 和 nosniff
// 防止浏览器把响应当作可执行内容处理。
func SecurityHeaders() Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Content-Security-Policy", "default-src 'none'; sandbox")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			h.Set("Cache-Control", "no-store")
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			h.Set("Cross-Origin-Opener-Policy", "same-origin")
			next(w, r)
		}
	}
}
