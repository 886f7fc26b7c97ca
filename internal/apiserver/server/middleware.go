package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"
)

// CORSMiddleware 跨域支持
//
// allowOrigin 为 Access-Control-Allow-Origin 的值，默认 "*"。
// 预检请求直接返回 204。
func CORSMiddleware(allowOrigin string) func(http.Handler) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BodyLimitMiddleware urlencoded 请求体限制（DoS 防护）
//
// 只作用于 application/x-www-form-urlencoded 请求：
// 请求体超过 bodyLimit 字节返回 413，参数个数超过 paramLimit 返回 400。
// multipart 注册请求不走这里，由上传层自己的上限约束。
func BodyLimitMiddleware(bodyLimit int64, paramLimit int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, bodyLimit))
			if err != nil {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			if countParams(string(body)) > paramLimit {
				writeError(w, http.StatusBadRequest, "too many parameters")
				return
			}

			// 归还请求体供处理器解析
			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

// countParams 统计 urlencoded 请求体中的参数个数
func countParams(body string) int {
	if body == "" {
		return 0
	}
	n := 0
	for _, part := range strings.Split(body, "&") {
		if part != "" {
			n++
		}
	}
	return n
}
