package response

import "net/http"

// RequestIDFromRequest reads the request id off the headers. Used before the
// request-id middleware has populated the context (auth rejections).
func RequestIDFromRequest(r *http.Request) string {
	if v := r.Header.Get("X-Request-Id"); v != "" {
		return v
	}
	return r.Header.Get("X-Request-ID")
}
