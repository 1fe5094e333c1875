package middleware

import (
	"net/http"
)

// Every body this server accepts is small JSON: credentials, content
// values, estimate forms. Photos never pass through here; the browser
// PUTs them straight to the bucket with a presigned URL. 256 KiB leaves
// ample headroom for the longest about-us text plus attachment metadata.
const DefaultMaxBodySize = 256 << 10

type BodyLimitMiddleware struct {
	maxSize int64
}

func NewBodyLimitMiddleware(maxSize int64) *BodyLimitMiddleware {
	if maxSize <= 0 {
		maxSize = DefaultMaxBodySize
	}
	return &BodyLimitMiddleware{maxSize: maxSize}
}

func (m *BodyLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil && r.ContentLength > m.maxSize {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
				"error": "Request body too large",
			})
			return
		}

		// ContentLength can lie or be absent; MaxBytesReader enforces the
		// cap while the body is actually read.
		r.Body = http.MaxBytesReader(w, r.Body, m.maxSize)
		next.ServeHTTP(w, r)
	})
}
