package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

var compressText = chimw.Compress(5, "text/html", "text/css", "text/plain")

// WithGzip сжимает текстовые ответы для клиентов с Accept-Encoding: gzip.
func WithGzip(next http.Handler) http.Handler {
	return compressText(next)
}
