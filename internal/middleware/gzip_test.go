package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = "<html><body>Hello, alice</body></html>"

func typedHandler(contentType string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(page))
	})
}

func TestWithGzip(t *testing.T) {
	tests := []struct {
		name           string
		contentType    string
		acceptEncoding string
		wantGzip       bool
	}{
		{"html page compressed", "text/html; charset=utf-8", "gzip", true},
		{"plain text error compressed", "text/plain; charset=utf-8", "gzip, deflate", true},
		{"html without accept-encoding", "text/html; charset=utf-8", "", false},
		{"binary passes through", "application/octet-stream", "gzip", false},
		{"image passes through", "image/png", "gzip", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tc.acceptEncoding)
			}
			rr := httptest.NewRecorder()
			WithGzip(typedHandler(tc.contentType)).ServeHTTP(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), strings.Split(tc.contentType, ";")[0]))

			if !tc.wantGzip {
				assert.Empty(t, rr.Header().Get("Content-Encoding"))
				assert.Equal(t, page, rr.Body.String())
				return
			}

			assert.Equal(t, "gzip", rr.Header().Get("Content-Encoding"))
			gr, err := gzip.NewReader(rr.Body)
			require.NoError(t, err)
			defer gr.Close()
			data, err := io.ReadAll(gr)
			require.NoError(t, err)
			assert.Equal(t, page, string(data))
		})
	}
}
