package unzip

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bizzon-vn/bepnhanga/pkg/logger"
)

// gzipReader implements io.ReadCloser, decompressing the wrapped body
// on the fly and closing both the gzip stream and the original body.
type gzipReader struct {
	body io.ReadCloser
	zr   *gzip.Reader
}

func newGzipReader(body io.ReadCloser) (*gzipReader, error) {
	zr, err := gzip.NewReader(body)
	if err != nil {
		return nil, fmt.Errorf("new gzip reader: %w", err)
	}

	return &gzipReader{body: body, zr: zr}, nil
}

func (g *gzipReader) Read(p []byte) (int, error) {
	return g.zr.Read(p)
}

func (g *gzipReader) Close() error {
	if err := g.zr.Close(); err != nil {
		return fmt.Errorf("close gzip reader: %w", err)
	}
	return g.body.Close()
}

// Middleware transparently decompresses request bodies sent with a
// gzip content encoding.
func Middleware(logger logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		f := func(w http.ResponseWriter, r *http.Request) {
			if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
				zr, err := newGzipReader(r.Body)
				if err != nil {
					logger.Error(err)
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				r.Body = zr
				defer zr.Close()
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(f)
	}
}
