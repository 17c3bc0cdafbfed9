package middleware

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// BrotliConfig controls response compression.
type BrotliConfig struct {
	Quality int
	// MinLength is the body size below which responses are sent uncompressed.
	MinLength int
	Skipper   func(c *gin.Context) bool
}

// DefaultBrotliConfig compresses bodies of 1 KiB and more.
var DefaultBrotliConfig = BrotliConfig{
	Quality:   brotli.DefaultCompression,
	MinLength: 1024,
}

// brotliWriter buffers the body until MinLength bytes are written, then
// switches to compressing everything that follows.
type brotliWriter struct {
	gin.ResponseWriter
	writer     *brotli.Writer
	quality    int
	buf        []byte
	minLength  int
	compressed bool
}

func (bw *brotliWriter) Write(data []byte) (int, error) {
	if bw.compressed {
		return bw.writer.Write(data)
	}

	bw.buf = append(bw.buf, data...)
	if len(bw.buf) < bw.minLength {
		return len(data), nil
	}

	bw.startCompression()
	if _, err := bw.writer.Write(bw.buf); err != nil {
		return 0, err
	}
	bw.buf = bw.buf[:0]
	return len(data), nil
}

func (bw *brotliWriter) WriteString(s string) (int, error) {
	return bw.Write([]byte(s))
}

func (bw *brotliWriter) startCompression() {
	bw.compressed = true
	h := bw.ResponseWriter.Header()
	h.Set("Content-Encoding", "br")
	h.Del("Content-Length")
	bw.writer = brotli.NewWriterLevel(bw.ResponseWriter, bw.quality)
}

// finish sends any short body as-is, or closes the compressed stream.
func (bw *brotliWriter) finish() error {
	if bw.compressed {
		return bw.writer.Close()
	}
	if len(bw.buf) == 0 {
		return nil
	}
	_, err := bw.ResponseWriter.Write(bw.buf)
	bw.buf = bw.buf[:0]
	return err
}

// Brotli compresses responses for clients that accept "br".
func Brotli() gin.HandlerFunc {
	return BrotliWithConfig(DefaultBrotliConfig)
}

// BrotliWithConfig is Brotli with explicit settings.
func BrotliWithConfig(cfg BrotliConfig) gin.HandlerFunc {
	if cfg.Quality < brotli.BestSpeed || cfg.Quality > brotli.BestCompression {
		cfg.Quality = brotli.DefaultCompression
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultBrotliConfig.MinLength
	}

	return func(c *gin.Context) {
		if shouldSkip(c) || (cfg.Skipper != nil && cfg.Skipper(c)) || !acceptsBrotli(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		bw := &brotliWriter{
			ResponseWriter: c.Writer,
			quality:        cfg.Quality,
			minLength:      cfg.MinLength,
		}
		c.Writer = bw
		defer func() {
			if err := bw.finish(); err != nil {
				_ = c.Error(err)
			}
		}()

		c.Next()
	}
}

// shouldSkip passes through WebSocket upgrades, whose handshake breaks when
// the writer is wrapped, and HEAD requests, which have no body.
func shouldSkip(c *gin.Context) bool {
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return true
	}
	return c.Request.Method == http.MethodHead
}

func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(enc), ";")
		if strings.EqualFold(name, "br") {
			return true
		}
	}
	return false
}
