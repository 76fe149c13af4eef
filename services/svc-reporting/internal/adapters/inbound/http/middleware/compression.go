package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/architeacher/reporting/services/svc-reporting/internal/config"
)

const (
	encodingBrotli = "br"
	encodingGzip   = "gzip"
)

var defaultCompressibleTypes = []string{
	"application/json",
	"text/csv",
	"text/html",
	"text/plain",
}

// Compression encodes responses with brotli or gzip, picked from
// Accept-Encoding by quality and then by server preference (br first).
// Bodies below MinSize and non-compressible content types go out unchanged.
func Compression(cfg config.Compression) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler { return next }
	}

	contentTypes := cfg.ContentTypes
	if len(contentTypes) == 0 {
		contentTypes = defaultCompressibleTypes
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasPrefix(r.URL.Path, cfg.SkipPaths) || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)

				return
			}

			encoding := negotiateEncoding(r.Header.Get("Accept-Encoding"))
			if encoding == "" {
				next.ServeHTTP(w, r)

				return
			}

			w.Header().Add("Vary", "Accept-Encoding")

			cw := &compressWriter{
				ResponseWriter: w,
				encoding:       encoding,
				level:          cfg.Level,
				minSize:        cfg.MinSize,
				contentTypes:   contentTypes,
				status:         http.StatusOK,
			}
			defer func() { _ = cw.Close() }()

			next.ServeHTTP(cw, r)
		})
	}
}

// negotiateEncoding returns the preferred supported encoding or "" when the
// client accepts none of them.
func negotiateEncoding(header string) string {
	best, bestQuality := "", 0.0

	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		name = strings.ToLower(strings.TrimSpace(name))
		quality := 1.0

		if value, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			parsed, err := strconv.ParseFloat(value, 64)
			if err != nil {
				continue
			}

			quality = parsed
		}

		if name == "*" {
			name = encodingBrotli
		}

		if name != encodingBrotli && name != encodingGzip {
			continue
		}

		if quality > bestQuality || (quality == bestQuality && name == encodingBrotli) {
			best, bestQuality = name, quality
		}
	}

	if bestQuality <= 0 {
		return ""
	}

	return best
}

func hasPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// compressWriter buffers up to minSize bytes before deciding whether to
// encode, so small bodies keep their Content-Length.
type compressWriter struct {
	http.ResponseWriter
	encoding     string
	level        int
	minSize      int
	contentTypes []string

	status      int
	wroteHeader bool
	decided     bool
	passthrough bool
	buf         []byte
	encoder     io.WriteCloser
}

func (w *compressWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}

	w.wroteHeader = true
	w.status = status

	if status == http.StatusNoContent || status == http.StatusNotModified || !w.compressible() {
		w.decide(false)
	}
}

func (w *compressWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}

	if w.decided {
		if w.passthrough {
			return w.ResponseWriter.Write(b)
		}

		return w.encoder.Write(b)
	}

	w.buf = append(w.buf, b...)
	if len(w.buf) >= w.minSize {
		w.decide(true)

		if err := w.flushBuffer(); err != nil {
			return 0, err
		}
	}

	return len(b), nil
}

func (w *compressWriter) Flush() {
	if !w.decided {
		w.decide(len(w.buf) >= w.minSize)
		_ = w.flushBuffer()
	}

	if flusher, ok := w.encoder.(interface{ Flush() error }); ok {
		_ = flusher.Flush()
	}

	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *compressWriter) Close() error {
	if !w.decided {
		if !w.wroteHeader {
			return nil
		}

		w.decide(false)

		if err := w.flushBuffer(); err != nil {
			return err
		}
	}

	if w.encoder != nil {
		return w.encoder.Close()
	}

	return nil
}

func (w *compressWriter) decide(compress bool) {
	w.decided = true
	w.passthrough = !compress

	if compress {
		w.Header().Set("Content-Encoding", w.encoding)
		w.Header().Del("Content-Length")
		w.encoder = w.newEncoder()
	}

	w.ResponseWriter.WriteHeader(w.status)
}

func (w *compressWriter) flushBuffer() error {
	if len(w.buf) == 0 {
		return nil
	}

	buf := w.buf
	w.buf = nil

	if w.passthrough {
		_, err := w.ResponseWriter.Write(buf)

		return err
	}

	_, err := w.encoder.Write(buf)

	return err
}

func (w *compressWriter) newEncoder() io.WriteCloser {
	if w.encoding == encodingBrotli {
		return brotli.NewWriterLevel(w.ResponseWriter, clampLevel(w.level, brotli.BestSpeed, brotli.BestCompression))
	}

	gw, err := gzip.NewWriterLevel(w.ResponseWriter, clampLevel(w.level, gzip.BestSpeed, gzip.BestCompression))
	if err != nil {
		gw = gzip.NewWriter(w.ResponseWriter)
	}

	return gw
}

func (w *compressWriter) compressible() bool {
	mediaType, _, _ := strings.Cut(w.Header().Get("Content-Type"), ";")
	mediaType = strings.ToLower(strings.TrimSpace(mediaType))

	if mediaType == "" || w.Header().Get("Content-Encoding") != "" {
		return false
	}

	for _, allowed := range w.contentTypes {
		if strings.EqualFold(allowed, mediaType) {
			return true
		}
	}

	return false
}

func clampLevel(level, lowest, highest int) int {
	return min(max(level, lowest), highest)
}
