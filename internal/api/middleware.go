package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	requestIDHeader = "X-Request-ID"
	bodyPreviewLen  = 100
)

type ctxKey int

const requestIDKey ctxKey = iota

// RequestID returns the id assigned to the request by the logging middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogger tags each request with a ULID and logs it on completion.
// At debug level the first bytes of POST bodies are logged too.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = ulid.Make().String()
		}
		w.Header().Set(requestIDHeader, id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey, id))

		if r.Method == http.MethodPost && r.Body != nil && slog.Default().Enabled(r.Context(), slog.LevelDebug) {
			preview := make([]byte, bodyPreviewLen)
			n, _ := io.ReadFull(r.Body, preview)
			preview = preview[:n]
			r.Body = readCloser{io.MultiReader(bytes.NewReader(preview), r.Body), r.Body}
			slog.Debug("request body", "request_id", id, "preview", string(preview)+"...")
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		slog.Info("request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

type readCloser struct {
	io.Reader
	io.Closer
}

// slogRecoveryLogger adapts slog to the panic recovery handler.
type slogRecoveryLogger struct{}

func (slogRecoveryLogger) Println(v ...any) {
	slog.Error("panic recovered", "error", fmt.Sprint(v...))
}
