package logger

import (
	"context"

	"go.uber.org/zap"
)

// Request-scoped values travel on the context: the enriched logger, the
// request id, and the scanner device id reported by the terminal.

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
	deviceIDKey
)

// WithContext attaches log to ctx.
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the attached logger, or a no-op logger when absent.
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// WithRequestID stores id on the context and returns a logger that tags
// every entry with it. The enriched logger is also attached to the context.
func WithRequestID(ctx context.Context, log *zap.Logger, id string) (context.Context, *zap.Logger) {
	tagged := log.With(zap.String("request_id", id))
	ctx = context.WithValue(ctx, requestIDKey, id)
	return WithContext(ctx, tagged), tagged
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithDeviceID records which scanner terminal issued the request.
func WithDeviceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, deviceIDKey, id)
}

func GetDeviceID(ctx context.Context) string {
	id, _ := ctx.Value(deviceIDKey).(string)
	return id
}
