// Package logger is the shop's log/slog setup. Request handlers log
// through WithCtx so each line carries the request id:
//
//	logger.WithCtx(ctx).Info("order created", "order_code", order.OrderCode)
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shashiranjanraj/nepkart/config"
)

// L is the process logger.
var L *slog.Logger

// Level is shared by the console and MongoDB handlers; LOG_LEVEL sets its
// starting value.
var Level = new(slog.LevelVar)

func init() {
	Level.Set(parseLevel(config.Get("LOG_LEVEL", ""), config.AppEnv()))
	install(console(os.Stdout))
}

func parseLevel(s, env string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err == nil {
		return lvl
	}
	if isProduction(env) {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

func isProduction(env string) bool {
	env = strings.ToLower(env)
	return env == "production" || env == "prod"
}

// console writes JSON in production, or when LOG_FORMAT=json, and
// logfmt-style text otherwise.
func console(w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: Level}
	if isProduction(config.AppEnv()) || strings.EqualFold(config.Get("LOG_FORMAT", ""), "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func install(h slog.Handler) {
	L = slog.New(h)
	slog.SetDefault(L)
}

// EnableMongo copies every record into the logs collection of db as well
// as stdout. The returned func drains the buffer and disconnects.
func EnableMongo(uri, db string) (func(), error) {
	mh, err := NewMongoHandler(uri, db, "logs")
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	install(NewMultiHandler(console(os.Stdout), mh))
	return mh.Close, nil
}

type ctxKey struct{}

// InjectLogger stores log, usually tagged with request_id, in ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// WithCtx returns the logger stored by InjectLogger, or L.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
			return log
		}
	}
	return L
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
