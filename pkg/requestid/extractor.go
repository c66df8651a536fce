package requestid

import (
	"context"
	"log/slog"
)

// LoggerExtractor returns a logger context extractor that surfaces the
// request id on every log record.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := FromContext(ctx); id != "" {
			return slog.String("request_id", id), true
		}
		return slog.Attr{}, false
	}
}
