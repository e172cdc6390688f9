package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// secretKeys are attribute keys whose values never reach a log line.
var secretKeys = map[string]struct{}{
	"access_key":       {},
	"secret_key":       {},
	"x-api-access-key": {},
	"authorization":    {},
	"minio_secret_key": {},
	"volc_access_key":  {},
}

const (
	redacted       = "[redacted]"
	jsonTimeFormat = "2006-01-02T15:04:05.000Z07:00"
)

// RedactedValue reports the replacement logged for key, or false when key is
// not sensitive.
func RedactedValue(key string) (string, bool) {
	if _, ok := secretKeys[strings.ToLower(key)]; ok {
		return redacted, true
	}
	return "", false
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if value, ok := RedactedValue(attr.Key); ok {
				attr.Value = slog.StringValue(value)
				return attr
			}
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(jsonTimeFormat))
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}
