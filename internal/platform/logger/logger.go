// Package logger はlog/slogのロガーを設定から組み立てます。
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel はレベル文字列をslog.Levelに変換します。不明な値はInfoです。
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger は標準出力へ書き出すロガーを返します。formatが"text"ならテキスト、それ以外はJSONです。
func NewLogger(level, format string) *slog.Logger {
	return New(os.Stdout, level, format)
}

// New はwへ書き出すロガーを返します。
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
