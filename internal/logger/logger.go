package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Newはenvに合わせたzerologを返す。devは人が読む形式、それ以外はJSON。
func New(level, env string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var w io.Writer = os.Stdout
	if env == "dev" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "neighborhub").Logger()
}
