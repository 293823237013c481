package badger

import (
	"fmt"
	"log/slog"
	"strings"
)

// badgerLogger routes badger's printf-style logging into slog.
type badgerLogger struct {
	logger *slog.Logger
}

func newBadgerLogger(logger *slog.Logger) *badgerLogger {
	return &badgerLogger{logger: logger.With("component", "badger")}
}

func (b *badgerLogger) Errorf(msg string, args ...any) {
	b.logger.Error(strings.TrimSpace(fmt.Sprintf(msg, args...)))
}

func (b *badgerLogger) Warningf(msg string, args ...any) {
	b.logger.Warn(strings.TrimSpace(fmt.Sprintf(msg, args...)))
}

func (b *badgerLogger) Infof(msg string, args ...any) {
	b.logger.Info(strings.TrimSpace(fmt.Sprintf(msg, args...)))
}

func (b *badgerLogger) Debugf(msg string, args ...any) {
	b.logger.Debug(strings.TrimSpace(fmt.Sprintf(msg, args...)))
}
