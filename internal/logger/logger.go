// Package logger provides the process-wide structured logger. Every
// layer of the blog backend logs through it; the level comes from
// config at startup.
package logger

import "sync"

// Level strings accepted in config (log.level).
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the singleton logger. The first caller fixes the level;
// later calls ignore their argument and reuse the instance.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level)
	})
	return globalLogger
}
