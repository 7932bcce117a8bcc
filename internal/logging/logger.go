// Package logging writes run logs to a size-capped rotating file and mirrors
// every line to the console. The log is operational diagnosis only; it is not
// part of the conversion data contract.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 10
	maxLogBackups = 5
)

// Logger logs to the rotating file and stdout at once.
type Logger struct {
	out  *log.Logger
	file *lumberjack.Logger
}

// New creates a logger writing to logPath. Rotation is handled by lumberjack:
// 10 MB per file, 5 backups kept.
func New(logPath string) *Logger {
	rot := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
	}
	return &Logger{
		out:  log.New(io.MultiWriter(os.Stdout, rot), "", log.LstdFlags),
		file: rot,
	}
}

// NewConsole creates a console-only logger, used by tests and the API server.
func NewConsole() *Logger {
	return &Logger{out: log.New(os.Stdout, "", log.LstdFlags)}
}

func (l *Logger) Info(format string, args ...any)  { l.printf("INFO", format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.printf("WARN", format, args...) }
func (l *Logger) Error(format string, args ...any) { l.printf("ERROR", format, args...) }

func (l *Logger) printf(level, format string, args ...any) {
	if l == nil || l.out == nil {
		return
	}
	l.out.Printf("%s - %s", level, fmt.Sprintf(format, args...))
}

// Close flushes and closes the underlying log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
