// Package logger provides structured diagnostics for ohcrab. Everything goes
// to stderr or a log file: stdout carries the corrected script the shell
// evaluates and must stay clean.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	globalLogger *Logger
	mu           sync.Mutex
)

// Level represents logging level
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// Logger wraps charmbracelet/log
type Logger struct {
	logger *log.Logger
	level  Level
	writer io.Writer
}

// Config holds logger configuration
type Config struct {
	Level      string
	File       string
	MaxSize    int // MB
	MaxBackups int
	// Output is the console destination. Nil means stderr.
	Output io.Writer
	// Console disables console output when false.
	Console bool
}

// DefaultConfig returns default logger configuration
func DefaultConfig() Config {
	return Config{
		Level:      "warn",
		MaxSize:    10,
		MaxBackups: 3,
		Console:    true,
	}
}

// Initialize (re)configures the global logger.
func Initialize(cfg Config) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	mu.Lock()
	globalLogger = l
	mu.Unlock()
	return nil
}

// New builds a logger without touching the global one.
func New(cfg Config) (*Logger, error) {
	level := parseLevel(cfg.Level)

	var writers []io.Writer
	if cfg.Console {
		out := cfg.Output
		if out == nil {
			out = os.Stderr
		}
		writers = append(writers, out)
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		fileWriter, err := newRotatingWriter(cfg)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, fileWriter)
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = io.Discard
	case 1:
		writer = writers[0]
	default:
		writer = io.MultiWriter(writers...)
	}

	l := log.NewWithOptions(writer, log.Options{
		Level:           log.Level(levelValue(level)),
		TimeFormat:      time.Kitchen,
		ReportTimestamp: cfg.File != "",
		Prefix:          "ohcrab",
	})

	return &Logger{logger: l, level: level, writer: writer}, nil
}

// Get returns the global logger instance
func Get() *Logger {
	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		globalLogger, _ = New(DefaultConfig())
	}
	return globalLogger
}

func (l *Logger) Debug(msg string, keyvals ...any) { l.logger.Debug(msg, keyvals...) }

func (l *Logger) Info(msg string, keyvals ...any) { l.logger.Info(msg, keyvals...) }

func (l *Logger) Warn(msg string, keyvals ...any) { l.logger.Warn(msg, keyvals...) }

func (l *Logger) Error(msg string, keyvals ...any) { l.logger.Error(msg, keyvals...) }

// With returns a logger whose lines carry prefix.
func (l *Logger) With(prefix string) *Logger {
	return &Logger{
		logger: l.logger.WithPrefix("ohcrab/" + prefix),
		level:  l.level,
		writer: l.writer,
	}
}

// SetLevel sets logging level
func (l *Logger) SetLevel(level Level) {
	l.level = level
	l.logger.SetLevel(log.Level(levelValue(level)))
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

// Convenience functions for global logger

func Debug(msg string, keyvals ...any) { Get().Debug(msg, keyvals...) }

func Info(msg string, keyvals ...any) { Get().Info(msg, keyvals...) }

func Warn(msg string, keyvals ...any) { Get().Warn(msg, keyvals...) }

func Error(msg string, keyvals ...any) { Get().Error(msg, keyvals...) }

// With returns global logger with prefix
func With(prefix string) *Logger {
	return Get().With(prefix)
}

func parseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return WarnLevel
	}
}

// levelValue maps our levels onto charmbracelet/log's, which are spaced
// four apart starting at -4 for debug.
func levelValue(level Level) int {
	switch level {
	case DebugLevel:
		return int(log.DebugLevel)
	case InfoLevel:
		return int(log.InfoLevel)
	case ErrorLevel:
		return int(log.ErrorLevel)
	case FatalLevel:
		return int(log.FatalLevel)
	default:
		return int(log.WarnLevel)
	}
}

// rotatingWriter rolls the log file over once it exceeds MaxSize.
type rotatingWriter struct {
	filename   string
	maxSize    int
	maxBackups int
	file       *os.File
	size       int64
}

func newRotatingWriter(cfg Config) (*rotatingWriter, error) {
	rw := &rotatingWriter{
		filename:   cfg.File,
		maxSize:    cfg.MaxSize,
		maxBackups: cfg.MaxBackups,
	}
	if rw.maxSize <= 0 {
		rw.maxSize = 10
	}
	if err := rw.open(); err != nil {
		return nil, err
	}
	return rw, nil
}

func (rw *rotatingWriter) open() error {
	if info, err := os.Stat(rw.filename); err == nil {
		rw.size = info.Size()
	} else {
		rw.size = 0
	}

	file, err := os.OpenFile(rw.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	rw.file = file
	return nil
}

// Write implements io.Writer
func (rw *rotatingWriter) Write(p []byte) (n int, err error) {
	if rw.size+int64(len(p)) > int64(rw.maxSize)*1024*1024 {
		if err := rw.rotate(); err != nil {
			return 0, err
		}
	}
	n, err = rw.file.Write(p)
	rw.size += int64(n)
	return n, err
}

func (rw *rotatingWriter) rotate() error {
	if rw.file != nil {
		rw.file.Close()
	}

	_ = os.Remove(fmt.Sprintf("%s.%d", rw.filename, rw.maxBackups))
	for i := rw.maxBackups - 1; i > 0; i-- {
		_ = os.Rename(fmt.Sprintf("%s.%d", rw.filename, i), fmt.Sprintf("%s.%d", rw.filename, i+1))
	}
	_ = os.Rename(rw.filename, rw.filename+".1")

	return rw.open()
}

// Close closes the file
func (rw *rotatingWriter) Close() error {
	if rw.file != nil {
		return rw.file.Close()
	}
	return nil
}
