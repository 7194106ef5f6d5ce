// pattern: Imperative Shell

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds configuration for the log Manager.
type Config struct {
	FilePath       string // path to the rotating log file
	MaxSizeMB      int    // size before rotation
	MaxBackups     int    // old files to keep
	MaxAgeDays     int    // days to keep old files
	Level          string // minimum level (debug, info, warn, error)
	ChannelBufSize int    // buffer for the TUI channel (default 1000)
}

// LoggerProvider hands out scoped loggers. Both Manager and the test
// manager in testing.go satisfy it.
type LoggerProvider interface {
	For(scope string) *ScopedLogger
}

// ScopedLogger is a named sugared logger. Args are alternating key/value
// pairs, zap-style.
type ScopedLogger struct {
	sugar *zap.SugaredLogger
	scope string
}

func (l *ScopedLogger) Debug(msg string, args ...any) { l.sugar.Debugw(msg, args...) }
func (l *ScopedLogger) Info(msg string, args ...any)  { l.sugar.Infow(msg, args...) }
func (l *ScopedLogger) Warn(msg string, args ...any)  { l.sugar.Warnw(msg, args...) }
func (l *ScopedLogger) Error(msg string, args ...any) { l.sugar.Errorw(msg, args...) }

// With returns a logger carrying the given key/value pairs on every entry.
func (l *ScopedLogger) With(args ...any) *ScopedLogger {
	return &ScopedLogger{sugar: l.sugar.With(args...), scope: l.scope}
}

// Scope returns the logger's scope name.
func (l *ScopedLogger) Scope() string { return l.scope }

// Manager owns the zap core with dual output: a rotating JSON file and a
// channel sink feeding the TUI log panel.
type Manager struct {
	base        *zap.Logger
	channelSink *ChannelSink
	fileWriter  *lumberjack.Logger

	mu      sync.RWMutex
	loggers map[string]*ScopedLogger
}

// NewManager creates a log manager writing to cfg.FilePath.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("logging: FilePath is required")
	}
	if cfg.ChannelBufSize == 0 {
		cfg.ChannelBufSize = 1000
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 5
	}
	if cfg.MaxAgeDays == 0 {
		cfg.MaxAgeDays = 7
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}

	channelSink := NewChannelSink(cfg.ChannelBufSize)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.EpochTimeEncoder
	encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(fileWriter), level),
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(channelSink), level),
	)

	return &Manager{
		base:        zap.New(core),
		channelSink: channelSink,
		fileWriter:  fileWriter,
		loggers:     make(map[string]*ScopedLogger),
	}, nil
}

// For returns the cached logger for a scope, creating it on first use.
func (m *Manager) For(scope string) *ScopedLogger {
	m.mu.RLock()
	if logger, ok := m.loggers[scope]; ok {
		m.mu.RUnlock()
		return logger
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if logger, ok := m.loggers[scope]; ok {
		return logger
	}

	logger := &ScopedLogger{
		sugar: m.base.Named(scope).Sugar(),
		scope: scope,
	}
	m.loggers[scope] = logger
	return logger
}

// Entries returns the channel the TUI log panel consumes.
func (m *Manager) Entries() <-chan LogEntry {
	return m.channelSink.Entries()
}

// Sync flushes buffered logs.
func (m *Manager) Sync() error {
	return m.base.Sync()
}

// Close syncs and releases all outputs.
func (m *Manager) Close() error {
	_ = m.Sync()
	_ = m.channelSink.Close()
	return m.fileWriter.Close()
}
