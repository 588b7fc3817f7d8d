package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// FileLoggerConfig holds configuration for file logging
type FileLoggerConfig struct {
	// Path is the log file path
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSize is the maximum size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the maximum number of backup files to keep
	MaxBackups int
}

// FileLogger implements Logger with file output
type FileLogger struct {
	config FileLoggerConfig
	fields Fields

	mu          sync.Mutex
	file        *os.File
	currentSize int64
}

// NewFileLogger creates a new file logger
func NewFileLogger(config FileLoggerConfig) (*FileLogger, error) {
	if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &FileLogger{
		config:      config,
		file:        file,
		currentSize: info.Size(),
	}, nil
}

func (l *FileLogger) Debug(ctx context.Context, msg string, fields Fields) {
	if l.config.Level <= DebugLevel {
		l.log(DebugLevel, msg, nil, fields)
	}
}

func (l *FileLogger) Info(ctx context.Context, msg string, fields Fields) {
	if l.config.Level <= InfoLevel {
		l.log(InfoLevel, msg, nil, fields)
	}
}

func (l *FileLogger) Warn(ctx context.Context, msg string, fields Fields) {
	if l.config.Level <= WarnLevel {
		l.log(WarnLevel, msg, nil, fields)
	}
}

func (l *FileLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.log(ErrorLevel, msg, err, fields)
}

// WithFields returns a logger with additional fields.
// The returned logger shares the underlying file.
func (l *FileLogger) WithFields(fields Fields) Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &FileLogger{
		config:      l.config,
		fields:      merged,
		file:        l.file,
		currentSize: l.currentSize,
	}
}

// Close flushes and closes the logger
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *FileLogger) log(level Level, msg string, err error, fields Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.config.MaxSize > 0 && l.currentSize >= l.config.MaxSize {
		l.rotate()
	}

	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	var line []byte
	if l.config.Format == FormatJSON {
		line = l.formatJSON(level, msg, err, merged)
	} else {
		line = l.formatText(level, msg, err, merged)
	}
	if line == nil {
		return
	}

	n, _ := l.file.Write(line)
	l.currentSize += int64(n)
}

func (l *FileLogger) formatJSON(level Level, msg string, err error, fields Fields) []byte {
	entry := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"level":     levelString(level),
		"message":   msg,
	}
	if err != nil {
		entry["error"] = err.Error()
	}
	for k, v := range fields {
		entry[k] = v
	}

	data, jsonErr := json.Marshal(entry)
	if jsonErr != nil {
		return nil
	}
	return append(data, '\n')
}

func (l *FileLogger) formatText(level Level, msg string, err error, fields Fields) []byte {
	timestamp := time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
	line := fmt.Sprintf("%s [%s] %s", timestamp, levelString(level), msg)

	if err != nil {
		line += fmt.Sprintf(" error=%q", err.Error())
	}
	for k, v := range fields {
		line += fmt.Sprintf(" %s=%v", k, v)
	}

	return []byte(line + "\n")
}

// rotate rotates the log file; errors leave logging best-effort
func (l *FileLogger) rotate() {
	if l.file == nil {
		return
	}
	l.file.Close()

	for i := l.config.MaxBackups - 1; i >= 1; i-- {
		os.Rename(
			fmt.Sprintf("%s.%d", l.config.Path, i),
			fmt.Sprintf("%s.%d", l.config.Path, i+1),
		)
	}
	os.Rename(l.config.Path, l.config.Path+".1")

	if l.config.MaxBackups > 0 {
		os.Remove(fmt.Sprintf("%s.%d", l.config.Path, l.config.MaxBackups+1))
	}

	file, err := os.OpenFile(l.config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		l.file = nil
		return
	}
	l.file = file
	l.currentSize = 0
}
