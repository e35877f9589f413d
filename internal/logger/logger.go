package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogFilePath is the default JSON log file, relative to the working directory (project root when run via go run ./cmd/game).
const LogFilePath = "logs/portal.log"

// DefaultMaxLines bounds the in-memory history shown by the terminal.
const DefaultMaxLines = 500

// Options configures New. An empty Path keeps logs in memory only.
type Options struct {
	Path     string
	Level    string // zap level name: debug, info, warn, error
	MaxLines int
}

// Logger is the engine log. Structured entries go to a JSON file through zap; the same
// entries are kept as short console lines for the in-game terminal.
type Logger struct {
	mu    sync.Mutex
	lines []string
	max   int

	z    *zap.Logger
	file *os.File
}

// New builds the logger and ensures the log directory exists.
func New(opts Options) (*Logger, error) {
	level := zap.NewAtomicLevel()
	if opts.Level != "" {
		lvl, err := zap.ParseAtomicLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		level = lvl
	}
	l := &Logger{max: opts.MaxLines}
	if l.max <= 0 {
		l.max = DefaultMaxLines
	}

	lineCfg := zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		EncodeTime:       zapcore.TimeEncoderOfLayout("15:04:05"),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(lineCfg), zapcore.AddSync(lineWriter{l}), level),
	}

	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		f, err := os.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		l.file = f
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		fileCfg.EncodeDuration = zapcore.StringDurationEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(f), level))
	}

	l.z = zap.New(zapcore.NewTee(cores...))
	return l, nil
}

// Zap returns the structured logger for packages that take a *zap.Logger.
func (l *Logger) Zap() *zap.Logger { return l.z }

// Log records a plain console line, e.g. what the user typed into the terminal.
func (l *Logger) Log(line string) {
	l.z.Info(line)
}

// Lines returns a copy of the stored console lines, oldest first.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	_ = l.z.Sync()
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) append(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
	if over := len(l.lines) - l.max; over > 0 {
		l.lines = append(l.lines[:0], l.lines[over:]...)
	}
}

// lineWriter receives encoded console entries, one per Write.
type lineWriter struct{ l *Logger }

func (w lineWriter) Write(p []byte) (int, error) {
	w.l.append(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
