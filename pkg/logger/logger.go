package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Level уровень логирования
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel парсит уровень логирования из строки конфига
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger простой уровневый логгер поверх стандартного log.Logger
// Пишет в файл, если путь задан, иначе в stdout
type Logger struct {
	level Level
	out   *log.Logger
	file  *os.File
}

// New создает логгер. filePath == "" означает вывод в stdout
func New(filePath string, level string) (*Logger, error) {
	var (
		w io.Writer = os.Stdout
		f *os.File
	)

	if filePath != "" {
		if dir := filepath.Dir(filePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("logger: failed to create log directory %s: %w", dir, err)
			}
		}
		var err error
		f, err = os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logger: failed to open log file %s: %w", filePath, err)
		}
		w = io.MultiWriter(os.Stdout, f)
	}

	return &Logger{
		level: ParseLevel(level),
		out:   log.New(w, "", log.LstdFlags|log.Lmicroseconds),
		file:  f,
	}, nil
}

// Close закрывает файл логов, если он был открыт
func (l *Logger) Close() {
	if l.file != nil {
		_ = l.file.Close()
	}
}

func (l *Logger) logf(lvl Level, prefix, format string, v ...interface{}) {
	if lvl < l.level {
		return
	}
	l.out.Printf(prefix+" "+format, v...)
}

// Debug пишет отладочное сообщение
func (l *Logger) Debug(format string, v ...interface{}) {
	l.logf(LevelDebug, "[DEBUG]", format, v...)
}

// Info пишет информационное сообщение
func (l *Logger) Info(format string, v ...interface{}) {
	l.logf(LevelInfo, "[INFO]", format, v...)
}

// Warn пишет предупреждение
func (l *Logger) Warn(format string, v ...interface{}) {
	l.logf(LevelWarn, "[WARN]", format, v...)
}

// Error пишет сообщение об ошибке
func (l *Logger) Error(format string, v ...interface{}) {
	l.logf(LevelError, "[ERROR]", format, v...)
}

// Fatal пишет сообщение об ошибке и завершает процесс
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.out.Printf("[FATAL] "+format, v...)
	l.Close()
	os.Exit(1)
}
