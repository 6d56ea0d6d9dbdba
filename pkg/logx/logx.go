package logx

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync/atomic"
)

// ============================================================================
// Leveled logger - thin wrapper over the standard library logger
// ============================================================================

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	currentLevel atomic.Int32
	std          = log.New(os.Stdout, "", log.LstdFlags)
)

func init() {
	currentLevel.Store(int32(LevelInfo))
}

// SetLevel establece el nivel mínimo de log
func SetLevel(level Level) {
	currentLevel.Store(int32(level))
}

func enabled(level Level) bool {
	return int32(level) >= currentLevel.Load()
}

func output(level Level, prefix, msg string) {
	if !enabled(level) {
		return
	}
	std.Println(prefix + " " + msg)
}

func Debug(args ...any) { output(LevelDebug, "DEBUG", fmt.Sprint(args...)) }
func Info(args ...any)  { output(LevelInfo, "INFO", fmt.Sprint(args...)) }
func Warn(args ...any)  { output(LevelWarn, "WARN", fmt.Sprint(args...)) }
func Error(args ...any) { output(LevelError, "ERROR", fmt.Sprint(args...)) }

func Debugf(format string, args ...any) { output(LevelDebug, "DEBUG", fmt.Sprintf(format, args...)) }
func Infof(format string, args ...any)  { output(LevelInfo, "INFO", fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any)  { output(LevelWarn, "WARN", fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...any) { output(LevelError, "ERROR", fmt.Sprintf(format, args...)) }

// Fatal logs and exits
func Fatal(args ...any) {
	output(LevelError, "FATAL", fmt.Sprint(args...))
	os.Exit(1)
}

func Fatalf(format string, args ...any) {
	output(LevelError, "FATAL", fmt.Sprintf(format, args...))
	os.Exit(1)
}

// ============================================================================
// Structured fields
// ============================================================================

type Fields map[string]any

// Entry acarrea campos estructurados hasta la emisión del log
type Entry struct {
	fields Fields
}

// WithFields crea un entry con campos estructurados
func WithFields(fields Fields) *Entry {
	return &Entry{fields: fields}
}

func (e *Entry) format() string {
	if len(e.fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.fields[k]))
	}
	return " [" + strings.Join(parts, " ") + "]"
}

func (e *Entry) Debugf(format string, args ...any) {
	output(LevelDebug, "DEBUG", fmt.Sprintf(format, args...)+e.format())
}

func (e *Entry) Infof(format string, args ...any) {
	output(LevelInfo, "INFO", fmt.Sprintf(format, args...)+e.format())
}

func (e *Entry) Warnf(format string, args ...any) {
	output(LevelWarn, "WARN", fmt.Sprintf(format, args...)+e.format())
}

func (e *Entry) Errorf(format string, args ...any) {
	output(LevelError, "ERROR", fmt.Sprintf(format, args...)+e.format())
}
