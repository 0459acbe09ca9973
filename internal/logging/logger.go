// Package logging provides config-driven categorized file-based logging
// for xproblog. Logs are written to .xproblog/logs/ with separate files
// per category. Logging is controlled by the debug flag passed to
// Configure (the loaded config's logging.debug setting).
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category/subsystem.
type Category string

const (
	CategoryBoot    Category = "boot"    // CLI boot/initialization
	CategoryRewrite Category = "rewrite" // KB tokenizing/parsing/rewriting
	CategoryTrace   Category = "trace"   // trace-stream parsing
	CategoryTree    Category = "tree"    // proof-tree construction
	CategoryEngine  Category = "engine"  // inference-engine subprocess
)

// loggingConfig mirrors the relevant parts of config.LoggingConfig.
type loggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories"`
	Level      string          `json:"level"`
	JSONFormat bool            `json:"json_format"`
}

// StructuredLogEntry is a JSON log entry.
type StructuredLogEntry struct {
	Timestamp int64                  `json:"ts"`
	Category  string                 `json:"cat"`
	Level     string                 `json:"lvl"`
	Message   string                 `json:"msg"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger wraps a standard logger with category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers      = make(map[Category]*Logger)
	loggersMu    sync.RWMutex
	logsDir      string
	workspace    string
	cfg          loggingConfig
	configLoaded bool
	configMu     sync.RWMutex
	logLevel     int
)

const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Configure installs the active logging config. Called once at startup
// after the config file has been loaded, so that logging.Initialize does
// not need to know how to read YAML itself.
func Configure(debugMode bool, categories map[string]bool, level string, jsonFormat bool) {
	configMu.Lock()
	defer configMu.Unlock()
	cfg = loggingConfig{DebugMode: debugMode, Categories: categories, Level: level, JSONFormat: jsonFormat}
	configLoaded = true
	switch level {
	case "debug":
		logLevel = LevelDebug
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
}

// Initialize sets up the logging directory for the given workspace. Must
// be called after Configure (or with defaults, which means disabled).
func Initialize(ws string) error {
	if ws == "" {
		return fmt.Errorf("workspace path required")
	}
	workspace = ws
	logsDir = filepath.Join(workspace, ".xproblog", "logs")

	configMu.RLock()
	debug := cfg.DebugMode
	configMu.RUnlock()
	if !debug {
		return nil // silent no-op in production mode
	}

	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== xproblog logging initialized ===")
	boot.Info("workspace: %s", workspace)
	return nil
}

// IsDebugMode returns whether debug logging is enabled.
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return cfg.DebugMode
}

// IsCategoryEnabled returns whether a specific category is enabled.
func IsCategoryEnabled(category Category) bool {
	configMu.RLock()
	defer configMu.RUnlock()
	if !cfg.DebugMode {
		return false
	}
	if cfg.Categories == nil {
		return true
	}
	enabled, exists := cfg.Categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns (or creates) a logger for the given category. Returns a
// no-op logger if debug mode or the category is disabled.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

func (l *Logger) logJSON(level, msg string) {
	entry := StructuredLogEntry{Timestamp: time.Now().UnixMilli(), Category: string(l.category), Level: level, Message: msg}
	data, err := json.Marshal(entry)
	if err != nil {
		l.logger.Printf("[%s] %s", level, msg)
		return
	}
	l.logger.Printf("%s", data)
}

func (l *Logger) write(level string, levelNum int, format string, args ...interface{}) {
	if l.logger == nil || logLevel > levelNum {
		return
	}
	msg := fmt.Sprintf(format, args...)
	configMu.RLock()
	jsonFormat := cfg.JSONFormat
	configMu.RUnlock()
	if jsonFormat {
		l.logJSON(level, msg)
		return
	}
	l.logger.Printf("[%s] %s", level, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) { l.write("DEBUG", LevelDebug, format, args...) }

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) { l.write("INFO", LevelInfo, format, args...) }

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) { l.write("WARN", LevelWarn, format, args...) }

// Error always logs, regardless of level.
func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	configMu.RLock()
	jsonFormat := cfg.JSONFormat
	configMu.RUnlock()
	if jsonFormat {
		l.logJSON("ERROR", msg)
		return
	}
	l.logger.Printf("[ERROR] %s", msg)
}

// CloseAll closes all open log files. Call at shutdown.
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// Boot logs to the boot category.
func Boot(format string, args ...interface{}) { Get(CategoryBoot).Info(format, args...) }

// BootError logs an error to the boot category.
func BootError(format string, args ...interface{}) { Get(CategoryBoot).Error(format, args...) }

// BootDebug logs debug to the boot category.
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debug(format, args...) }

// Rewrite logs to the rewrite category.
func Rewrite(format string, args ...interface{}) { Get(CategoryRewrite).Info(format, args...) }

// RewriteDebug logs debug to the rewrite category.
func RewriteDebug(format string, args ...interface{}) { Get(CategoryRewrite).Debug(format, args...) }

// Trace logs to the trace category.
func Trace(format string, args ...interface{}) { Get(CategoryTrace).Info(format, args...) }

// TraceDebug logs debug to the trace category.
func TraceDebug(format string, args ...interface{}) { Get(CategoryTrace).Debug(format, args...) }

// Tree logs to the tree category.
func Tree(format string, args ...interface{}) { Get(CategoryTree).Info(format, args...) }

// TreeDebug logs debug to the tree category.
func TreeDebug(format string, args ...interface{}) { Get(CategoryTree).Debug(format, args...) }

// Engine logs to the engine category.
func Engine(format string, args ...interface{}) { Get(CategoryEngine).Info(format, args...) }

// EngineDebug logs debug to the engine category.
func EngineDebug(format string, args ...interface{}) { Get(CategoryEngine).Debug(format, args...) }

// EngineWarn logs a warning to the engine category.
func EngineWarn(format string, args ...interface{}) { Get(CategoryEngine).Warn(format, args...) }

// EngineError logs an error to the engine category.
func EngineError(format string, args ...interface{}) { Get(CategoryEngine).Error(format, args...) }

// Timer helps measure operation duration.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}
