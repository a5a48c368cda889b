package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"tg-reminder/internal/config"
)

// log levels in increasing severity
const (
	levelDebug = iota
	levelInfo
	levelWarning
	levelError
)

var currentLevel = levelInfo

// createLogFilePath generates a log file path with the current date
func createLogFilePath(logDir, prefix string) string {
	currentDate := time.Now().Format("2006-01-02")
	return filepath.Join(logDir, fmt.Sprintf("%s-%s.log", prefix, currentDate))
}

// createRotatingLogger creates a lumberjack rotating logger
func createRotatingLogger(logFilePath string, cfg *config.Config) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    cfg.Logger.Rotation.MaxSize,
		MaxBackups: cfg.Logger.Rotation.MaxBackups,
		MaxAge:     cfg.Logger.Rotation.MaxAge,
		Compress:   cfg.Logger.Rotation.Compress,
	}
}

// createMultiWriter creates a writer that outputs to both stdout and log file
func createMultiWriter(rotatingLogger io.Writer) io.Writer {
	return io.MultiWriter(os.Stdout, rotatingLogger)
}

// Setup configures logging to output to both stdout and a rotating log file
func Setup(cfg *config.Config) error {
	logDir := cfg.Logger.Directory

	// Create log directory if it doesn't exist
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	currentLevel = parseLevel(cfg.Logger.Level)

	logFilePath := createLogFilePath(logDir, "tg-reminder")
	rotatingLogger := createRotatingLogger(logFilePath, cfg)
	multiWriter := createMultiWriter(rotatingLogger)

	// Set standard logger output to the multi-writer
	log.SetOutput(multiWriter)

	// Set log flags to include date, time, and file information
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Printf("Logging initialized: writing to %s", logFilePath)
	return nil
}

// GetRotatingLogWriter returns a rotating log writer for custom loggers
func GetRotatingLogWriter(cfg *config.Config, prefix string) io.Writer {
	logFilePath := createLogFilePath(cfg.Logger.Directory, prefix)
	rotatingLogger := createRotatingLogger(logFilePath, cfg)
	return createMultiWriter(rotatingLogger)
}

func parseLevel(level string) int {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return levelDebug
	case "INFO":
		return levelInfo
	case "WARNING", "WARN":
		return levelWarning
	case "ERROR":
		return levelError
	default:
		return levelInfo
	}
}

func output(level int, prefix, format string, args ...interface{}) {
	if level < currentLevel {
		return
	}
	// depth 3: output -> leveled helper -> caller
	log.Output(3, prefix+fmt.Sprintf(format, args...))
}

// Debugf logs a debug-level message
func Debugf(format string, args ...interface{}) {
	output(levelDebug, "[DEBUG] ", format, args...)
}

// Infof logs an info-level message
func Infof(format string, args ...interface{}) {
	output(levelInfo, "[INFO] ", format, args...)
}

// Warningf logs a warning-level message
func Warningf(format string, args ...interface{}) {
	output(levelWarning, "[WARNING] ", format, args...)
}

// Errorf logs an error-level message
func Errorf(format string, args ...interface{}) {
	output(levelError, "[ERROR] ", format, args...)
}

// Error logs an error-level message without formatting
func Error(args ...interface{}) {
	if levelError < currentLevel {
		return
	}
	log.Output(2, "[ERROR] "+fmt.Sprint(args...))
}
