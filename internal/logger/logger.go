package logger

import (
	"io"
	"log"
	"os"
)

var (
	Info    *log.Logger
	Warn    *log.Logger
	Debug   *log.Logger
	Verbose *log.Logger
	Error   *log.Logger
	Always  *log.Logger // Always logs to file regardless of log level

	// Current log level for filtering
	currentLogLevel string

	logFile *os.File
)

// Loggers discard everything until one of the Init functions runs
func init() {
	setWriters(io.Discard, io.Discard)
}

func Init() error {
	return InitWithLevel("info")
}

func InitWithLevel(logLevel string) error {
	return InitWithConfig(logLevel, "greektracker.log")
}

func InitWithConfig(logLevel, logFilePath string) error {
	// Open log file
	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return err
	}

	InitWithWriter(logLevel, file)
	if logFile != nil {
		logFile.Close()
	}
	logFile = file
	return nil
}

// InitWithWriter routes all levels to w instead of a file; errors still go to stderr
func InitWithWriter(logLevel string, w io.Writer) {
	currentLogLevel = logLevel
	setWriters(w, io.MultiWriter(os.Stderr, w))
}

// Close releases the log file opened by InitWithConfig
func Close() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	setWriters(io.Discard, io.Discard)
	return err
}

func setWriters(w, errWriter io.Writer) {
	nullWriter := io.Discard

	Info = log.New(getWriter("info", w, nullWriter), "ℹ️  INFO: ", log.Ldate|log.Ltime)
	Warn = log.New(getWriter("warn", w, nullWriter), "⚠️  WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	Debug = log.New(getWriter("debug", w, nullWriter), "🐛 DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
	Verbose = log.New(getWriter("verbose", w, nullWriter), "🔍 VERBOSE: ", log.Ldate|log.Ltime|log.Lshortfile)
	Error = log.New(errWriter, "❌ ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	Always = log.New(w, "📝 ALWAYS: ", log.Ldate|log.Ltime) // Bypasses level filtering
}

// getWriter returns the appropriate writer based on log level
func getWriter(level string, activeWriter, disabledWriter io.Writer) io.Writer {
	if shouldLog(level) {
		return activeWriter
	}
	return disabledWriter
}

// shouldLog determines if a log level should be active
func shouldLog(level string) bool {
	levels := map[string]int{
		"error":   0,
		"warn":    1,
		"info":    2,
		"debug":   3,
		"verbose": 4,
	}

	currentLevel, exists := levels[currentLogLevel]
	if !exists {
		currentLevel = 2 // default to info
	}

	requiredLevel, exists := levels[level]
	if !exists {
		return false
	}

	return currentLevel >= requiredLevel
}
