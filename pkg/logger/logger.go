// Package logger provides leveled, colorized loggers for the server and client
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// LogLevel represents the severity of a log line
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// String returns the level name as printed in log lines
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name to a LogLevel, falling back to INFO
func ParseLevel(name string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

var levelColors = map[LogLevel]*color.Color{
	DEBUG: color.New(color.FgHiBlack),
	INFO:  color.New(color.FgCyan),
	WARN:  color.New(color.FgYellow),
	ERROR: color.New(color.FgRed, color.Bold),
}

// Logger writes leveled lines to the console and optionally to a file
type Logger struct {
	name    string
	level   LogLevel
	console io.Writer
	file    io.WriteCloser
	exit    func(int)
	mu      sync.Mutex
}

// Shared loggers, one per component
var (
	Server = New("SERVER")
	Client = New("CLIENT")
	Game   = New("GAME")
)

var registry = []*Logger{Server, Client, Game}

// New creates a logger writing to stdout at INFO level
func New(name string) *Logger {
	return &Logger{
		name:    name,
		level:   INFO,
		console: color.Output,
		exit:    os.Exit,
	}
}

// SetGlobalLogLevel sets the level on every shared logger
func SetGlobalLogLevel(level LogLevel) {
	for _, l := range registry {
		l.SetLevel(level)
	}
}

// InitializeFileLogging points every shared logger at <dir>/<name>.log
func InitializeFileLogging(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	for _, l := range registry {
		path := filepath.Join(dir, strings.ToLower(l.name)+".log")
		if err := l.SetFile(path); err != nil {
			return err
		}
	}
	return nil
}

// CloseAll releases the log files of every shared logger
func CloseAll() error {
	var errs []error
	for _, l := range registry {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetLevel changes the minimum level written by this logger
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput replaces the console writer
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = w
}

// SetFile appends log lines to the given file in addition to the console
func (l *Logger) SetFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
	}
	l.file = f
	return nil
}

// Close releases the log file, if any
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *Logger) Debug(format string, args ...interface{}) { l.log(DEBUG, format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.log(INFO, format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.log(WARN, format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.log(ERROR, format, args...) }

// Fatal logs at ERROR, closes the shared log files and exits the process
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
	CloseAll()
	l.exit(1)
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	line := fmt.Sprintf("[%s] [%s] [%s] %s\n",
		time.Now().Format("2006-01-02 15:04:05"), l.name, level, fmt.Sprintf(format, args...))

	if l.console != nil {
		levelColors[level].Fprint(l.console, line)
	}
	if l.file != nil {
		io.WriteString(l.file, line)
	}
}
