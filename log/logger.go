// Package log hands every engine package a named go-logging module logger
// writing through one shared, leveled backend.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/op/go-logging"
)

// Level is the verbosity threshold for module loggers.
type Level int

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var backendLevels = map[Level]logging.Level{
	Debug:   logging.DEBUG,
	Info:    logging.INFO,
	Notice:  logging.NOTICE,
	Warning: logging.WARNING,
	Error:   logging.ERROR,
}

var levelNames = map[string]Level{
	"debug":   Debug,
	"info":    Info,
	"notice":  Notice,
	"warning": Warning,
	"error":   Error,
}

// ParseLevel maps a case-insensitive level name to a Level.
//
// Parameters:
//   - name: one of debug, info, notice, warning, error
//
// Returns:
//   - Level: the parsed level
//   - error: an error if the name is unknown
func ParseLevel(name string) (Level, error) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Notice, fmt.Errorf("unknown log level %q", name)
	}
	return l, nil
}

// Records carry the wall clock, the emitting module and a fixed-width level tag
// so interleaved driver, renderer and profiler lines stay aligned.
var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{level:.4s} %{module:-10s}%{color:reset} %{message}`,
)

var (
	mu      sync.Mutex
	backend logging.LeveledBackend
	// overrides survive SetSink so a quieted module stays quiet.
	overrides = map[string]Level{}
	global    = Notice
)

// Logger is the leveled interface engine components log through.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns the logger for a module. Loggers are cheap and usually held in a
// package-level var.
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink sends all module output to sink. The current levels carry over.
//
// Parameters:
//   - sink: the destination writer
func SetSink(sink io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	formatted := logging.NewBackendFormatter(logging.NewLogBackend(sink, "", 0), format)
	backend = logging.AddModuleLevel(formatted)
	applyLevels()
	logging.SetBackend(backend)
}

// SetLevel sets the threshold for every module without an override.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	global = level
	applyLevels()
}

// SetModuleLevel overrides the threshold of one module, for example to keep
// the per-sample renderer debug output out of a -vv session.
//
// Parameters:
//   - module: the name passed to New
//   - level: the module's threshold
func SetModuleLevel(module string, level Level) {
	mu.Lock()
	defer mu.Unlock()
	overrides[module] = level
	applyLevels()
}

func applyLevels() {
	backend.SetLevel(backendLevels[global], "")
	for module, level := range overrides {
		backend.SetLevel(backendLevels[level], module)
	}
}

func init() {
	SetSink(os.Stdout)
}
