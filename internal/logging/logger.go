package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Logger is a duck-typed interface satisfied by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	mutex        sync.RWMutex
	globalConfig = Config{Level: "info", Format: "text"}
	output       io.Writer = os.Stderr
	useJournal   = IsJournalAvailable
	moduleLevels = make(map[string]*slog.LevelVar)
	modules      = make(map[string]*slog.Logger)
)

// Config represents logging configuration.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

// Initialize sets up the logging system and installs the default logger.
// Loggers handed out earlier are rebuilt with the new format.
func Initialize(config Config) {
	mutex.Lock()
	defer mutex.Unlock()

	globalConfig = config
	for module, levelVar := range moduleLevels {
		levelVar.Set(moduleLevel(config, module))
		modules[module] = slog.New(createHandler(config.Format, levelVar)).With("module", module)
	}

	globalLevel := &slog.LevelVar{}
	globalLevel.Set(moduleLevel(config, ""))
	slog.SetDefault(slog.New(createHandler(config.Format, globalLevel)))
}

// SetLevels applies the levels of config to every module logger without
// rebuilding handlers. Format changes need Initialize.
func SetLevels(config Config) {
	mutex.Lock()
	defer mutex.Unlock()

	globalConfig.Level = config.Level
	globalConfig.Modules = config.Modules
	for module, levelVar := range moduleLevels {
		levelVar.Set(moduleLevel(globalConfig, module))
	}
}

// SetOutput redirects text/json output, stderr by default. Stdout carries
// command results, so logs stay off it.
func SetOutput(w io.Writer) {
	mutex.Lock()
	defer mutex.Unlock()
	output = w
}

// GetLogger returns a logger for the specified module, creating it if needed.
func GetLogger(module string) *slog.Logger {
	mutex.RLock()
	logger, exists := modules[module]
	mutex.RUnlock()
	if exists {
		return logger
	}

	mutex.Lock()
	defer mutex.Unlock()

	if logger, exists := modules[module]; exists {
		return logger
	}

	levelVar := &slog.LevelVar{}
	levelVar.Set(moduleLevel(globalConfig, module))
	logger = slog.New(createHandler(globalConfig.Format, levelVar)).With("module", module)

	moduleLevels[module] = levelVar
	modules[module] = logger
	return logger
}

// moduleLevel resolves the level of module: its override, else the global
// level, else info.
func moduleLevel(config Config, module string) slog.Level {
	if levelStr, ok := config.Modules[module]; ok && module != "" {
		if parsed := parseLevel(levelStr); parsed != nil {
			return *parsed
		}
	}
	if parsed := parseLevel(config.Level); parsed != nil {
		return *parsed
	}
	return slog.LevelInfo
}

// createHandler writes to output and, when running under systemd, to the
// journal as well. Callers must hold mutex.
func createHandler(format string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	if useJournal() {
		return NewMultiHandler(handler, NewJournalHandler(level))
	}
	return handler
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) *slog.Level {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return nil
	}
	return &l
}
