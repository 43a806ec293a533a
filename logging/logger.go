package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/grovetools/sessionlog/config"
	"github.com/grovetools/sessionlog/pkg/paths"
	"github.com/grovetools/sessionlog/util/pathutil"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex

	// levelOverride and jsonOverride are set from CLI flags and win over
	// environment and config.
	levelOverride *logrus.Level
	jsonOverride  bool
)

// SetGlobalLevel forces the level of every existing and future logger.
func SetGlobalLevel(level logrus.Level) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	levelOverride = &level
	for _, entry := range loggers {
		entry.Logger.SetLevel(level)
	}
}

// UseJSON switches every existing and future logger to JSON output.
func UseJSON() {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	jsonOverride = true
	for _, entry := range loggers {
		entry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}
}

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()

	var logCfg Config
	if cfg, err := config.LoadDefault(); err == nil {
		if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
			// Log a warning if parsing fails, but continue with defaults
			logrus.Warnf("Failed to parse 'logging' config: %v", err)
		}
	}

	// Configure Level
	levelStr := "info"
	if os.Getenv("SESSIONLOG_LOG_LEVEL") != "" {
		levelStr = os.Getenv("SESSIONLOG_LOG_LEVEL")
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	if levelOverride != nil {
		level = *levelOverride
	}
	logger.SetLevel(level)

	if os.Getenv("SESSIONLOG_LOG_CALLER") == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	switch {
	case jsonOverride || logCfg.Format.Preset == "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case logCfg.Format.Preset == "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: logCfg.Format})
	}

	var writers []io.Writer

	// File sink, only when enabled
	if logCfg.File.Enabled {
		logFilePath := logCfg.File.Path
		if logFilePath != "" {
			if expanded, err := pathutil.Expand(logFilePath); err == nil {
				logFilePath = expanded
			}
		} else if dir := paths.LogDir(); dir != "" {
			dateStr := time.Now().Format("2006-01-02")
			logFilePath = filepath.Join(dir, fmt.Sprintf("%s-%s.log", component, dateStr))
		}
		if file, err := openLogFile(logFilePath); err == nil {
			writers = append(writers, file)
		} else {
			logger.Warnf("Failed to open log file %s: %v", logFilePath, err)
		}
	}

	shouldLogToStderr := false
	stderrMode := "auto"
	if logCfg.Format.StructuredToStderr != "" {
		stderrMode = logCfg.Format.StructuredToStderr
	}

	switch stderrMode {
	case "always":
		shouldLogToStderr = true
	case "never":
		shouldLogToStderr = false
	default:
		// Interactive terminals only see structured logs in debug mode;
		// pipes and CI always get them.
		isDebug := os.Getenv("SESSIONLOG_DEBUG") == "1" || logger.GetLevel() >= logrus.DebugLevel
		isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		if isDebug || !isInteractive {
			shouldLogToStderr = true
		}
	}

	if shouldLogToStderr {
		writers = append(writers, GetGlobalOutput())
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, fmt.Errorf("no log file path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
