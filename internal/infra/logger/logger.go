// Package logger builds the zap loggers for the LinkShelf API server and linkctl.
package logger

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/sifan077/LinkShelf/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

const (
	encodingJSON    = "json"
	encodingConsole = "console"

	defaultCLILevel = "warn"
)

// Config drives how a logger is built.
type Config struct {
	Development bool
	Level       string
	Encoding    string
	// Service names the process; console output prefixes it, JSON output
	// carries it as a field.
	Service string
	// Stderr sends entries to stderr instead of stdout.
	Stderr bool
	// Quiet drops caller and stacktrace annotations.
	Quiet bool
}

// FromConfig derives the API server's logger settings. A nil cfg (config
// failed to load) falls back to APP_ENV and LOG_LEVEL so the failure itself
// can still be logged.
func FromConfig(cfg *config.Config, service string) Config {
	if cfg == nil {
		app := config.AppConfig{Env: os.Getenv("APP_ENV")}
		return Config{
			Development: !app.IsProduction(),
			Level:       os.Getenv("LOG_LEVEL"),
			Service:     service,
		}
	}
	return Config{
		Development: !cfg.App.IsProduction(),
		Level:       cfg.Log.Level,
		Encoding:    cfg.Log.Encoding,
		Service:     service,
	}
}

// ForCLI returns settings for linkctl: human-readable lines on stderr, so
// command output on stdout stays clean, at warn unless level says otherwise.
func ForCLI(level string) Config {
	if strings.TrimSpace(level) == "" {
		level = defaultCLILevel
	}
	return Config{
		Development: true,
		Level:       level,
		Encoding:    encodingConsole,
		Service:     "linkctl",
		Stderr:      true,
		Quiet:       true,
	}
}

// New builds a zap.Logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	if cfg.Encoding != "" {
		zapCfg.Encoding = cfg.Encoding
	}
	if zapCfg.Encoding != encodingJSON && zapCfg.Encoding != encodingConsole {
		return nil, fmt.Errorf("logger: unsupported encoding %q", zapCfg.Encoding)
	}

	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
		if err != nil {
			return nil, fmt.Errorf("logger: invalid level %q: %w", cfg.Level, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	out, sink := os.Stdout, "stdout"
	if cfg.Stderr {
		out, sink = os.Stderr, "stderr"
	}
	zapCfg.OutputPaths = []string{sink}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	zapCfg.EncoderConfig = encoderConfig(zapCfg.Encoding, isTerminal(out))

	var opts []zap.Option
	if cfg.Quiet {
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	} else {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	l, err := zapCfg.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("logger: build: %w", err)
	}
	if cfg.Service == "" {
		return l, nil
	}
	if zapCfg.Encoding == encodingConsole {
		return l.Named(cfg.Service), nil
	}
	return l.With(zap.String("service", cfg.Service)), nil
}

// Must is New that panics; for use in main before anything else can report.
func Must(cfg Config) *zap.Logger {
	l, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return l
}

// Sync flushes l, ignoring the errors a terminal or closed pipe returns.
func Sync(l *zap.Logger) error {
	if l == nil {
		return nil
	}
	err := l.Sync()
	if err == nil || errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, os.ErrInvalid) {
		return nil
	}
	return err
}

func encoderConfig(encoding string, colored bool) zapcore.EncoderConfig {
	if encoding == encodingJSON {
		enc := zap.NewProductionEncoderConfig()
		enc.TimeKey = "time"
		enc.StacktraceKey = "stack"
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
		enc.EncodeDuration = zapcore.StringDurationEncoder
		return enc
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.ConsoleSeparator = "  "
	enc.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly + ".000")
	enc.EncodeDuration = zapcore.StringDurationEncoder
	enc.EncodeLevel = levelEncoder(colored)
	return enc
}

var levelColors = map[zapcore.Level]string{
	zapcore.DebugLevel:  "\x1b[36m",
	zapcore.InfoLevel:   "\x1b[32m",
	zapcore.WarnLevel:   "\x1b[33m",
	zapcore.ErrorLevel:  "\x1b[31m",
	zapcore.DPanicLevel: "\x1b[35m",
	zapcore.PanicLevel:  "\x1b[35m",
	zapcore.FatalLevel:  "\x1b[31m",
}

// levelEncoder pads the level to a fixed width and colours it on terminals.
func levelEncoder(colored bool) zapcore.LevelEncoder {
	return func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		label := fmt.Sprintf("%-5s", level.CapitalString())
		if color, ok := levelColors[level]; ok && colored {
			label = color + label + "\x1b[0m"
		}
		enc.AppendString(label)
	}
}

func isTerminal(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
