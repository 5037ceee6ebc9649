// Package logging builds the zap logger used for operator logs.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/verte-zerg/pracviz/internal/model"
)

// Options selects where and how verbosely to log.
type Options struct {
	File    string
	Level   string
	Verbose bool
}

// New returns a file-backed production logger tagged with a session id.
// The terminal belongs to the dashboard, so without a file a no-op logger
// is returned.
func New(opts Options) (*zap.Logger, error) {
	if opts.File == "" {
		return zap.NewNop(), nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{opts.File}
	config.ErrorOutputPaths = []string{opts.File}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.With(zap.String("session", uuid.NewString())), nil
}

// Diagnostics mirrors user-facing diagnostics into the operator log.
func Diagnostics(logger *zap.Logger, diags []model.Diagnostic) {
	for _, d := range diags {
		fields := []zap.Field{
			zap.String("kind", string(d.Kind)),
			zap.String("source", d.Source),
		}
		switch d.Level {
		case model.LevelError:
			logger.Error(d.Message, fields...)
		case model.LevelWarning:
			logger.Warn(d.Message, fields...)
		default:
			logger.Info(d.Message, fields...)
		}
	}
}
