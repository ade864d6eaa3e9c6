package common

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a production zap logger at the named level ("debug", "info", "warn",
// "error"). An empty level means info.
//
// Parameters:
//   - level: the minimum level to log
//
// Returns:
//   - *zap.Logger: the logger
//   - error: error if the level is unknown or the logger cannot be built
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(Coalesce(level, "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
