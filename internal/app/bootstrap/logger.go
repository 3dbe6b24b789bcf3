// internal/app/bootstrap/logger.go
package bootstrap

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the zap logger for the configured environment:
// console-friendly development output by default, JSON in production.
// An unparseable level name falls back to the environment's default.
func NewLogger(cfg Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Env == "production" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.LogLevel != "" {
		if lvl, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
			zcfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}
	return zcfg.Build()
}
