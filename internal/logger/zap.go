// Package logger builds the zap logger shared by the server and the hit
// consumer.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	level  string
	output []string
}

type Option func(o *options)

// WithLevel sets the minimum level (debug, info, warn, error).
func WithLevel(lv string) Option {
	return func(o *options) {
		o.level = lv
	}
}

// WithOutput replaces the default stderr sink.
func WithOutput(paths ...string) Option {
	return func(o *options) {
		o.output = paths
	}
}

// New returns a JSON logger with ISO8601 timestamps.
func New(opts ...Option) (*zap.Logger, error) {
	o := options{
		level:  "info",
		output: []string{"stderr"},
	}
	for _, opt := range opts {
		opt(&o)
	}

	var lv zap.AtomicLevel
	if err := lv.UnmarshalText([]byte(o.level)); err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", o.level, err)
	}

	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	zc := zap.Config{
		DisableCaller:     true,
		DisableStacktrace: true,
		Level:             lv,
		Encoding:          "json",
		EncoderConfig:     enc,
		OutputPaths:       o.output,
		ErrorOutputPaths:  []string{"stderr"},
	}
	zl, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return zl, nil
}

// Must panics if err is non-nil.
func Must(zl *zap.Logger, err error) *zap.Logger {
	if err != nil {
		panic(err)
	}
	return zl
}
