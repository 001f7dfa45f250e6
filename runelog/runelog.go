// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package runelog

import (
	"fmt"
	"net/url"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const (
	DebugLevelStr   string = "debug"
	InfoLevelStr    string = "info"
	WarningLevelStr string = "warning"
	ErrorLevelStr   string = "error"
)

const lumberjackScheme = "lumberjack"

var (
	sinkOnce sync.Once
	sinkErr  error

	// rotating files keyed by path, shared by every logger writing there
	sinksMu sync.Mutex
	sinks   = map[string]*lumberjack.Logger{}
)

type Runelog struct {
	Logger *zap.SugaredLogger
}

// NewRunelog builds a logger named name and installs it as zap's global
// logger, so packages logging through zap.S() (the address helpers among
// them) write to the same place. An empty logFile logs to stderr only.
func NewRunelog(name string, logLevel string, logFile string, dev bool) (*Runelog, error) {
	l, err := initRunelog(logLevel, logFile, dev)
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(l)

	return &Runelog{
		Logger: l.Named(name).Sugar(),
	}, nil
}

func ParseLevel(logLevel string) (zapcore.Level, error) {
	switch logLevel {
	case DebugLevelStr:
		return zap.DebugLevel, nil
	case InfoLevelStr:
		return zap.InfoLevel, nil
	case WarningLevelStr:
		return zap.WarnLevel, nil
	case ErrorLevelStr:
		return zap.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %s", logLevel)
	}
}

func initRunelog(logLevel string, logFile string, dev bool) (*zap.Logger, error) {
	level, err := ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}

	outputs := []string{"stderr"}
	if logFile != "" {
		if err := registerSink(); err != nil {
			return nil, err
		}
		outputs = append(outputs, fmt.Sprintf("%s:%s", lumberjackScheme, logFile))
	}

	loggerConfig := zap.Config{
		Level:         zap.NewAtomicLevelAt(level),
		Development:   dev,
		Encoding:      "console",
		EncoderConfig: encoderConfig,
		OutputPaths:   outputs,
	}

	builded, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger from config error: %w", err)
	}

	return builded, nil
}

// zap refuses to register a scheme twice, so the sink is registered once
// and resolves the file from the URL on every open.
func registerSink() error {
	sinkOnce.Do(func() {
		sinkErr = zap.RegisterSink(lumberjackScheme, func(u *url.URL) (zap.Sink, error) {
			return lumberjackSink{Logger: sinkFor(u.Opaque + u.Path)}, nil
		})
	})
	return sinkErr
}

func sinkFor(path string) *lumberjack.Logger {
	sinksMu.Lock()
	defer sinksMu.Unlock()

	if l, ok := sinks[path]; ok {
		return l
	}
	l := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100, //MB
		MaxBackups: 10,
		MaxAge:     30, //days
		Compress:   true,
	}
	sinks[path] = l
	return l
}

type lumberjackSink struct {
	*lumberjack.Logger
}

func (lumberjackSink) Sync() error {
	return nil
}
