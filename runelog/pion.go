// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package runelog

import (
	"github.com/pion/logging"
	"go.uber.org/zap"
)

// LoggerFactory hands the pion stack (ice agents, stun) loggers that write
// through r, one named child per pion scope.
func (r *Runelog) LoggerFactory() logging.LoggerFactory {
	return pionFactory{base: r.Logger}
}

type pionFactory struct {
	base *zap.SugaredLogger
}

func (f pionFactory) NewLogger(scope string) logging.LeveledLogger {
	return pionLogger{l: f.base.Named(scope)}
}

// pion's trace level has no zap counterpart and is folded into debug.
type pionLogger struct {
	l *zap.SugaredLogger
}

func (p pionLogger) Trace(msg string)                          { p.l.Debug(msg) }
func (p pionLogger) Tracef(format string, args ...interface{}) { p.l.Debugf(format, args...) }
func (p pionLogger) Debug(msg string)                          { p.l.Debug(msg) }
func (p pionLogger) Debugf(format string, args ...interface{}) { p.l.Debugf(format, args...) }
func (p pionLogger) Info(msg string)                           { p.l.Info(msg) }
func (p pionLogger) Infof(format string, args ...interface{})  { p.l.Infof(format, args...) }
func (p pionLogger) Warn(msg string)                           { p.l.Warn(msg) }
func (p pionLogger) Warnf(format string, args ...interface{})  { p.l.Warnf(format, args...) }
func (p pionLogger) Error(msg string)                          { p.l.Error(msg) }
func (p pionLogger) Errorf(format string, args ...interface{}) { p.l.Errorf(format, args...) }
