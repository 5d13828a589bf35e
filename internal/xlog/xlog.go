/*
Copyright © 2026 the skirt authors.
This file is part of skirt.

skirt is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

skirt is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with skirt.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package xlog is the process-wide logger (§5 "Console/log: single mutex
// across all threads; log level filtering happens before the lock is
// taken"). It wraps a single logrus.Logger instance behind a mutex so many
// photon-loop worker threads can log diagnostics without interleaving
// output, mirroring the logrus usage in cmd/inmapweb/main.go and
// emissions/slca's server code.
package xlog

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/skirtgo/skirt/internal/fatal"
)

var (
	mu  sync.Mutex
	log = newLogger()
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	l.Level = logrus.InfoLevel
	return l
}

// Brief switches the logger to only emit warnings and errors, matching the
// `-b` brief-log flag of the run CLI (§6).
func Brief(brief bool) {
	mu.Lock()
	defer mu.Unlock()
	if brief {
		log.Level = logrus.WarnLevel
	} else {
		log.Level = logrus.InfoLevel
	}
}

// Infof logs an informational line. Level is checked before the mutex is
// taken so that a disabled level costs nothing beyond the check.
func Infof(format string, args ...interface{}) {
	if !log.IsLevelEnabled(logrus.InfoLevel) {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	log.Infof(format, args...)
}

// Warnf logs a recoverable numeric diagnostic (§7): the grid's "no exit
// point found" nudge, an unsupported allele inverse, and similar.
func Warnf(format string, args ...interface{}) {
	if !log.IsLevelEnabled(logrus.WarnLevel) {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	log.Warnf(format, args...)
}

// Fatal logs a *fatal.Error with its full stack and returns it unchanged, so
// callers can both log and propagate in one expression:
// `return xlog.Fatal(fatal.New("..."))`.
func Fatal(err *fatal.Error) *fatal.Error {
	mu.Lock()
	defer mu.Unlock()
	log.WithField("stack", err.Stack).Error(err.Error())
	return err
}
