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

// Package fatal defines the single error value the engine uses for
// unrecoverable conditions (§7): configuration errors, resource errors, and
// invariant violations inside the hot loop. Recoverable numeric diagnostics
// (the dust-grid "no exit point" nudge) are logged through internal/xlog
// instead and never become a FatalError.
package fatal

import (
	"fmt"
	"runtime"
	"strings"
)

// Error is a structured fatal-error value: a multi-line message, the source
// location it was raised from, and a captured stack snapshot. It is returned
// as a normal Go error up to the nearest boundary (a farm task or main) per
// §7/§9 — the photon loop never panics to signal one.
type Error struct {
	Messages []string
	File     string
	Line     int
	Stack    string
}

// New captures the caller's location and a stack snapshot and builds an
// Error from the given message lines.
func New(messages ...string) *Error {
	_, file, line, _ := runtime.Caller(1)
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	return &Error{
		Messages: messages,
		File:     file,
		Line:     line,
		Stack:    string(buf[:n]),
	}
}

// Wrap builds an Error whose message list is messages followed by err's
// message. Only err's text is kept; err itself is not retained, so it is
// not reachable through errors.Unwrap.
func Wrap(err error, messages ...string) *Error {
	_, file, line, _ := runtime.Caller(1)
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	all := append(append([]string{}, messages...), err.Error())
	return &Error{
		Messages: all,
		File:     file,
		Line:     line,
		Stack:    string(buf[:n]),
	}
}

// Error implements the error interface with the multi-line message and
// source location; the stack is available separately via Stack for the log
// writer to append to the log file (§7 "full stack written to the log
// file").
func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, strings.Join(e.Messages, "; "))
}
