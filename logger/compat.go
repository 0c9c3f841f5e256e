/***********************************************************************************************************************
 *
 *   MIT License
 *
 *   Copyright (c) 2021 Nicolas JUHEL
 *
 *   Permission is hereby granted, free of charge, to any person obtaining a copy
 *   of this software and associated documentation files (the "Software"), to deal
 *   in the Software without restriction, including without limitation the rights
 *   to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *   copies of the Software, and to permit persons to whom the Software is
 *   furnished to do so, subject to the following conditions:
 *
 *   The above copyright notice and this permission notice shall be included in all
 *   copies or substantial portions of the Software.
 *
 *   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *   AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *   LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *   OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *   SOFTWARE.
 *
 *
 **********************************************************************************************************************/

package logger

import (
	"context"
	"fmt"
	"log"

	loglvl "github.com/nabbar/preforkd/logger/level"
)

// Level re-exports the level package's type so callers that only import the
// logger package can keep writing logger.InfoLevel, logger.ErrorLevel, ...
type Level = loglvl.Level

const (
	PanicLevel = loglvl.PanicLevel
	FatalLevel = loglvl.FatalLevel
	ErrorLevel = loglvl.ErrorLevel
	WarnLevel  = loglvl.WarnLevel
	InfoLevel  = loglvl.InfoLevel
	DebugLevel = loglvl.DebugLevel
	NilLevel   = loglvl.NilLevel
)

// @deprecated: only for retro compatibility, use New(ctx) and keep the instance.
var defaultLogger Logger

func init() {
	defaultLogger = New(context.Background())
	defaultLogger.SetLevel(InfoLevel)
}

// GetDefault return the default process-wide logger instance.
// @deprecated: create a logger and keep the instance instead.
func GetDefault() Logger {
	return defaultLogger
}

// Log logs message on the default logger at the given level.
// @deprecated: create a logger and call LogDetails or Entry instead.
func Log(lvl Level, message string) {
	defaultLogger.LogDetails(lvl, message, nil, nil, nil)
}

// Logf logs a formatted message on the default logger at the given level.
// @deprecated: create a logger and call LogDetails or Entry instead.
func Logf(lvl Level, format string, args ...interface{}) {
	defaultLogger.LogDetails(lvl, fmt.Sprintf(format, args...), nil, nil, nil)
}

// LogErrorCtxf logs err at lvlKO with a formatted context, or lvlOK if err is nil.
// Returns true when err was not nil.
// @deprecated: create a logger and call CheckError or Entry.Check instead.
func LogErrorCtxf(lvlKO, lvlOK Level, contextPattern string, err error, args ...interface{}) bool {
	return defaultLogger.Entry(lvlKO, contextPattern, args...).ErrorAdd(true, err).Check(lvlOK)
}

// GetLogger returns a standard library *log.Logger writing through the default
// logger at the given level, with a prefix built from pattern/args.
// @deprecated: create a logger and call GetStdLogger instead.
func GetLogger(lvl Level, logFlags int, pattern string, args ...interface{}) *log.Logger {
	defaultLogger.SetIOWriterLevel(lvl)
	return log.New(defaultLogger, fmt.Sprintf(pattern, args...), logFlags)
}
