/*
 * MIT License
 *
 * Copyright (c) 2023 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package viper wraps spf13/viper with the logger and config-reload
// conventions used across components: a single bound instance shared
// through a FuncViper accessor, with config-file and env var loading
// wired at construction time.
package viper

import (
	"context"

	liblog "github.com/nabbar/preforkd/logger"
	spfvpr "github.com/spf13/viper"
)

// FuncViper returns the process-wide Viper wrapper. Components receive it
// via Init so they can bind flags and read configuration.
type FuncViper func() Viper

// Viper exposes the underlying spf13/viper instance plus the config-file
// load/reload helpers components and the CLI need.
type Viper interface {
	// Viper returns the underlying spf13/viper instance.
	Viper() *spfvpr.Viper

	// SetHomeBaseName sets the config file base name (without extension)
	// searched for alongside the home/base paths.
	SetHomeBaseName(name string)

	// SetConfigFile points directly at a config file, bypassing search paths.
	SetConfigFile(path string)

	// AddConfigPath registers an additional search path for the config file.
	AddConfigPath(path string)

	// SetEnvPrefix sets the prefix used when binding environment variables.
	SetEnvPrefix(prefix string)

	// ConfigRead loads (or reloads) the bound configuration file.
	ConfigRead() error

	// Logger returns the logger this instance reports load/reload errors to.
	Logger() liblog.Logger
}

// New returns a Viper bound to the given logger accessor. ctx is kept only
// to construct a fallback logger when log is nil.
func New(ctx context.Context, log liblog.FuncLog) Viper {
	if log == nil {
		log = func() liblog.Logger { return liblog.New(ctx) }
	}

	return &viperModel{
		vpr: spfvpr.New(),
		log: log,
	}
}
