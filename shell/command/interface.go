/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

// Package command gives config a tiny, dependency-free representation of a
// named, runnable action so the "-C" admin subcommand (cmd/preforkd) and any
// interactive shell front-end can list and invoke component management
// commands (list/start/stop/restart) without importing cobra or the config
// package's internals.
package command

import "io"

// RunFunc executes a command, writing human output to out and errors to errs.
type RunFunc func(out io.Writer, errs io.Writer, args []string)

// CommandInfo is the static, side-effect-free description of a Command.
type CommandInfo interface {
	Name() string
	Description() string
}

// Command is a named action with a description and a runnable body.
type Command interface {
	CommandInfo
	Run(out io.Writer, errs io.Writer, args []string)
}

// Info returns a CommandInfo carrying only name and description.
func Info(name, description string) CommandInfo {
	return &command{name: name, desc: description}
}

// New returns a Command that runs fct when invoked.
func New(name, description string, fct RunFunc) Command {
	return &command{name: name, desc: description, run: fct}
}
