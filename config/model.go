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

package config

import (
	"context"
	"sync/atomic"

	libatm "github.com/nabbar/preforkd/atomic"
	cfgtps "github.com/nabbar/preforkd/config/types"
	libctx "github.com/nabbar/preforkd/context"
)

// configModel is the registry of registered components and lifecycle hooks.
//
// cpt holds the registered components, keyed by their configuration key.
// fct holds lifecycle hooks and providers (version, viper, loggers, status
// route, start/reload/stop before/after), keyed by the fctXxx consts in
// manage.go. cnl holds the custom cancel functions registered via CancelAdd,
// keyed by an incrementing sequence number so each one can be removed
// individually once run.
type configModel struct {
	ctx libctx.Config[string]
	cpt libatm.MapTyped[string, cfgtps.Component]
	fct libatm.Map[int]
	cnl libatm.MapTyped[uint64, context.CancelFunc]
	seq atomic.Uint64
}
