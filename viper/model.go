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

package viper

import (
	liblog "github.com/nabbar/preforkd/logger"
	loglvl "github.com/nabbar/preforkd/logger/level"
	spfvpr "github.com/spf13/viper"
)

type viperModel struct {
	vpr  *spfvpr.Viper
	log  liblog.FuncLog
	file string
}

func (v *viperModel) Viper() *spfvpr.Viper {
	return v.vpr
}

func (v *viperModel) SetHomeBaseName(name string) {
	v.vpr.SetConfigName(name)
}

func (v *viperModel) SetConfigFile(path string) {
	v.file = path
	v.vpr.SetConfigFile(path)
}

func (v *viperModel) AddConfigPath(path string) {
	v.vpr.AddConfigPath(path)
}

func (v *viperModel) SetEnvPrefix(prefix string) {
	v.vpr.SetEnvPrefix(prefix)
	v.vpr.AutomaticEnv()
}

func (v *viperModel) ConfigRead() error {
	err := v.vpr.ReadInConfig()
	if err != nil && v.log != nil {
		if l := v.log(); l != nil {
			l.Entry(loglvl.ErrorLevel, "reading configuration file").ErrorAdd(true, err).Log()
		}
	}
	return err
}

func (v *viperModel) Logger() liblog.Logger {
	if v.log == nil {
		return nil
	}
	return v.log()
}
