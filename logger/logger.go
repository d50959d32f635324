// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package logger

import (
	"github.com/op/go-logging"
	"io"
	stdlog "log"
	"os"
	"sync"
)

var format = logging.MustStringFormatter(
	"%{color}%{time:15:04:05} ▶ %{module} %{level:.4s} %{id:03x}%{color:reset} %{message}",
)

var plainFormat = logging.MustStringFormatter(
	"%{time:15:04:05} %{module} %{level:.4s} %{message}",
)

var (
	lock    = &sync.Mutex{}
	backend logging.LeveledBackend
)

func init() {
	Install(os.Stderr, true)
	SetLevel("info")
}

// Get returns the logger for module.
func Get(module string) *logging.Logger {
	return logging.MustGetLogger(module)
}

// Install routes all modules to w, keeping the current level.
// Pass color=false for files and buffers.
func Install(w io.Writer, color bool) {
	lock.Lock()
	defer lock.Unlock()
	f := plainFormat
	if color {
		f = format
	}
	be := logging.NewLogBackend(w, "", 0)
	level := logging.INFO
	if backend != nil {
		level = backend.GetLevel("")
	}
	backend = logging.AddModuleLevel(logging.NewBackendFormatter(be, f))
	backend.SetLevel(level, "")
	logging.SetBackend(backend)
}

// SetLevel sets the level of all modules. Valid names are those of
// go-logging: debug, info, notice, warning, error, critical.
func SetLevel(name string) error {
	level, e := logging.LogLevel(name)
	if e != nil {
		return e
	}
	lock.Lock()
	defer lock.Unlock()
	backend.SetLevel(level, "")
	return nil
}

// Std returns a standard library logger writing to module at level
// error, for APIs like http.Server.ErrorLog.
func Std(module string) *stdlog.Logger {
	return stdlog.New(writer{Get(module)}, "", 0)
}

type writer struct {
	log *logging.Logger
}

func (w writer) Write(p []byte) (int, error) {
	n := len(p)
	if n > 0 && p[n-1] == '\n' {
		p = p[:n-1]
	}
	w.log.Error(string(p))
	return n, nil
}
