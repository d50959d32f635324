// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	Install(buf, false)
	defer Install(os.Stderr, true)

	if e := SetLevel("notice"); e != nil {
		t.Fatal(e)
	}
	log := Get("test")
	log.Info("hidden")
	log.Notice("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, "test NOTI shown") {
		t.Fatalf("unexpected output: %q", out)
	}
	if e := SetLevel("loud"); e == nil {
		t.Fatal("expected error for unknown level")
	}
	SetLevel("info")
}

func TestStd(t *testing.T) {
	buf := &bytes.Buffer{}
	Install(buf, false)
	defer Install(os.Stderr, true)

	Std("http").Println("handshake failed")
	if out := buf.String(); !strings.Contains(out, "http ERRO handshake failed\n") {
		t.Fatalf("unexpected output: %q", out)
	}
}
