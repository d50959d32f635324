// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package config

import (
	"github.com/karmarun/karma.check/kvm/xpr"
	"github.com/kr/pretty"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) (string, func()) {
	dir, e := ioutil.TempDir("", "karma.check")
	if e != nil {
		t.Fatal(e)
	}
	path := filepath.Join(dir, "config.yml")
	if e := ioutil.WriteFile(path, []byte(body), 0600); e != nil {
		t.Fatal(e)
	}
	return path, func() { os.RemoveAll(dir) }
}

func setenv(t *testing.T, key, value string) func() {
	if e := os.Setenv(key, value); e != nil {
		t.Fatal(e)
	}
	return func() { os.Unsetenv(key) }
}

func TestDefaults(t *testing.T) {
	c, e := Load("")
	if e != nil {
		t.Fatal(e)
	}
	if c != Default() {
		t.Fatalf("%s", pretty.Diff(Default(), c))
	}
}

func TestFileAndEnvironment(t *testing.T) {
	path, done := writeConfig(t, "http_port: \"8080\"\ndata_file: /tmp/x.data\ncache_size: 12\nlog_level: debug\n")
	defer done()
	defer setenv(t, "KARMA_CHECK_DATA_FILE", "/var/lib/karma.check")()
	defer setenv(t, "KARMA_CHECK_MAX_DEPTH", "32")()
	defer setenv(t, "KARMA_CHECK_MAX_SIZE", "100")()
	defer setenv(t, "KARMA_CHECK_DEBUG", "true")()

	c, e := Load(path)
	if e != nil {
		t.Fatal(e)
	}
	want := Default()
	want.HttpPort = "8080"
	want.DataFile = "/var/lib/karma.check"
	want.CacheSize = 12
	want.LogLevel = "debug"
	want.MaxDepth = 32
	want.MaxSize = 100
	want.Debug = true
	if c != want {
		t.Fatalf("%s", pretty.Diff(want, c))
	}
}

func TestEmptyFile(t *testing.T) {
	path, done := writeConfig(t, "")
	defer done()
	if _, e := Load(path); e != nil {
		t.Fatal(e)
	}
}

func TestUnknownField(t *testing.T) {
	path, done := writeConfig(t, "http_prot: 80\n")
	defer done()
	if _, e := Load(path); e == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestBadEnvironment(t *testing.T) {
	defer setenv(t, "KARMA_CHECK_CACHE_SIZE", "lots")()
	if _, e := Load(""); e == nil {
		t.Fatal("expected error")
	}
}

func TestValidate(t *testing.T) {
	c := Default()
	c.LetsencryptDomains = "example.com"
	if c.Validate() == nil {
		t.Fatal("expected error for domains without email")
	}
	c.LetsencryptEmail = "ops@example.com"
	if e := c.Validate(); e != nil {
		t.Fatal(e)
	}
	c.HttpsKeyFile = "key.pem"
	if c.Validate() == nil {
		t.Fatal("expected error for key without cert")
	}
}

func TestValidateLimits(t *testing.T) {
	c := Default()
	c.MaxDepth = xpr.MaxDepth
	if e := c.Validate(); e != nil {
		t.Fatal(e)
	}
	for _, depth := range []int{0, xpr.MaxDepth + 1} {
		c.MaxDepth = depth
		if c.Validate() == nil {
			t.Fatalf("expected error for max depth %d", depth)
		}
	}
	c = Default()
	c.MaxSize = 0
	if c.Validate() == nil {
		t.Fatal("expected error for max size 0")
	}
}

func TestMaxDepthAboveParserBound(t *testing.T) {
	path, done := writeConfig(t, "max_depth: 4096\n")
	defer done()
	if _, e := Load(path); e == nil {
		t.Fatal("expected error for max depth above parser bound")
	}
}

func TestDomains(t *testing.T) {
	c := Config{LetsencryptDomains: " a.com, ,b.com"}
	if ds := c.Domains(); len(ds) != 2 || ds[0] != "a.com" || ds[1] != "b.com" {
		t.Fatalf("unexpected domains: %v", ds)
	}
}
