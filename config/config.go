// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package config

import (
	"fmt"
	"github.com/karmarun/karma.check/kvm/xpr"
	"gopkg.in/yaml.v3"
	"io"
	"os"
	"strconv"
	"strings"
)

// Config is loaded from defaults, then an optional YAML file, then
// KARMA_CHECK_* environment variables, each overriding the last.
// Command line flags are applied on top by the caller.
type Config struct {
	HttpPort            string `yaml:"http_port"`
	HttpsPort           string `yaml:"https_port"`
	LetsencryptDomains  string `yaml:"letsencrypt_domains"`
	LetsencryptEmail    string `yaml:"letsencrypt_email"`
	LetsencryptCacheDir string `yaml:"letsencrypt_cache_dir"`
	HttpsCertFile       string `yaml:"https_cert_file"`
	HttpsKeyFile        string `yaml:"https_key_file"`
	SecretHash          string `yaml:"secret_hash"` // bcrypt hash guarding writes
	DataFile            string `yaml:"data_file"`
	LogLevel            string `yaml:"log_level"`
	CacheSize           int    `yaml:"cache_size"`
	MaxDepth            int    `yaml:"max_depth"`
	MaxSize             int    `yaml:"max_size"`
	Debug               bool   `yaml:"debug"`
}

func Default() Config {
	return Config{
		HttpPort:            "80",  // explicit default
		HttpsPort:           "443", // explicit default
		LetsencryptCacheDir: "autocert-cache",
		DataFile:            "karma.check.data",
		LogLevel:            "info",
		CacheSize:           4096,
		MaxDepth:            256,
		MaxSize:             65536,
	}
}

// Load returns the configuration for path. An empty path skips the file.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		f, e := os.Open(path)
		if e != nil {
			return c, fmt.Errorf("config: %s", e)
		}
		defer f.Close()
		if e := c.decode(f); e != nil {
			return c, fmt.Errorf("config: parse %s: %s", path, e)
		}
	}
	if e := c.applyEnvironment(); e != nil {
		return c, e
	}
	return c, c.Validate()
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if e := dec.Decode(c); e != nil && e != io.EOF {
		return e
	}
	return nil
}

func (c *Config) applyEnvironment() error {
	c.HttpPort = getenv("KARMA_CHECK_HTTP_PORT", c.HttpPort)
	c.HttpsPort = getenv("KARMA_CHECK_HTTPS_PORT", c.HttpsPort)
	c.LetsencryptDomains = getenv("KARMA_CHECK_LETSENCRYPT_DOMAINS", c.LetsencryptDomains)
	c.LetsencryptEmail = getenv("KARMA_CHECK_LETSENCRYPT_EMAIL", c.LetsencryptEmail)
	c.LetsencryptCacheDir = getenv("KARMA_CHECK_LETSENCRYPT_CACHE_DIR", c.LetsencryptCacheDir)
	c.HttpsCertFile = getenv("KARMA_CHECK_HTTPS_CERT_FILE", c.HttpsCertFile)
	c.HttpsKeyFile = getenv("KARMA_CHECK_HTTPS_KEY_FILE", c.HttpsKeyFile)
	c.SecretHash = getenv("KARMA_CHECK_SECRET_HASH", c.SecretHash)
	c.DataFile = getenv("KARMA_CHECK_DATA_FILE", c.DataFile)
	c.LogLevel = getenv("KARMA_CHECK_LOG_LEVEL", c.LogLevel)
	for key, ptr := range map[string]*int{
		"KARMA_CHECK_CACHE_SIZE": &c.CacheSize,
		"KARMA_CHECK_MAX_DEPTH":  &c.MaxDepth,
		"KARMA_CHECK_MAX_SIZE":   &c.MaxSize,
	} {
		if s := os.Getenv(key); s != "" {
			n, e := strconv.Atoi(s)
			if e != nil {
				return fmt.Errorf("config: %s must be an integer, have %q", key, s)
			}
			*ptr = n
		}
	}
	if s := os.Getenv("KARMA_CHECK_DEBUG"); s != "" {
		b, e := strconv.ParseBool(s)
		if e != nil {
			return fmt.Errorf("config: KARMA_CHECK_DEBUG must be a boolean, have %q", s)
		}
		c.Debug = b
	}
	return nil
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	if (c.LetsencryptDomains == "") != (c.LetsencryptEmail == "") {
		return fmt.Errorf("config: letsencrypt domains and email must be set together")
	}
	if (c.HttpsCertFile == "") != (c.HttpsKeyFile == "") {
		return fmt.Errorf("config: https cert file and key file must be set together")
	}
	if c.MaxDepth < 1 || c.MaxDepth > xpr.MaxDepth {
		return fmt.Errorf("config: max depth must be between 1 and %d, have %d", xpr.MaxDepth, c.MaxDepth)
	}
	if c.MaxSize < 1 {
		return fmt.Errorf("config: max size must be positive, have %d", c.MaxSize)
	}
	return nil
}

// Domains splits LetsencryptDomains.
func (c Config) Domains() []string {
	ds := make([]string, 0, 4)
	for _, d := range strings.Split(c.LetsencryptDomains, ",") {
		if d = strings.TrimSpace(d); d != "" {
			ds = append(ds, d)
		}
	}
	return ds
}

func getenv(key string, deflt string) string {
	v := os.Getenv(key)
	if v == "" {
		return deflt
	}
	return v
}
