// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package main

import (
	"crypto/tls"
	"github.com/codegangsta/cli"
	"github.com/karmarun/karma.check/api"
	"github.com/karmarun/karma.check/db"
	"github.com/karmarun/karma.check/logger"
	"golang.org/x/crypto/acme/autocert"
	"net/http"
)

var serveFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "http-port",
		Usage: "Port to serve (insecure) HTTP clients on. Overrides KARMA_CHECK_HTTP_PORT.",
	},
	cli.StringFlag{
		Name:  "https-port",
		Usage: "Port to serve HTTPS and HTTP/2 clients on. Overrides KARMA_CHECK_HTTPS_PORT.",
	},
	cli.StringFlag{
		Name:  "letsencrypt-domains",
		Usage: "Comma-separated list of HTTPS domains to automatically secure via LetsEncrypt.",
	},
	cli.StringFlag{
		Name:  "letsencrypt-email",
		Usage: "Sets the contact email for LetsEncrypt. Required if --letsencrypt-domains is set.",
	},
	cli.StringFlag{
		Name:  "letsencrypt-cache-dir",
		Usage: "Sets the LetsEncrypt file cache location.",
	},
	cli.StringFlag{
		Name:  "https-cert-file",
		Usage: "Path to TLS certificate. Has no effect if LetsEncrypt is configured.",
	},
	cli.StringFlag{
		Name:  "https-key-file",
		Usage: "Path to TLS private key file. Has no effect if LetsEncrypt is configured.",
	},
	cli.StringFlag{
		Name:  "secret-hash",
		Usage: "bcrypt hash of the secret required for writes (see hash-secret). Writes are disabled if empty.",
	},
	cli.IntFlag{
		Name:  "max-depth",
		Usage: "Maximum accepted expression depth.",
	},
	cli.IntFlag{
		Name:  "max-size",
		Usage: "Maximum accepted number of expression nodes.",
	},
}

func applyServeFlags(c *cli.Context) {
	for name, ptr := range map[string]*string{
		"http-port":             &cfg.HttpPort,
		"https-port":            &cfg.HttpsPort,
		"letsencrypt-domains":   &cfg.LetsencryptDomains,
		"letsencrypt-email":     &cfg.LetsencryptEmail,
		"letsencrypt-cache-dir": &cfg.LetsencryptCacheDir,
		"https-cert-file":       &cfg.HttpsCertFile,
		"https-key-file":        &cfg.HttpsKeyFile,
		"secret-hash":           &cfg.SecretHash,
	} {
		if c.IsSet(name) {
			*ptr = c.String(name)
		}
	}
	if c.IsSet("max-depth") {
		cfg.MaxDepth = c.Int("max-depth")
	}
	if c.IsSet("max-size") {
		cfg.MaxSize = c.Int("max-size")
	}
}

func handleServe(c *cli.Context) error {

	applyServeFlags(c)

	if e := cfg.Validate(); e != nil {
		return cli.NewExitError(e.Error(), 2)
	}

	if _, e := db.Open(cfg.DataFile); e != nil {
		return cli.NewExitError(e.Error(), 2)
	}

	if cfg.SecretHash == "" {
		log.Warning("no secret hash configured, writes are disabled")
	}

	handler := api.NewServer(newVirtualMachine(), []byte(cfg.SecretHash), cfg.MaxDepth, cfg.MaxSize)

	log.Notice("starting karma.check...")
	log.Noticef("HTTP port: %v", cfg.HttpPort)
	log.Noticef("data file: %v", cfg.DataFile)

	httpServer, httpsServer := (*http.Server)(nil), (*http.Server)(nil)

	httpServer = &http.Server{
		Addr:     ":" + cfg.HttpPort,
		Handler:  handler,
		ErrorLog: logger.Std("http"),
	}

	httpsRedirectionHandler := http.HandlerFunc(func(rw http.ResponseWriter, rq *http.Request) {
		u := rq.URL
		u.Scheme = "https"
		u.Host = rq.Host
		http.Redirect(rw, rq, u.String(), http.StatusMovedPermanently)
	})

	certFile, keyFile := cfg.HttpsCertFile, cfg.HttpsKeyFile

	if domains := cfg.Domains(); len(domains) > 0 { // LetsEncrypt support
		log.Noticef("HTTPS port: %v", cfg.HttpsPort)
		log.Noticef("LetsEncrypt domains: %v", domains)
		log.Noticef("LetsEncrypt email: %v", cfg.LetsencryptEmail)
		m := autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			Cache:      autocert.DirCache(cfg.LetsencryptCacheDir),
			HostPolicy: autocert.HostWhitelist(domains...),
			Email:      cfg.LetsencryptEmail,
		}
		httpsServer = &http.Server{
			Addr:      ":" + cfg.HttpsPort,
			Handler:   handler,
			TLSConfig: &tls.Config{GetCertificate: m.GetCertificate},
			ErrorLog:  logger.Std("https"),
		}
		httpServer.Handler = m.HTTPHandler(httpsRedirectionHandler)
		certFile, keyFile = ``, ``
	} else if len(certFile) > 0 { // own TLS config
		log.Noticef("HTTPS port: %v", cfg.HttpsPort)
		httpsServer = &http.Server{
			Addr:     ":" + cfg.HttpsPort,
			Handler:  handler,
			ErrorLog: logger.Std("https"),
		}
		httpServer.Handler = httpsRedirectionHandler
	}

	go func() {
		if e := httpServer.ListenAndServe(); e != http.ErrServerClosed {
			log.Fatalf("HTTP: %s", e)
		}
	}()
	log.Notice("HTTP server started")

	if httpsServer != nil {
		go func() {
			if e := httpsServer.ListenAndServeTLS(certFile, keyFile); e != http.ErrServerClosed {
				log.Fatalf("HTTPS: %s", e)
			}
		}()
		log.Notice("HTTPS server started")
	}

	select {}
}
