// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package main

import (
	"github.com/codegangsta/cli"
	"github.com/karmarun/karma.check/api"
	_ "github.com/karmarun/karma.check/codec/binary"
	_ "github.com/karmarun/karma.check/codec/json"
	"github.com/karmarun/karma.check/config"
	"github.com/karmarun/karma.check/kvm"
	"github.com/karmarun/karma.check/logger"
	"os"
)

var log = logger.Get("main")

var cfg = config.Default()

func main() {

	app := cli.NewApp()

	app.Name = "karma.check"
	app.Usage = "type checker and evaluator for int/bool expression trees"
	app.Author = "karma.run AG"
	app.Version = api.Version

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config",
			Usage:  "Path to YAML configuration file.",
			EnvVar: "KARMA_CHECK_CONFIG",
		},
		cli.StringFlag{
			Name:  "data-file",
			Usage: "Path to data file. Overrides data_file and KARMA_CHECK_DATA_FILE.",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "One of debug, info, notice, warning, error, critical.",
		},
		cli.IntFlag{
			Name:  "cache-size",
			Usage: "Number of check results memoised in memory. 0 disables the cache.",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Print expression trees and compiled programs.",
		},
	}

	app.Before = loadConfig

	app.Commands = []cli.Command{
		{
			Name:   "demo",
			Usage:  "check the built-in example expressions",
			Action: handleDemo,
		},
		{
			Name:      "check",
			Usage:     "type check a JSON-encoded expression",
			ArgsUsage: "[expression]",
			Action:    handleCheck,
		},
		{
			Name:      "eval",
			Usage:     "type check and evaluate a JSON-encoded expression",
			ArgsUsage: "[expression]",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "tree-walk",
					Usage: "Evaluate by walking the expression tree instead of running compiled instructions.",
				},
			},
			Action: handleEval,
		},
		{
			Name:  "store",
			Usage: "manage named expressions in the data file",
			Subcommands: []cli.Command{
				{
					Name:      "put",
					Usage:     "store a JSON-encoded expression",
					ArgsUsage: "name [expression]",
					Action:    handleStorePut,
				},
				{
					Name:      "get",
					Usage:     "print a stored expression",
					ArgsUsage: "name",
					Action:    handleStoreGet,
				},
				{
					Name:   "list",
					Usage:  "list stored expression names",
					Action: handleStoreList,
				},
				{
					Name:      "delete",
					Usage:     "delete a stored expression",
					ArgsUsage: "name",
					Action:    handleStoreDelete,
				},
				{
					Name:      "check",
					Usage:     "type check a stored expression",
					ArgsUsage: "name",
					Action:    handleStoreCheck,
				},
			},
		},
		{
			Name:   "serve",
			Usage:  "serve the HTTP API",
			Flags:  serveFlags,
			Action: handleServe,
		},
		{
			Name:      "hash-secret",
			Usage:     "print the bcrypt hash of a write secret, generating one if none is given",
			ArgsUsage: "[secret]",
			Action:    handleHashSecret,
		},
	}

	if e := app.Run(os.Args); e != nil {
		log.Fatal(e)
	}
}

func loadConfig(c *cli.Context) error {
	loaded, e := config.Load(c.String("config"))
	if e != nil {
		return cli.NewExitError(e.Error(), 2)
	}
	cfg = loaded
	if c.IsSet("data-file") {
		cfg.DataFile = c.String("data-file")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("cache-size") {
		cfg.CacheSize = c.Int("cache-size")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}
	if e := logger.SetLevel(cfg.LogLevel); e != nil {
		return cli.NewExitError("invalid log level: "+cfg.LogLevel, 2)
	}
	return nil
}

func newVirtualMachine() *kvm.VirtualMachine {
	vm := kvm.NewVirtualMachine(cfg.CacheSize)
	vm.Debug = cfg.Debug
	return vm
}
