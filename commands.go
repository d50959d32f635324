// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package main

import (
	"fmt"
	"github.com/codegangsta/cli"
	"github.com/karmarun/karma.check/api"
	"github.com/karmarun/karma.check/codec/json"
	"github.com/karmarun/karma.check/db"
	"github.com/karmarun/karma.check/kvm"
	"github.com/karmarun/karma.check/kvm/err"
	"github.com/karmarun/karma.check/kvm/mdl"
	"github.com/karmarun/karma.check/kvm/val"
	"github.com/karmarun/karma.check/kvm/xpr"
	"github.com/kr/pretty"
	"io"
	"io/ioutil"
	"os"
	"strings"
)

// expressionArgument decodes the JSON expression in args[i], or stdin if
// there are fewer arguments.
func expressionArgument(c *cli.Context, i int, stdin io.Reader) (xpr.Expression, error) {
	src := []byte(nil)
	if c.NArg() > i {
		src = []byte(c.Args().Get(i))
	} else {
		bs, e := ioutil.ReadAll(stdin)
		if e != nil {
			return nil, e
		}
		src = bs
	}
	return parseExpression(src)
}

func parseExpression(src []byte) (xpr.Expression, error) {
	v, ke := json.Decode(src)
	if ke != nil {
		return nil, ke
	}
	x, ke := xpr.ExpressionFromValue(v)
	if ke != nil {
		return nil, ke
	}
	if cfg.MaxDepth > 0 && xpr.Depth(x) > cfg.MaxDepth {
		return nil, fmt.Errorf("expression depth %d exceeds limit of %d", xpr.Depth(x), cfg.MaxDepth)
	}
	if cfg.MaxSize > 0 && xpr.Size(x) > cfg.MaxSize {
		return nil, fmt.Errorf("expression size %d exceeds limit of %d", xpr.Size(x), cfg.MaxSize)
	}
	if cfg.Debug {
		pretty.Println(x)
	}
	return x, nil
}

func handleCheck(c *cli.Context) error {
	x, e := expressionArgument(c, 0, os.Stdin)
	if e != nil {
		return cli.NewExitError(e.Error(), 2)
	}
	if !report(os.Stdout, newVirtualMachine(), x) {
		return cli.NewExitError("", 1)
	}
	return nil
}

func handleEval(c *cli.Context) error {
	x, e := expressionArgument(c, 0, os.Stdin)
	if e != nil {
		return cli.NewExitError(e.Error(), 2)
	}
	return evaluate(os.Stdout, x, c.Bool("tree-walk"))
}

// evaluate runs x on the stack machine, or with the recursive evaluator
// if treeWalk is set. Both paths type check first.
func evaluate(w io.Writer, x xpr.Expression, treeWalk bool) error {
	v, model, ke := val.Value(nil), mdl.Model(nil), err.Error(nil)
	if treeWalk {
		if model, ke = kvm.TypeCheck(x); ke == nil {
			v, ke = kvm.Evaluate(x)
		}
	} else {
		v, model, ke = newVirtualMachine().CheckAndExecute(x)
	}
	if ke != nil {
		fmt.Fprintf(w, "Type Error when checking '%s': %s\n", x, ke)
		return cli.NewExitError("", 1)
	}
	fmt.Fprintf(w, "Successfully evaluated '%s': %s (%s)\n", x, json.Encode(v), model)
	return nil
}

func openStore() (db.Store, error) {
	dtbs, e := db.Open(cfg.DataFile)
	if e != nil {
		return db.Store{}, cli.NewExitError(fmt.Sprintf("opening %s: %s", cfg.DataFile, e), 2)
	}
	return db.NewStore(dtbs), nil
}

func nameArgument(c *cli.Context) (string, error) {
	name := c.Args().First()
	if name == "" {
		return "", cli.NewExitError("missing expression name", 2)
	}
	return name, nil
}

func handleStorePut(c *cli.Context) error {
	name, e := nameArgument(c)
	if e != nil {
		return e
	}
	x, e := expressionArgument(c, 1, os.Stdin)
	if e != nil {
		return cli.NewExitError(e.Error(), 2)
	}
	store, e := openStore()
	if e != nil {
		return e
	}
	defer db.Close()
	if ke := store.PutExpression(name, x); ke != nil {
		return cli.NewExitError(ke.Error(), 1)
	}
	fmt.Printf("stored '%s' as %s\n", x, name)
	return nil
}

func handleStoreGet(c *cli.Context) error {
	name, e := nameArgument(c)
	if e != nil {
		return e
	}
	store, e := openStore()
	if e != nil {
		return e
	}
	defer db.Close()
	x, ke := store.GetExpression(name)
	if ke != nil {
		return storeExitError(ke)
	}
	fmt.Println(x)
	fmt.Println(json.Encode(xpr.ValueFromExpression(x)))
	return nil
}

func handleStoreList(c *cli.Context) error {
	store, e := openStore()
	if e != nil {
		return e
	}
	defer db.Close()
	names, ke := store.ListExpressions()
	if ke != nil {
		return storeExitError(ke)
	}
	if len(names) > 0 {
		fmt.Println(strings.Join(names, "\n"))
	}
	return nil
}

func handleStoreDelete(c *cli.Context) error {
	name, e := nameArgument(c)
	if e != nil {
		return e
	}
	store, e := openStore()
	if e != nil {
		return e
	}
	defer db.Close()
	if ke := store.DeleteExpression(name); ke != nil {
		return storeExitError(ke)
	}
	fmt.Println("deleted", name)
	return nil
}

func handleStoreCheck(c *cli.Context) error {
	name, e := nameArgument(c)
	if e != nil {
		return e
	}
	store, e := openStore()
	if e != nil {
		return e
	}
	defer db.Close()
	x, ke := store.GetExpression(name)
	if ke != nil {
		return storeExitError(ke)
	}
	vm := newVirtualMachine()
	typed, ke := vm.Check(x)
	if pe := store.PutResult(x, typed.Actual, ke); pe != nil {
		log.Warningf("storing result: %s", pe)
	}
	if !report(os.Stdout, vm, x) {
		return cli.NewExitError("", 1)
	}
	return nil
}

func storeExitError(e err.Error) error {
	if _, ok := e.(err.NotFoundError); ok {
		return cli.NewExitError(e.Error(), 1)
	}
	return cli.NewExitError(e.Error(), 2)
}

func handleHashSecret(c *cli.Context) error {
	secret := c.Args().First()
	if secret == "" {
		secret = api.RandomSecret(32)
		fmt.Println("secret:", secret)
	}
	hash, e := api.HashSecret(secret)
	if e != nil {
		return cli.NewExitError(e.Error(), 2)
	}
	fmt.Println("hash:  ", string(hash))
	return nil
}
