// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package db

import (
	"fmt"
	bolt "github.com/coreos/bbolt"
	"github.com/karmarun/karma.check/definitions"
	"github.com/karmarun/karma.check/logger"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"
)

const (
	InitialMmapSize = 1024 * 1024 * 16 // 16MB
	Perm            = 0600
)

var log = logger.Get("db")

var database *bolt.DB = nil

var path = ""

var mutex = &sync.Mutex{}

var signalOnce = &sync.Once{}

// Open returns the process-wide database handle, opening the file at
// p on first use and initializing its buckets. Later calls return the
// same handle regardless of p.
func Open(p string) (*bolt.DB, error) {

	mutex.Lock()
	defer mutex.Unlock()

	if database != nil {
		return database, nil
	}

	db, e := openDatabase(p)
	if e != nil {
		return nil, e
	}
	if e := initDatabase(db); e != nil {
		db.Close()
		return nil, e
	}
	database, path = db, p

	signalOnce.Do(func() { go handleSignals() })

	return db, nil
}

func Close() error {

	mutex.Lock()
	defer mutex.Unlock()

	if database == nil {
		return nil
	}
	e := database.Close()
	database, path = nil, ""
	return e
}

// Replace validates the bolt file at src and renames it over the open
// data file, then reopens. src should live in the data file's directory.
// If src is not a usable data file the open handle is left untouched.
func Replace(src string) error {

	mutex.Lock()
	defer mutex.Unlock()

	if database == nil {
		return fmt.Errorf("database not open")
	}

	candidate, e := openDatabase(src)
	if e != nil {
		return e
	}
	if e := initDatabase(candidate); e != nil {
		candidate.Close()
		return e
	}
	if e := candidate.Close(); e != nil {
		return e
	}

	if e := database.Close(); e != nil {
		return e
	}

	re := os.Rename(src, path)
	if re != nil {
		log.Errorf("replacing data file: %s", re)
	}

	db, e := openDatabase(path)
	if e != nil {
		database = nil
		return e
	}
	if e := initDatabase(db); e != nil {
		db.Close()
		database = nil
		return e
	}
	database = db

	return re
}

// Current returns the open handle or nil.
func Current() *bolt.DB {
	mutex.Lock()
	defer mutex.Unlock()
	return database
}

// Reset drops all stored expressions and results.
func Reset(db *bolt.DB) error {
	e := db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(definitions.RootBucketBytes) == nil {
			return nil
		}
		return tx.DeleteBucket(definitions.RootBucketBytes)
	})
	if e != nil {
		return e
	}
	return initDatabase(db)
}

func openDatabase(path string) (*bolt.DB, error) {
	return bolt.Open(path, Perm, &bolt.Options{
		InitialMmapSize: InitialMmapSize,
		Timeout:         time.Second * 3,
	})
}

func initDatabase(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		rb := tx.Bucket(definitions.RootBucketBytes)
		if rb != nil && rb.Get(definitions.FormatVersionBytes) != nil {
			log.Debug("data file already initialized")
		} else {
			log.Info("initializing data file...")
		}
		rb, e := tx.CreateBucketIfNotExists(definitions.RootBucketBytes)
		if e != nil {
			return e
		}
		for _, name := range [][]byte{definitions.ExpressionBucketBytes, definitions.ResultBucketBytes} {
			if _, e := rb.CreateBucketIfNotExists(name); e != nil {
				return e
			}
		}
		if rb.Get(definitions.FormatVersionBytes) != nil {
			return nil
		}
		if e := rb.Put(definitions.FormatVersionBytes, []byte(strconv.Itoa(definitions.CurrentFormatVersion))); e != nil {
			return e
		}
		log.Info("initialized data file")
		return nil
	})
}

func handleSignals() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	<-c
	mutex.Lock()
	defer mutex.Unlock() // in case os.Exit/log.Fatal panics
	if database != nil {
		log.Notice("closing database...")
		if e := database.Close(); e != nil {
			log.Fatal(e)
		}
		log.Notice("database closed")
		database = nil
	}
	os.Exit(0)
}
