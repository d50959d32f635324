// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

package api

import (
	"archive/zip"
	"fmt"
	bolt "github.com/coreos/bbolt"
	"github.com/karmarun/karma.check/codec"
	"github.com/karmarun/karma.check/db"
	"github.com/karmarun/karma.check/kvm/err"
	"github.com/karmarun/karma.check/kvm/val"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"sync"
)

// GET /admin/export streams the data file as a zip archive.
func ExportHttpHandler(rw http.ResponseWriter, rq *http.Request) {

	cdc := rq.Context().Value(ContextKeyCodec).(codec.Interface)
	dtbs := rq.Context().Value(ContextKeyDatabase).(*bolt.DB)

	name := filepath.Base(dtbs.Path())

	e := dtbs.View(func(tx *bolt.Tx) error {
		rw.Header().Set(`Content-Type`, `application/zip`)
		rw.Header().Set(`Content-Disposition`, `attachment; filename="`+name+`.zip"`)
		zw := zip.NewWriter(rw)
		fw, e := zw.Create(name)
		if e != nil {
			return e
		}
		if _, e := tx.WriteTo(fw); e != nil {
			return e
		}
		return zw.Close()
	})

	if e != nil {
		log.Error(e)
		rw.WriteHeader(http.StatusInternalServerError)
		rw.Write(cdc.Encode(err.InternalError{`export failed`}.Value()))
	}
}

const maxImportSize = 1024 * 1024 * 1024 // in bytes

// POST /admin/import replaces the data file with the single file in the
// uploaded zip archive. The current data is kept if the upload is invalid.
func (s *Server) ImportHttpHandler(rw http.ResponseWriter, rq *http.Request) {

	cdc := rq.Context().Value(ContextKeyCodec).(codec.Interface)
	dtbs := rq.Context().Value(ContextKeyDatabase).(*bolt.DB)

	e := importArchive(rq.Body, filepath.Dir(dtbs.Path()))

	if e != nil {
		log.Error(e)
		writeError(rw, cdc, err.RequestError{`import failed: ` + e.Error(), nil})
		return
	}

	if s.VM.Cache != nil {
		s.VM.Cache.Clear()
	}

	msg := "import successful"
	log.Notice(msg)
	writeValue(rw, cdc, val.String(msg))
}

// importArchive extracts the zip read from body next to the data file in
// dir and hands it to db.Replace.
func importArchive(body io.ReadCloser, dir string) error {

	archive, e := ioutil.TempFile("", "karma_check_import_")
	if e != nil {
		return e
	}
	defer os.Remove(archive.Name())
	defer archive.Close()

	l, e := io.Copy(archive, io.LimitReader(body, maxImportSize))
	if e != nil {
		return e
	}

	body.Close()

	if l == maxImportSize {
		return fmt.Errorf(`import too big. max size in bytes: %d`, maxImportSize)
	}

	zr, e := zip.NewReader(archive, l)
	if e != nil {
		return e
	}

	if len(zr.File) == 0 {
		return fmt.Errorf(`empty zip file`)
	}

	if len(zr.File) > 1 {
		return fmt.Errorf(`zip file contains %d files, expected 1`, len(zr.File))
	}

	fr, e := zr.File[0].Open()
	if e != nil {
		return e
	}
	defer fr.Close()

	// same directory as the data file so the final rename stays on one filesystem
	extracted, e := ioutil.TempFile(dir, "karma_check_import_")
	if e != nil {
		return e
	}
	defer os.Remove(extracted.Name()) // no-op once renamed

	if _, e := io.Copy(extracted, fr); e != nil {
		extracted.Close()
		return e
	}
	if e := extracted.Close(); e != nil {
		return e
	}

	return db.Replace(extracted.Name())
}

var resetLock = &sync.Mutex{}

// POST /admin/reset drops all stored expressions and results.
func (s *Server) ResetHttpHandler(rw http.ResponseWriter, rq *http.Request) {

	resetLock.Lock()
	defer resetLock.Unlock() // no concurrent reset requests

	cdc := rq.Context().Value(ContextKeyCodec).(codec.Interface)
	dtbs := rq.Context().Value(ContextKeyDatabase).(*bolt.DB)

	if e := db.Reset(dtbs); e != nil {
		log.Panic(e)
	}

	if s.VM.Cache != nil {
		s.VM.Cache.Clear()
	}

	msg := "instance reset successful"

	log.Notice(msg)
	writeValue(rw, cdc, val.String(msg))
}
