// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package api

import (
	bolt "github.com/coreos/bbolt"
	"github.com/karmarun/karma.check/codec"
	"github.com/karmarun/karma.check/db"
	"github.com/karmarun/karma.check/kvm/err"
	"github.com/karmarun/karma.check/kvm/mdl"
	"github.com/karmarun/karma.check/kvm/val"
	"github.com/karmarun/karma.check/kvm/xpr"
	"net/http"
)

// POST /check
func (s *Server) CheckHttpHandler(rw http.ResponseWriter, rq *http.Request) {
	cdc := rq.Context().Value(ContextKeyCodec).(codec.Interface)
	x, ke := s.decodeExpression(rq, cdc)
	if ke != nil {
		writeError(rw, cdc, err.HumanReadableError{ke})
		return
	}
	s.check(x, rw, cdc)
}

// POST /eval
func (s *Server) EvalHttpHandler(rw http.ResponseWriter, rq *http.Request) {
	cdc := rq.Context().Value(ContextKeyCodec).(codec.Interface)
	x, ke := s.decodeExpression(rq, cdc)
	if ke != nil {
		writeError(rw, cdc, err.HumanReadableError{ke})
		return
	}
	s.eval(x, rw, cdc)
}

// check replies with the type of x. Outcomes are recorded in the data
// file when one is open, and answered from it on later requests.
func (s *Server) check(x xpr.Expression, rw http.ResponseWriter, cdc codec.Interface) {

	store, hasStore := s.store()

	if hasStore {
		r, ok, ke := store.GetResult(x)
		if ke != nil {
			log.Warningf("reading cached result: %s", ke)
		}
		if ok {
			if r.Model == nil {
				rw.WriteHeader(http.StatusBadRequest)
				rw.Write(cdc.Encode(r.Problem))
				return
			}
			writeValue(rw, cdc, checkResponse(r.Rendered, r.Model))
			return
		}
	}

	typed, ke := s.VM.Check(x)
	if ke != nil {
		ke = err.HumanReadableError{ke}
	}

	if hasStore {
		if pe := store.PutResult(x, typed.Actual, ke); pe != nil {
			log.Warningf("storing result: %s", pe)
		}
	}

	if ke != nil {
		writeError(rw, cdc, ke)
		return
	}

	writeValue(rw, cdc, checkResponse(x.String(), typed.Actual))
}

func (s *Server) eval(x xpr.Expression, rw http.ResponseWriter, cdc codec.Interface) {
	v, model, ke := s.VM.CheckAndExecute(x)
	if ke != nil {
		writeError(rw, cdc, err.HumanReadableError{ke})
		return
	}
	response := checkResponse(x.String(), model)
	response.Set("value", v)
	writeValue(rw, cdc, response)
}

func (s *Server) store() (db.Store, bool) {
	dtbs := (*bolt.DB)(nil)
	if s.Database != nil {
		dtbs = s.Database()
	}
	if dtbs == nil {
		return db.Store{}, false
	}
	return db.NewStore(dtbs), true
}

func checkResponse(rendered string, model mdl.Model) val.Struct {
	return val.Struct{
		"rendered": val.String(rendered),
		"type":     mdl.ValueFromModel(model),
		"name":     val.String(model.String()),
	}
}
