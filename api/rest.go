// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package api

import (
	"fmt"
	bolt "github.com/coreos/bbolt"
	"github.com/karmarun/karma.check/codec"
	"github.com/karmarun/karma.check/db"
	"github.com/karmarun/karma.check/kvm/err"
	"github.com/karmarun/karma.check/kvm/val"
	"github.com/karmarun/karma.check/kvm/xpr"
	"net/http"
)

// ExpressionsHttpHandler serves
//
//	GET    /expressions
//	GET    /expressions/{name}
//	PUT    /expressions/{name}
//	DELETE /expressions/{name}
//	GET    /expressions/{name}/check
//	GET    /expressions/{name}/eval
//
// PUT and DELETE require the instance secret.
func (s *Server) ExpressionsHttpHandler(segments []string, rw http.ResponseWriter, rq *http.Request) {

	cdc := rq.Context().Value(ContextKeyCodec).(codec.Interface)
	store := db.NewStore(rq.Context().Value(ContextKeyDatabase).(*bolt.DB))

	switch len(segments) {
	case 0:
		if !requireMethod(rw, rq, cdc, http.MethodGet) {
			return
		}
		names, ke := store.ListExpressions()
		if ke != nil {
			log.Panic(ke)
		}
		l := make(val.List, len(names), len(names))
		for i, name := range names {
			l[i] = val.String(name)
		}
		writeValue(rw, cdc, l)
		return

	case 1:
		name := segments[0]
		switch rq.Method {
		case http.MethodGet:
			x, ke := store.GetExpression(name)
			if ke != nil {
				writeStoreError(rw, cdc, ke)
				return
			}
			writeValue(rw, cdc, val.Struct{
				"name":       val.String(name),
				"rendered":   val.String(x.String()),
				"expression": xpr.ValueFromExpression(x),
			})

		case http.MethodPut:
			if !s.authorize(rw, rq, cdc) {
				return
			}
			x, ke := s.decodeExpression(rq, cdc)
			if ke != nil {
				writeError(rw, cdc, err.HumanReadableError{ke})
				return
			}
			if ke := store.PutExpression(name, x); ke != nil {
				writeStoreError(rw, cdc, ke)
				return
			}
			log.Infof("stored expression %q: %s", name, x)
			writeValue(rw, cdc, val.Struct{
				"name":     val.String(name),
				"rendered": val.String(x.String()),
			})

		case http.MethodDelete:
			if !s.authorize(rw, rq, cdc) {
				return
			}
			if ke := store.DeleteExpression(name); ke != nil {
				writeStoreError(rw, cdc, ke)
				return
			}
			log.Infof("deleted expression %q", name)
			writeValue(rw, cdc, val.String(name))

		default:
			requireMethod(rw, rq, cdc, http.MethodGet, http.MethodPut, http.MethodDelete)
		}
		return

	case 2:
		if !requireMethod(rw, rq, cdc, http.MethodGet) {
			return
		}
		x, ke := store.GetExpression(segments[0])
		if ke != nil {
			writeStoreError(rw, cdc, ke)
			return
		}
		switch segments[1] {
		case CheckPrefix:
			s.check(x, rw, cdc)
			return
		case EvalPrefix:
			s.eval(x, rw, cdc)
			return
		}
	}

	rw.WriteHeader(http.StatusNotFound)
	rw.Write(cdc.Encode(err.NotFoundError{fmt.Sprintf("%s/%v", ExpressionsPrefix, segments)}.Value()))
}

func writeStoreError(rw http.ResponseWriter, cdc codec.Interface, e err.Error) {
	switch e.(type) {
	case err.NotFoundError:
		rw.WriteHeader(http.StatusNotFound)
	case err.InternalError:
		rw.WriteHeader(http.StatusInternalServerError)
	default:
		rw.WriteHeader(http.StatusBadRequest)
	}
	rw.Write(cdc.Encode(e.Value()))
}
