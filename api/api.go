// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.
package api

import (
	"context"
	"fmt"
	bolt "github.com/coreos/bbolt"
	"github.com/karmarun/karma.check/codec"
	"github.com/karmarun/karma.check/db"
	"github.com/karmarun/karma.check/kvm"
	"github.com/karmarun/karma.check/kvm/err"
	"github.com/karmarun/karma.check/kvm/val"
	"github.com/karmarun/karma.check/kvm/xpr"
	"github.com/karmarun/karma.check/logger"
	"io"
	"net/http"
	"path"
	"runtime/debug"
	"strings"
	"sync"
)

var Version = `1.0.0`

var log = logger.Get("api")

type Payload []byte

func (p Payload) Close() {
	copy(p, ZeroPayload)
	PayloadPool.Put(p[:payloadBufferBytes])
}

const MaxPayloadBytes = 1 * 1024 * 1024 // 1MB

// one byte more than accepted, so an oversized body can be told apart
// from one of exactly MaxPayloadBytes
const payloadBufferBytes = MaxPayloadBytes + 1

var (
	PayloadPool = &sync.Pool{
		New: func() interface{} {
			return make(Payload, payloadBufferBytes, payloadBufferBytes)
		},
	}
	ZeroPayload = make(Payload, payloadBufferBytes, payloadBufferBytes)
)

type contextKey byte

const (
	ContextKeyCodec contextKey = iota
	ContextKeyDatabase
)

const (
	CheckPrefix       = `check`
	EvalPrefix        = `eval`
	ExpressionsPrefix = `expressions`
	ExportPrefix      = `admin/export`
	ImportPrefix      = `admin/import`
	ResetPrefix       = `admin/reset`
)

const (
	CodecHeader  = `X-Karma-Codec`
	SecretHeader = `X-Karma-Secret`
)

// Server is the HTTP surface of the checker.
type Server struct {
	VM         *kvm.VirtualMachine
	SecretHash []byte // bcrypt hash of the write secret, writes are denied if empty
	MaxDepth   int    // maximum expression depth accepted
	MaxSize    int    // maximum number of expression nodes accepted
	Database   func() *bolt.DB
}

func NewServer(vm *kvm.VirtualMachine, secretHash []byte, maxDepth, maxSize int) *Server {
	return &Server{
		VM:         vm,
		SecretHash: secretHash,
		MaxDepth:   maxDepth,
		MaxSize:    maxSize,
		Database:   db.Current,
	}
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, rq *http.Request) {

	// CORS headers for browsers
	rw.Header().Set("Access-Control-Allow-Headers", rq.Header.Get("Access-Control-Request-Headers"))
	rw.Header().Set("Access-Control-Allow-Methods", rq.Header.Get("Access-Control-Request-Method"))
	rw.Header().Set("Access-Control-Allow-Origin", "*")

	if rq.Method == http.MethodOptions {
		return // CORS pre-flight
	}

	path := strings.Trim(path.Clean(rq.URL.Path), "/")

	if rq.Method == http.MethodGet && path == "" { // k8s health checks
		rw.WriteHeader(http.StatusOK)
		rw.Write([]byte(`karma.check ` + Version))
		return
	}

	cdc := codec.Get(rq.Header.Get(CodecHeader))
	if cdc == nil {
		msg := fmt.Sprintf(`invalid codec requested (%s header). available codecs: %s`, CodecHeader, strings.Join(codec.Available(), ", "))
		rw.WriteHeader(http.StatusBadRequest)
		rw.Write([]byte(msg))
		return
	}

	rq = rq.WithContext(context.WithValue(rq.Context(), ContextKeyCodec, cdc))

	defer func() {
		if v := recover(); v != nil {
			log.Errorf("%s %s: %v", rq.Method, rq.URL.Path, v)
			log.Debug(string(debug.Stack()))
			rw.WriteHeader(http.StatusInternalServerError)
			rw.Write(cdc.Encode(err.InternalError{`unexpected failure`}.Value()))
		}
	}()

	switch {
	case path == CheckPrefix:
		if !requireMethod(rw, rq, cdc, http.MethodPost) {
			return
		}
		s.CheckHttpHandler(rw, rq)
		return

	case path == EvalPrefix:
		if !requireMethod(rw, rq, cdc, http.MethodPost) {
			return
		}
		s.EvalHttpHandler(rw, rq)
		return
	}

	dtbs := (*bolt.DB)(nil)
	if s.Database != nil {
		dtbs = s.Database()
	}
	if dtbs == nil {
		rw.WriteHeader(http.StatusServiceUnavailable)
		rw.Write(cdc.Encode(err.InternalError{`no data file configured`}.Value()))
		return
	}

	rq = rq.WithContext(context.WithValue(rq.Context(), ContextKeyDatabase, dtbs))

	switch {
	case path == ExpressionsPrefix || strings.HasPrefix(path, ExpressionsPrefix+"/"):
		s.ExpressionsHttpHandler(pathSegments(path)[1:], rw, rq)

	case path == ExportPrefix:
		if requireMethod(rw, rq, cdc, http.MethodGet) && s.authorize(rw, rq, cdc) {
			ExportHttpHandler(rw, rq)
		}

	case path == ImportPrefix:
		if requireMethod(rw, rq, cdc, http.MethodPost) && s.authorize(rw, rq, cdc) {
			s.ImportHttpHandler(rw, rq)
		}

	case path == ResetPrefix:
		if requireMethod(rw, rq, cdc, http.MethodPost) && s.authorize(rw, rq, cdc) {
			s.ResetHttpHandler(rw, rq)
		}

	default:
		rw.WriteHeader(http.StatusNotFound)
		rw.Write(cdc.Encode(err.NotFoundError{path}.Value()))
	}
}

// decodeExpression reads the request payload as an expression tree and
// enforces the depth and size limits.
func (s *Server) decodeExpression(rq *http.Request, cdc codec.Interface) (xpr.Expression, err.Error) {
	payload := payloadFromRequest(rq)
	defer payload.Close()

	if len(payload) > MaxPayloadBytes {
		return nil, err.RequestError{fmt.Sprintf(`payload exceeds %d bytes`, MaxPayloadBytes), nil}
	}

	v, ke := cdc.Decode(payload)
	if ke != nil {
		return nil, ke
	}
	x, ke := xpr.ExpressionFromValue(v)
	if ke != nil {
		return nil, ke
	}
	if s.MaxDepth > 0 {
		if d := xpr.Depth(x); d > s.MaxDepth {
			return nil, err.RequestError{fmt.Sprintf(`expression depth %d exceeds limit of %d`, d, s.MaxDepth), nil}
		}
	}
	if s.MaxSize > 0 {
		if n := xpr.Size(x); n > s.MaxSize {
			return nil, err.RequestError{fmt.Sprintf(`expression size %d exceeds limit of %d`, n, s.MaxSize), nil}
		}
	}
	return x, nil
}

func requireMethod(rw http.ResponseWriter, rq *http.Request, cdc codec.Interface, methods ...string) bool {
	if stringsContain(methods, rq.Method) {
		return true
	}
	rw.WriteHeader(http.StatusMethodNotAllowed)
	rw.Write(cdc.Encode(err.RequestError{
		fmt.Sprintf("invalid HTTP method requested: %s. supported are: %s.", rq.Method, strings.Join(methods, ", ")), nil,
	}.Value()))
	return false
}

func writeError(rw http.ResponseWriter, cdc codec.Interface, e err.Error) {
	rw.WriteHeader(http.StatusBadRequest)
	rw.Write(cdc.Encode(e.Value()))
	return
}

func writeValue(rw http.ResponseWriter, cdc codec.Interface, v val.Value) {
	rw.Write(cdc.Encode(v))
}

func stringsContain(ss []string, s string) bool {
	for _, t := range ss {
		if t == s {
			return true
		}
	}
	return false
}

func pathSegments(path string) []string {
	ss := strings.Split(path, "/")
	out := ss[:0]
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func payloadFromRequest(rq *http.Request) Payload {
	defer rq.Body.Close()
	return payloadFromReader(rq.Body)
}

func payloadFromReader(r io.Reader) Payload {
	payload := PayloadPool.Get().(Payload)
	readLength := 0
	for readLength < payloadBufferBytes {
		n, e := r.Read(payload[readLength:])
		readLength += n
		if e != nil {
			break // EOF or broken connection
		}
	}
	return payload[:readLength]
}
