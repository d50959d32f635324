// Copyright 2017 karma.run AG. All rights reserved.
// Use of this source code is governed by an AGPL license that can be found in the LICENSE file.

package api

import (
	"crypto/rand"
	"encoding/base64"
	"github.com/karmarun/karma.check/codec"
	"github.com/karmarun/karma.check/kvm/err"
	"golang.org/x/crypto/bcrypt"
	"net/http"
	"sync"
	"time"
)

const MinSecretLength = 16

var authLock = &sync.Mutex{}

// authorize checks the SecretHeader against s.SecretHash and replies
// 403 on mismatch.
func (s *Server) authorize(rw http.ResponseWriter, rq *http.Request, cdc codec.Interface) bool {

	authLock.Lock()
	defer authLock.Unlock() // no concurrent attempts to brute-force the secret

	secret := rq.Header.Get(SecretHeader)

	if len(s.SecretHash) == 0 || len(secret) == 0 {
		log.Noticef("unauthorized %s %s from %s", rq.Method, rq.URL.Path, rq.RemoteAddr)
		rw.WriteHeader(http.StatusForbidden)
		rw.Write(cdc.Encode(err.PermissionDeniedError{}.Value()))
		return false
	}

	if e := bcrypt.CompareHashAndPassword(s.SecretHash, []byte(secret)); e != nil {
		log.Noticef("unauthorized %s %s from %s: %s", rq.Method, rq.URL.Path, rq.RemoteAddr, e)
		rw.WriteHeader(http.StatusForbidden)
		rw.Write(cdc.Encode(err.PermissionDeniedError{}.Value()))
		return false
	}

	return true
}

// HashSecret returns the bcrypt hash to configure for secret.
func HashSecret(secret string) ([]byte, error) {
	if len(secret) < MinSecretLength {
		return nil, err.RequestError{`secret must be at least 16 bytes long`, nil}
	}
	return bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
}

// RandomSecret returns a fresh base64-encoded secret of n random bytes.
func RandomSecret(n int) string {
	return base64.RawURLEncoding.EncodeToString(RandIv(n))
}

func RandIv(ln int) []byte {
	rd, iv := 0, make([]byte, ln, ln)
	for rd < len(iv) {
		n, e := rand.Read(iv[rd:])
		if e != nil {
			time.Sleep(time.Millisecond) // allow some entropy gathering
		}
		rd += n
	}
	return iv
}
