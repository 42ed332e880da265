
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

// Package guard decides whether an authentication-requiring request
// may proceed. It layers the per-IP attempt ledger (storage) under the
// digest challenge/response protocol (digestauth).
package guard

import (
	"net/http"
	"strings"
	"time"

	"github.com/casjay-forks/ownbin/src/digestauth"
	"github.com/casjay-forks/ownbin/src/metrics"
	"github.com/casjay-forks/ownbin/src/netshare"
	"github.com/casjay-forks/ownbin/src/storage"
)

type Guard struct {
	db storage.DB

	username string
	// RFC 2617 A1 hash of username:realm:secret. The plaintext secret
	// is never configured or stored.
	credentialDigest string
	realm            string

	// Failed attempts from one address before it is blocked
	blockHits int
	// How long a block lasts. Expiry is evaluated lazily on the next
	// request, there is no background sweep.
	blockTimeout time.Duration
}

func New(db storage.DB, username, credentialDigest, realm string, blockHits int, blockTimeout time.Duration) *Guard {
	return &Guard{
		db:               db,
		username:         username,
		credentialDigest: credentialDigest,
		realm:            realm,
		blockHits:        blockHits,
		blockTimeout:     blockTimeout,
	}
}

func (g *Guard) Realm() string {
	return g.realm
}

// Require runs one pass of the authorization state machine for req.
// Returns nil when the request may proceed, netshare.ErrForbidden for
// a blocked client, a netshare.AuthRequiredError carrying a fresh
// challenge nonce when credentials are missing or wrong, and
// netshare.ErrBadRequest when the presented nonce does not match the
// one issued to the client (stale or forged challenge).
func (g *Guard) Require(req *http.Request) error {
	addr := netshare.GetClientAddr(req)
	if addr == nil {
		return netshare.ErrBadRequest
	}
	ip := addr.String()

	record, err := g.db.IPGet(ip)
	if err != nil {
		return err
	}

	stillBlocked, err := g.db.IPClearExpired(ip, g.blockTimeout)
	if err != nil {
		return err
	}
	if stillBlocked {
		return netshare.ErrForbidden
	}

	auth := digestauth.ParseAuthorization(req.Header.Get("Authorization"))

	// No authentication attempt: issue a nonce bound to this client
	// and ask for credentials.
	if auth == nil {
		return g.challenge(ip)
	}

	// The client must answer with the nonce it was handed. A mismatch
	// is a malformed request, not a failed authentication.
	if record.Nonce != "" && !strings.EqualFold(record.Nonce, auth.Nonce) {
		return netshare.ErrBadRequest
	}

	if !digestauth.Verify(auth, g.username, g.credentialDigest, req.Method) {
		newlyBlocked, err := g.db.IPRecordFailure(ip, g.blockHits)
		if err != nil {
			return err
		}
		if newlyBlocked {
			metrics.BlockedIPsTotal.Inc()
			return netshare.ErrForbidden
		}
		return g.challenge(ip)
	}

	// Authenticated. Drop the ledger record entirely.
	return g.db.IPRecordSuccess(ip)
}

func (g *Guard) challenge(ip string) error {
	nonce, err := digestauth.NewNonce()
	if err != nil {
		return err
	}

	if err := g.db.IPSetNonce(ip, nonce); err != nil {
		return err
	}

	return netshare.ErrAuthRequiredNew(nonce)
}
