
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package guard

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/casjay-forks/ownbin/src/digestauth"
	"github.com/casjay-forks/ownbin/src/netshare"
	"github.com/casjay-forks/ownbin/src/storage"
)

const (
	testUser   = "admin"
	testRealm  = "ownbin"
	testSecret = "hunter2"
	testIP     = "192.0.2.1"
)

func testGuard(t *testing.T, blockHits int, blockTimeout time.Duration) (*Guard, storage.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	if err := storage.InitDB("sqlite", path); err != nil {
		t.Fatal(err)
	}

	db, err := storage.NewPool("sqlite", path, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	a1 := digestauth.CredentialDigest(testUser, testRealm, testSecret)
	return New(db, testUser, a1, testRealm, blockHits, blockTimeout), db
}

func newRequest(method, uri string) *http.Request {
	req := httptest.NewRequest(method, uri, nil)
	req.RemoteAddr = testIP + ":54321"
	return req
}

func authorize(req *http.Request, user, secret, nonce string) {
	a1 := digestauth.CredentialDigest(user, testRealm, secret)
	a2 := digestauth.RequestDigest(req.Method, req.URL.RequestURI())
	response := digestauth.ResponseDigest(a1, nonce, "00000001", "0a4f113b", "auth", a2)

	req.Header.Set("Authorization", fmt.Sprintf(
		`Digest username="%s", realm="%s", nonce="%s", uri="%s", response="%s", qop=auth, nc=00000001, cnonce="0a4f113b"`,
		user, testRealm, nonce, req.URL.RequestURI(), response))
}

// requireNonce runs an unauthenticated request through the guard and
// returns the challenge nonce it issued.
func requireNonce(t *testing.T, g *Guard) string {
	t.Helper()

	err := g.Require(newRequest("POST", "/paste/"))

	var authErr *netshare.AuthRequiredError
	if !errors.As(err, &authErr) {
		t.Fatal("expected AuthRequiredError but got", err)
	}
	if authErr.Nonce == "" {
		t.Fatal("challenge carries no nonce")
	}
	return authErr.Nonce
}

func TestNoCredentialsChallenges(t *testing.T) {
	g, db := testGuard(t, 10, time.Hour)

	nonce := requireNonce(t, g)

	// The nonce must be bound to the client record
	record, err := db.IPGet(testIP)
	if err != nil {
		t.Fatal(err)
	}
	if record.Nonce != nonce {
		t.Error("issued nonce", nonce, "but record has", record.Nonce)
	}
}

func TestSuccessDeletesRecord(t *testing.T) {
	g, db := testGuard(t, 10, time.Hour)

	nonce := requireNonce(t, g)

	req := newRequest("POST", "/paste/")
	authorize(req, testUser, testSecret, nonce)
	if err := g.Require(req); err != nil {
		t.Fatal("valid request rejected:", err)
	}

	record, err := db.IPGet(testIP)
	if err != nil {
		t.Fatal(err)
	}
	if record.Hits != 0 || record.Nonce != "" {
		t.Error("ledger record survived a successful authentication")
	}
}

func TestStaleNonceAfterSuccessIsNotMalformed(t *testing.T) {
	g, _ := testGuard(t, 10, time.Hour)

	nonce := requireNonce(t, g)

	req := newRequest("POST", "/paste/")
	authorize(req, testUser, testSecret, nonce)
	if err := g.Require(req); err != nil {
		t.Fatal(err)
	}

	// Replaying the consumed nonce with correct credentials starts a
	// fresh cycle; it must not be rejected as malformed.
	again := newRequest("POST", "/paste/")
	authorize(again, testUser, testSecret, nonce)
	if err := g.Require(again); err == netshare.ErrBadRequest {
		t.Fatal("stale nonce after success reported as malformed")
	}
}

func TestNonceMismatchIsMalformed(t *testing.T) {
	g, _ := testGuard(t, 10, time.Hour)

	requireNonce(t, g)

	req := newRequest("POST", "/paste/")
	authorize(req, testUser, testSecret, "ffffffffffffffff")
	if err := g.Require(req); err != netshare.ErrBadRequest {
		t.Fatal("expected ErrBadRequest but got", err)
	}
}

func TestThresholdBlocks(t *testing.T) {
	g, _ := testGuard(t, 3, time.Hour)

	// Two failures answer with a challenge
	for i := 0; i < 2; i++ {
		nonce := requireNonce(t, g)

		req := newRequest("POST", "/paste/")
		authorize(req, testUser, "wrong password", nonce)

		err := g.Require(req)
		var authErr *netshare.AuthRequiredError
		if !errors.As(err, &authErr) {
			t.Fatal("failure", i+1, "expected AuthRequiredError but got", err)
		}
	}

	// The third failure crosses the threshold
	nonce := requireNonce(t, g)
	req := newRequest("POST", "/paste/")
	authorize(req, testUser, "wrong password", nonce)
	if err := g.Require(req); err != netshare.ErrForbidden {
		t.Fatal("expected ErrForbidden but got", err)
	}

	// Any request inside the block window is forbidden, even with
	// correct credentials
	req = newRequest("POST", "/paste/")
	authorize(req, testUser, testSecret, nonce)
	if err := g.Require(req); err != netshare.ErrForbidden {
		t.Fatal("expected ErrForbidden but got", err)
	}
}

func TestBlockExpiry(t *testing.T) {
	// Negative timeout: every block is already expired
	g, db := testGuard(t, 1, -time.Second)

	nonce := requireNonce(t, g)
	req := newRequest("POST", "/paste/")
	authorize(req, testUser, "wrong password", nonce)
	if err := g.Require(req); err != netshare.ErrForbidden {
		t.Fatal("expected ErrForbidden but got", err)
	}

	// Next pass clears the expired block and proceeds to a challenge
	nonce = requireNonce(t, g)

	record, err := db.IPGet(testIP)
	if err != nil {
		t.Fatal(err)
	}
	if record.Blocked() {
		t.Error("expired block not cleared")
	}
	if record.Hits != 0 {
		t.Error("failure count not reset, got", record.Hits)
	}

	// A successful authentication after the window is allowed
	req = newRequest("POST", "/paste/")
	authorize(req, testUser, testSecret, nonce)
	if err := g.Require(req); err != nil {
		t.Fatal("expected success after expiry but got", err)
	}
}

func TestWrongUsernameFails(t *testing.T) {
	g, _ := testGuard(t, 10, time.Hour)

	nonce := requireNonce(t, g)

	req := newRequest("POST", "/paste/")
	authorize(req, "intruder", testSecret, nonce)

	err := g.Require(req)
	var authErr *netshare.AuthRequiredError
	if !errors.As(err, &authErr) {
		t.Fatal("expected AuthRequiredError but got", err)
	}
}
