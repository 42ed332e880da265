
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package digestauth

import (
	"strings"
	"testing"
)

func TestResponseDigestDeterminism(t *testing.T) {
	a1 := CredentialDigest("admin", "ownbin", "secret")
	a2 := RequestDigest("GET", "/paste/1/")

	first := ResponseDigest(a1, "abcdef0123456789", "00000001", "deadbeef", "auth", a2)
	second := ResponseDigest(a1, "abcdef0123456789", "00000001", "deadbeef", "auth", a2)

	if first != second {
		t.Error("identical inputs produced different digests:", first, second)
	}
}

func TestResponseDigestSensitivity(t *testing.T) {
	a1 := CredentialDigest("admin", "ownbin", "secret")
	a2 := RequestDigest("GET", "/paste/1/")

	base := ResponseDigest(a1, "nonce", "00000001", "cnonce", "auth", a2)

	variants := []string{
		ResponseDigest(CredentialDigest("admin", "ownbin", "other"), "nonce", "00000001", "cnonce", "auth", a2),
		ResponseDigest(a1, "other", "00000001", "cnonce", "auth", a2),
		ResponseDigest(a1, "nonce", "00000002", "cnonce", "auth", a2),
		ResponseDigest(a1, "nonce", "00000001", "other", "auth", a2),
		ResponseDigest(a1, "nonce", "00000001", "cnonce", "auth-int", a2),
		ResponseDigest(a1, "nonce", "00000001", "cnonce", "auth", RequestDigest("POST", "/paste/1/")),
	}

	for i, v := range variants {
		if v == base {
			t.Error("variant", i, "did not change the digest")
		}
	}
}

func TestVerify(t *testing.T) {
	const (
		username = "admin"
		realm    = "ownbin"
		secret   = "hunter2"
		nonce    = "0123456789abcdef"
		method   = "POST"
		uri      = "/paste/"
	)

	a1 := CredentialDigest(username, realm, secret)

	auth := &Authorization{
		Username: username,
		Realm:    realm,
		Nonce:    nonce,
		URI:      uri,
		Qop:      "auth",
		NC:       "00000001",
		CNonce:   "cafebabe",
	}
	auth.Response = ResponseDigest(a1, auth.Nonce, auth.NC, auth.CNonce, auth.Qop,
		RequestDigest(method, auth.URI))

	if !Verify(auth, username, a1, method) {
		t.Fatal("valid authorization rejected")
	}

	// Response comparison must be case-insensitive
	auth.Response = strings.ToUpper(auth.Response)
	if !Verify(auth, username, a1, method) {
		t.Error("upper case response rejected")
	}

	// Wrong username fails even with a correct response
	if Verify(auth, "other", a1, method) {
		t.Error("wrong username accepted")
	}

	// Wrong secret fails
	if Verify(auth, username, CredentialDigest(username, realm, "wrong"), method) {
		t.Error("wrong credential digest accepted")
	}
}

func TestParseAuthorization(t *testing.T) {
	header := `Digest username="admin", realm="ownbin", nonce="0123456789abcdef", ` +
		`uri="/paste/", response="6629fae49393a05397450978507c4ef1", qop=auth, ` +
		`nc=00000001, cnonce="0a4f113b"`

	auth := ParseAuthorization(header)
	if auth == nil {
		t.Fatal("failed to parse digest header")
	}

	if auth.Username != "admin" {
		t.Error("expected username admin but got", auth.Username)
	}
	if auth.Nonce != "0123456789abcdef" {
		t.Error("expected nonce 0123456789abcdef but got", auth.Nonce)
	}
	if auth.NC != "00000001" {
		t.Error("expected nc 00000001 but got", auth.NC)
	}
	if auth.Qop != "auth" {
		t.Error("expected qop auth but got", auth.Qop)
	}
}

func TestParseAuthorizationRejects(t *testing.T) {
	for _, header := range []string{
		"",
		"Basic YWRtaW46aHVudGVyMg==",
		"Digest username=\"admin\"",
	} {
		if auth := ParseAuthorization(header); auth != nil {
			t.Error("expected nil for header:", header)
		}
	}
}

func TestNewNonce(t *testing.T) {
	first, err := NewNonce()
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewNonce()
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != 16 {
		t.Error("expected 16 hex chars but got", len(first))
	}
	if first == second {
		t.Error("two nonces are identical")
	}
}
