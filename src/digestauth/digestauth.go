
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

// Package digestauth implements the HTTP Digest access authentication
// scheme (RFC 2617, qop=auth). The hash algorithm is fixed to MD5:
// client and server must compute the identical function over the same
// ordered tuple, and MD5 is what the scheme advertises in challenges.
package digestauth

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

const Algorithm = "MD5"

// Authorization holds the parsed fields of a "Digest" Authorization
// request header.
type Authorization struct {
	Username string
	Realm    string
	Nonce    string
	URI      string
	Response string
	Qop      string
	NC       string
	CNonce   string
	Opaque   string
}

func hash(args ...string) string {
	sum := md5.Sum([]byte(strings.Join(args, ":")))
	return hex.EncodeToString(sum[:])
}

// CredentialDigest computes the A1 hash over username, realm and
// secret. This is the only form the server stores the secret in.
func CredentialDigest(username, realm, secret string) string {
	return hash(username, realm, secret)
}

// RequestDigest computes the A2 hash over the HTTP method and the
// request URI.
func RequestDigest(method, uri string) string {
	return hash(method, uri)
}

// ResponseDigest combines the credential digest, the challenge state
// and the request digest per RFC 2617 section 3.2.2.1.
func ResponseDigest(credentialDigest, nonce, nonceCount, clientNonce, qop, requestDigest string) string {
	return hash(credentialDigest, nonce, nonceCount, clientNonce, qop, requestDigest)
}

// Verify reports whether auth proves knowledge of the secret behind
// credentialDigest for the configured username. The response digest
// comparison is case-insensitive and constant-time.
func Verify(auth *Authorization, username, credentialDigest, method string) bool {
	if auth == nil || auth.Username != username {
		return false
	}

	expected := ResponseDigest(credentialDigest, auth.Nonce, auth.NC,
		auth.CNonce, auth.Qop, RequestDigest(method, auth.URI))

	presented := strings.ToLower(auth.Response)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(presented)) == 1
}

// Challenge formats a WWW-Authenticate header value for a 401 answer.
func Challenge(realm, nonce string) string {
	return `Digest realm="` + realm + `", nonce="` + nonce +
		`", qop="auth", algorithm=` + Algorithm
}

// NewNonce generates an unpredictable challenge token (16 hex chars).
func NewNonce() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ParseAuthorization parses a "Digest" Authorization header value.
// Returns nil if the header is absent or not a digest header.
func ParseAuthorization(header string) *Authorization {
	const prefix = "digest "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return nil
	}

	auth := &Authorization{}
	for _, part := range splitParams(header[len(prefix):]) {
		key, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)

		switch strings.ToLower(key) {
		case "username":
			auth.Username = value
		case "realm":
			auth.Realm = value
		case "nonce":
			auth.Nonce = value
		case "uri":
			auth.URI = value
		case "response":
			auth.Response = value
		case "qop":
			auth.Qop = value
		case "nc":
			auth.NC = value
		case "cnonce":
			auth.CNonce = value
		case "opaque":
			auth.Opaque = value
		}
	}

	if auth.Response == "" {
		return nil
	}

	return auth
}

// splitParams splits a comma separated parameter list, keeping commas
// inside quoted values intact.
func splitParams(s string) []string {
	var parts []string
	var start int
	inQuotes := false

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])

	return parts
}
