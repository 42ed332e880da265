
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package netshare

import (
	"net"
	"net/http"
	"strings"
)

func GetHost(req *http.Request) string {
	// X-Forwarded-Host (common reverse proxy header)
	xHost := req.Header.Get("X-Forwarded-Host")
	if xHost != "" {
		// Take the first host if multiple are listed
		return strings.TrimSpace(strings.Split(xHost, ",")[0])
	}

	return req.Host
}

func GetProtocol(req *http.Request) string {
	// X-Forwarded-Proto (common reverse proxy header)
	xProto := req.Header.Get("X-Forwarded-Proto")
	if xProto != "" {
		return strings.TrimSpace(strings.Split(xProto, ",")[0])
	}

	if req.TLS != nil {
		return "https"
	}

	return "http"
}

// BuildPasteURL constructs the full URL for a paste.
// Strips port if it is 80 (http) or 443 (https).
func BuildPasteURL(req *http.Request, pasteID string) string {
	proto := GetProtocol(req)
	host := GetHost(req)

	if h, port, err := net.SplitHostPort(host); err == nil {
		if (proto == "http" && port == "80") || (proto == "https" && port == "443") {
			host = h
		}
	}

	return proto + "://" + host + "/paste/" + pasteID + "/"
}

// isPrivateIP checks if an IP address is in a private or loopback range.
func isPrivateIP(ip net.IP) bool {
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
}

// GetClientAddrTrusted extracts the client IP address from a request.
// Proxy headers are honored only when trustProxy is set or when the
// direct peer is a private address, so an external client cannot spoof
// its address by sending X-Forwarded-For itself.
func GetClientAddrTrusted(req *http.Request, trustProxy bool) net.IP {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		host = req.RemoteAddr
	}
	remoteIP := net.ParseIP(host)

	if !trustProxy && !isPrivateIP(remoteIP) {
		return remoteIP
	}

	// X-Real-IP (common in nginx)
	if xReal := req.Header.Get("X-Real-IP"); xReal != "" {
		if ip := net.ParseIP(strings.TrimSpace(xReal)); ip != nil {
			return ip
		}
	}

	// X-Forwarded-For, first IP is the originating client
	if xFor := req.Header.Get("X-Forwarded-For"); xFor != "" {
		firstIP := strings.TrimSpace(strings.Split(xFor, ",")[0])
		if ip := net.ParseIP(firstIP); ip != nil {
			return ip
		}
	}

	return remoteIP
}

// GetClientAddr extracts the client IP address using the safe default:
// proxy headers are trusted only from private peers.
func GetClientAddr(req *http.Request) net.IP {
	return GetClientAddrTrusted(req, false)
}
