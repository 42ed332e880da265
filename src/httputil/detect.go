
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

// Package httputil provides content negotiation helpers. The API
// serves JSON and plain text; browsers asking for text/html receive
// JSON, the self-describing representation.
package httputil

import (
	"net/http"
	"strings"
)

// ResponseFormat represents the type of response to send
type ResponseFormat string

const (
	FormatJSON ResponseFormat = "application/json"
	FormatText ResponseFormat = "text/plain"
)

// IsHttpTool detects HTTP tools (curl, wget, httpie, etc.). They are
// non-interactive and get pre-formatted text.
func IsHttpTool(r *http.Request) bool {
	ua := strings.ToLower(r.Header.Get("User-Agent"))

	httpTools := []string{
		"curl/", "wget/", "httpie/",
		"libcurl/", "python-requests/",
		"go-http-client/", "axios/", "node-fetch/",
	}
	for _, tool := range httpTools {
		if strings.Contains(ua, tool) {
			return true
		}
	}

	// No User-Agent = likely HTTP tool
	return ua == ""
}

// DetectResponseFormat determines the response format for a request.
func DetectResponseFormat(r *http.Request) ResponseFormat {
	accept := r.Header.Get("Accept")

	switch {
	case strings.Contains(accept, "application/json"):
		return FormatJSON
	case strings.Contains(accept, "text/plain"):
		return FormatText
	}

	if IsHttpTool(r) {
		return FormatText
	}

	return FormatJSON
}
