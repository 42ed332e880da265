
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package apiv1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/casjay-forks/ownbin/src/digestauth"
	"github.com/casjay-forks/ownbin/src/httputil"
	"github.com/casjay-forks/ownbin/src/netshare"
	"github.com/casjay-forks/ownbin/src/storage"
)

type errorType struct {
	Status string `json:"status"`
	Code   int    `json:"code"`
	Error  string `json:"error"`
}

type successType struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
}

func (data *Data) writeError(rw http.ResponseWriter, req *http.Request, e error) (int, error) {
	resp := errorType{Status: "fail"}

	var eTmp401 *netshare.AuthRequiredError
	var eTmp429 *netshare.RateLimitError

	if e == netshare.ErrBadRequest {
		resp.Code = 400
		resp.Error = "Bad Request"

	} else if errors.As(e, &eTmp401) {
		rw.Header().Set("WWW-Authenticate", digestauth.Challenge(data.Guard.Realm(), eTmp401.Nonce))
		resp.Code = 401
		resp.Error = "Unauthorized"

	} else if e == netshare.ErrUnauthorized {
		resp.Code = 401
		resp.Error = "Unauthorized"

	} else if e == netshare.ErrForbidden {
		resp.Code = 403
		resp.Error = "Forbidden"

	} else if e == storage.ErrNotFound || e == netshare.ErrNotFound {
		resp.Code = 404
		resp.Error = "Not Found"

	} else if e == netshare.ErrMethodNotAllowed {
		resp.Code = 405
		resp.Error = "Method Not Allowed"

	} else if e == netshare.ErrPayloadTooLarge {
		resp.Code = 413
		resp.Error = "Payload Too Large"

	} else if e == netshare.ErrUnsupportedMedia {
		resp.Code = 415
		resp.Error = "Unsupported Media Type"

	} else if e == netshare.ErrTooManyRequests || errors.As(e, &eTmp429) {
		resp.Code = 429
		resp.Error = "Too Many Requests"
		if eTmp429 != nil {
			rw.Header().Set("Retry-After", strconv.FormatInt(eTmp429.RetryAfter, 10))
		}

	} else {
		resp.Code = 500
		resp.Error = "Internal Server Error"
	}

	if httputil.DetectResponseFormat(req) == httputil.FormatText {
		rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
		rw.WriteHeader(resp.Code)
		_, err := fmt.Fprintf(rw, "ERROR: %d %s\n", resp.Code, resp.Error)
		return resp.Code, err
	}

	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(resp.Code)

	err := writeJSON(rw, resp)
	if err != nil {
		return 500, err
	}

	return resp.Code, nil
}

// writeJSON writes an indented JSON response with a trailing newline
func writeJSON(w http.ResponseWriter, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write(data)
	if err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}

// writeSuccess answers with v in JSON, or textData for plain text
// clients by content negotiation.
func writeSuccess(rw http.ResponseWriter, req *http.Request, v interface{}, textData string) error {
	if httputil.DetectResponseFormat(req) == httputil.FormatText {
		rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(rw, "OK\n")
		if textData != "" {
			fmt.Fprint(rw, textData)
			if textData[len(textData)-1] != '\n' {
				fmt.Fprint(rw, "\n")
			}
		}
		return nil
	}

	return writeJSON(rw, successType{
		Status: "ok",
		Data:   v,
	})
}
