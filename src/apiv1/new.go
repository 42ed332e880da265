
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package apiv1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/casjay-forks/ownbin/src/metrics"
	"github.com/casjay-forks/ownbin/src/netshare"
	"github.com/casjay-forks/ownbin/src/storage"
)

type newPasteRequest struct {
	// Required
	FileContent *string `json:"file_content"`

	FileName string `json:"file_name"`
	Language string `json:"language"`
	Private  bool   `json:"private"`
}

type newPasteAnswer struct {
	Paste storage.Paste `json:"paste"`
	URL   string        `json:"url"`
}

// readJSONBody reads a JSON request body. An empty or syntactically
// invalid body is an unsupported media type; a body with wrong field
// types is a bad request.
func (data *Data) readJSONBody(rw http.ResponseWriter, req *http.Request, v interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(rw, req.Body, int64(data.BodyMaxLen)+4096))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return netshare.ErrPayloadTooLarge
		}
		return err
	}

	if len(body) == 0 {
		return netshare.ErrUnsupportedMedia
	}

	if err := json.Unmarshal(body, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return netshare.ErrBadRequest
		}
		return netshare.ErrUnsupportedMedia
	}

	return nil
}

// POST /paste/
func (data *Data) newHand(rw http.ResponseWriter, req *http.Request) error {
	if err := data.requireAuth(req); err != nil {
		return err
	}

	err := data.RateLimitNew.CheckAndUse(netshare.GetClientAddr(req))
	if err != nil {
		return err
	}

	var reqBody newPasteRequest
	if err := data.readJSONBody(rw, req, &reqBody); err != nil {
		return err
	}

	if reqBody.FileContent == nil {
		return netshare.ErrBadRequest
	}
	if len(*reqBody.FileContent) > data.BodyMaxLen {
		return netshare.ErrPayloadTooLarge
	}

	language := reqBody.Language
	if language != "" {
		if !data.Registry.Valid(language) {
			return netshare.ErrBadRequest
		}
		language = data.Registry.Normalize(language)
	} else {
		language = data.Registry.Infer(*reqBody.FileContent, reqBody.FileName)
	}

	paste, err := data.DB.PasteAdd(storage.Paste{
		Language: language,
		FileName: reqBody.FileName,
		Content:  *reqBody.FileContent,
	}, reqBody.Private)
	if err != nil {
		return err
	}

	metrics.PastesCreatedTotal.Inc()

	// Private pastes are addressed by secret id
	id := fmt.Sprintf("%d", paste.ID)
	if paste.Private() {
		id = paste.SecretID
	}

	answer := newPasteAnswer{
		Paste: paste,
		URL:   netshare.BuildPasteURL(req, id),
	}

	var text strings.Builder
	fmt.Fprintf(&text, "id: %d\n", paste.ID)
	if paste.Private() {
		fmt.Fprintf(&text, "secretId: %s\n", paste.SecretID)
	}
	fmt.Fprintf(&text, "url: %s\n", answer.URL)

	return writeSuccess(rw, req, answer, text.String())
}
