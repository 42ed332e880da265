
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package apiv1

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/casjay-forks/ownbin/src/metrics"
	"github.com/casjay-forks/ownbin/src/netshare"
	"github.com/casjay-forks/ownbin/src/storage"
)

// fetchPaste loads a paste and enforces the private addressing rule:
// a private paste addressed by its numeric id requires authentication,
// addressed by its secret id it does not (the secret id is the key).
func (data *Data) fetchPaste(req *http.Request, id string) (storage.Paste, error) {
	err := data.RateLimitGet.CheckAndUse(netshare.GetClientAddr(req))
	if err != nil {
		return storage.Paste{}, err
	}

	paste, err := data.DB.PasteGet(id)
	if err != nil {
		return storage.Paste{}, err
	}

	if paste.Private() && id != paste.SecretID {
		if err := data.requireAuth(req); err != nil {
			return storage.Paste{}, err
		}
	}

	return paste, nil
}

func pasteText(paste storage.Paste) string {
	var text strings.Builder
	fmt.Fprintf(&text, "id: %d\n", paste.ID)
	if paste.Private() {
		fmt.Fprintf(&text, "secretId: %s\n", paste.SecretID)
	}
	fmt.Fprintf(&text, "language: %s\n", paste.Language)
	if paste.FileName != "" {
		fmt.Fprintf(&text, "fileName: %s\n", paste.FileName)
	}
	fmt.Fprintf(&text, "createTime: %d\n", paste.CreateTime)
	fmt.Fprintf(&text, "\n%s", paste.Content)
	return text.String()
}

// GET /paste/<id>/
func (data *Data) getHand(rw http.ResponseWriter, req *http.Request, id string) error {
	paste, err := data.fetchPaste(req, id)
	if err != nil {
		return err
	}

	return writeSuccess(rw, req, paste, pasteText(paste))
}

type updatePasteRequest struct {
	FileContent *string `json:"file_content"`
	FileName    *string `json:"file_name"`
	Language    *string `json:"language"`
	Private     *bool   `json:"private"`
}

// PATCH|PUT /paste/<id>/
func (data *Data) updateHand(rw http.ResponseWriter, req *http.Request, id string) error {
	if err := data.requireAuth(req); err != nil {
		return err
	}

	var reqBody updatePasteRequest
	if err := data.readJSONBody(rw, req, &reqBody); err != nil {
		return err
	}

	if reqBody.FileContent != nil && len(*reqBody.FileContent) > data.BodyMaxLen {
		return netshare.ErrPayloadTooLarge
	}

	if reqBody.Language != nil {
		if !data.Registry.Valid(*reqBody.Language) {
			return netshare.ErrBadRequest
		}
		normalized := data.Registry.Normalize(*reqBody.Language)
		reqBody.Language = &normalized
	}

	paste, err := data.DB.PasteUpdate(id, storage.PasteUpdateFields{
		FileName: reqBody.FileName,
		Language: reqBody.Language,
		Content:  reqBody.FileContent,
		Private:  reqBody.Private,
	})
	if err != nil {
		return err
	}

	return writeSuccess(rw, req, paste, pasteText(paste))
}

// DELETE /paste/<id>/
func (data *Data) deleteHand(rw http.ResponseWriter, req *http.Request, id string) error {
	if err := data.requireAuth(req); err != nil {
		return err
	}

	if err := data.DB.PasteDelete(id); err != nil {
		return err
	}

	metrics.PastesDeletedTotal.Inc()

	return writeSuccess(rw, req, nil, "deleted")
}

// GET /paste/<id>/raw/
func (data *Data) rawHand(rw http.ResponseWriter, req *http.Request, id string) error {
	if req.Method != "GET" {
		return netshare.ErrMethodNotAllowed
	}

	paste, err := data.fetchPaste(req, id)
	if err != nil {
		return err
	}

	rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err = fmt.Fprint(rw, paste.Content)
	return err
}

// GET /paste/<id>/download/
func (data *Data) downloadHand(rw http.ResponseWriter, req *http.Request, id string) error {
	if req.Method != "GET" {
		return netshare.ErrMethodNotAllowed
	}

	paste, err := data.fetchPaste(req, id)
	if err != nil {
		return err
	}

	fileName := "untitled.txt"
	if paste.FileName != "" {
		// Only the base name: no path components in the header
		fileName = filepath.Base(paste.FileName)
	}

	rw.Header().Set("Content-Type", data.Registry.MimeType(paste.Language))
	rw.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	_, err = fmt.Fprint(rw, paste.Content)
	return err
}
