
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package apiv1

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/casjay-forks/ownbin/src/netshare"
	"github.com/casjay-forks/ownbin/src/storage"
)

type pasteListAnswer struct {
	Pastes  []storage.PasteListItem `json:"pastes"`
	Page    int                     `json:"page"`
	PerPage int                     `json:"perPage"`
	Total   int                     `json:"total"`
	Pages   int                     `json:"pages"`
}

// GET /paste/
func (data *Data) listHand(rw http.ResponseWriter, req *http.Request) error {
	err := data.RateLimitGet.CheckAndUse(netshare.GetClientAddr(req))
	if err != nil {
		return err
	}

	query := req.URL.Query()

	page := 1
	if pageStr := query.Get("page"); pageStr != "" {
		parsed, err := strconv.Atoi(pageStr)
		if err != nil || parsed <= 0 {
			return netshare.ErrBadRequest
		}
		page = parsed
	}

	perPage := data.PerPage
	if perPageStr := query.Get("per_page"); perPageStr != "" {
		parsed, err := strconv.Atoi(perPageStr)
		if err != nil || parsed <= 0 || parsed > 100 {
			return netshare.ErrBadRequest
		}
		perPage = parsed
	}

	// Private pastes are listed only for the authenticated owner
	includePrivate := query.Get("private") == "1"
	if includePrivate {
		if err := data.requireAuth(req); err != nil {
			return err
		}
	}

	pastes, err := data.DB.PasteList(includePrivate, perPage, (page-1)*perPage)
	if err != nil {
		return err
	}

	total, err := data.DB.PasteCount(includePrivate)
	if err != nil {
		return err
	}

	pages := (total + perPage - 1) / perPage

	answer := pasteListAnswer{
		Pastes:  pastes,
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   pages,
	}

	var text strings.Builder
	fmt.Fprintf(&text, "page: %d/%d total: %d\n", answer.Page, answer.Pages, answer.Total)
	for _, paste := range answer.Pastes {
		name := paste.FileName
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(&text, "%d %s %s\n", paste.ID, paste.Language, name)
	}

	return writeSuccess(rw, req, answer, text.String())
}
