
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package apiv1

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/casjay-forks/ownbin/src/config"
	"github.com/casjay-forks/ownbin/src/netshare"
)

type serverInfoType struct {
	Software   string            `json:"software"`
	Version    string            `json:"version"`
	Title      string            `json:"title"`
	PerPage    int               `json:"perPage"`
	BodyMaxLen int               `json:"bodyMaxLength"`
	Languages  map[string]string `json:"languages"`
}

// GET /
func (data *Data) infoHand(rw http.ResponseWriter, req *http.Request) error {
	if req.Method != "GET" {
		return netshare.ErrMethodNotAllowed
	}

	serverInfo := serverInfoType{
		Software:   config.Software,
		Version:    data.Version,
		Title:      data.Title,
		PerPage:    data.PerPage,
		BodyMaxLen: data.BodyMaxLen,
		Languages:  data.Registry.Languages(),
	}

	var text strings.Builder
	fmt.Fprintf(&text, "software: %s\n", serverInfo.Software)
	fmt.Fprintf(&text, "version: %s\n", serverInfo.Version)
	fmt.Fprintf(&text, "title: %s\n", serverInfo.Title)
	fmt.Fprintf(&text, "languages: %d\n", len(serverInfo.Languages))

	return writeSuccess(rw, req, serverInfo, text.String())
}
