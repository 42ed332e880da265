
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package apiv1

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/casjay-forks/ownbin/src/config"
	"github.com/casjay-forks/ownbin/src/guard"
	"github.com/casjay-forks/ownbin/src/langreg"
	"github.com/casjay-forks/ownbin/src/logger"
	"github.com/casjay-forks/ownbin/src/metrics"
	"github.com/casjay-forks/ownbin/src/netshare"
	"github.com/casjay-forks/ownbin/src/storage"
)

type Data struct {
	Log logger.Logger
	DB  storage.DB

	Guard    *guard.Guard
	Registry *langreg.Registry

	RateLimitNew *netshare.RateLimitSystem
	RateLimitGet *netshare.RateLimitSystem

	Version string
	Title   string

	BodyMaxLen int
	PerPage    int
}

func Load(db storage.DB, g *guard.Guard, registry *langreg.Registry, cfg *config.Config) *Data {
	return &Data{
		Log:          cfg.Log,
		DB:           db,
		Guard:        g,
		Registry:     registry,
		RateLimitNew: cfg.RateLimitNew,
		RateLimitGet: cfg.RateLimitGet,
		Version:      cfg.Version,
		Title:        cfg.Title,
		BodyMaxLen:   cfg.BodyMaxLen,
		PerPage:      cfg.PerPage,
	}
}

// requireAuth runs the guard for req and records the outcome.
func (data *Data) requireAuth(req *http.Request) error {
	err := data.Guard.Require(req)

	var authErr *netshare.AuthRequiredError
	switch {
	case err == nil:
		metrics.AuthResultsTotal.WithLabelValues("allowed").Inc()
	case errors.As(err, &authErr):
		metrics.AuthResultsTotal.WithLabelValues("challenged").Inc()
	case err == netshare.ErrForbidden:
		metrics.AuthResultsTotal.WithLabelValues("forbidden").Inc()
	case err == netshare.ErrBadRequest:
		metrics.AuthResultsTotal.WithLabelValues("malformed").Inc()
	}

	return err
}

// splitPastePath splits "/paste/<id>/" and "/paste/<id>/<sub>/" into
// identifier and subresource. ok is false for any other shape.
func splitPastePath(path string) (id string, sub string, ok bool) {
	path = strings.TrimPrefix(path, "/paste/")
	path = strings.TrimSuffix(path, "/")

	parts := strings.Split(path, "/")
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return "", "", false
		}
		return parts[0], "", true
	case 2:
		if parts[0] == "" || (parts[1] != "raw" && parts[1] != "download") {
			return "", "", false
		}
		return parts[0], parts[1], true
	default:
		return "", "", false
	}
}

func (data *Data) Hand(rw http.ResponseWriter, req *http.Request) {
	var err error

	rw.Header().Set("Server", config.Software+"/"+data.Version)

	switch {
	case req.URL.Path == "/":
		err = data.infoHand(rw, req)

	case req.URL.Path == "/paste/":
		switch req.Method {
		case "GET":
			err = data.listHand(rw, req)
		case "POST":
			err = data.newHand(rw, req)
		default:
			err = netshare.ErrMethodNotAllowed
		}

	case strings.HasPrefix(req.URL.Path, "/paste/"):
		var id, sub string
		var ok bool
		if id, sub, ok = splitPastePath(req.URL.Path); !ok {
			err = netshare.ErrNotFound
			break
		}

		switch sub {
		case "raw":
			err = data.rawHand(rw, req, id)
		case "download":
			err = data.downloadHand(rw, req, id)
		default:
			switch req.Method {
			case "GET":
				err = data.getHand(rw, req, id)
			case "PATCH", "PUT":
				err = data.updateHand(rw, req, id)
			case "DELETE":
				err = data.deleteHand(rw, req, id)
			default:
				err = netshare.ErrMethodNotAllowed
			}
		}

	default:
		err = netshare.ErrNotFound
	}

	// Log
	code := 200
	if err != nil {
		// Log the original error before writing HTTP response
		data.Log.HttpError(req, err)

		var writeErr error
		code, writeErr = data.writeError(rw, req, err)
		if writeErr != nil {
			data.Log.HttpError(req, writeErr)
		}
	}

	data.Log.HttpRequest(req, code)
	metrics.HTTPRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(code)).Inc()
}
